package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusProvider bundles an OTel MeterProvider backed by a Prometheus
// exporter and the http.Handler serving its /metrics scrape endpoint,
// grounded on internal/observability/prometheus.go. Unlike the teacher's
// version, the MeterProvider is returned rather than discarded — the
// orchestrator needs it to create its own Meter for NewMetrics.
type PrometheusProvider struct {
	MeterProvider *metric.MeterProvider
	Handler       http.Handler
}

// NewPrometheusProvider creates an independent Prometheus registry and OTel
// exporter, so repeated calls (e.g. in tests) never collide on collectors.
func NewPrometheusProvider() (*PrometheusProvider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))

	return &PrometheusProvider{
		MeterProvider: provider,
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}
