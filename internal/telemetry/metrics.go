package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricPathsParsedTotal   = "stacompare.paths.parsed.total"
	metricPathsDroppedTotal  = "stacompare.paths.dropped.total"
	metricQueryDuration      = "stacompare.query.duration.seconds"
	metricQueryMissTotal     = "stacompare.query.miss.total"
	metricRecordsWritten     = "stacompare.records.written.total"

	attrDialect = "dialect"
	attrTuple   = "tuple"
)

// queryDurationBuckets covers microsecond-scale single queries up to
// multi-second pathological cyclic-component fallbacks.
var queryDurationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 5}

// Metrics holds the OTel instruments the orchestrator and its collaborators
// record against, grounded on internal/observability/metrics.go's RED
// pattern adapted to report-parsing and graph-query concerns.
type Metrics struct {
	pathsParsed   metric.Int64Counter
	pathsDropped  metric.Int64Counter
	queryDuration metric.Float64Histogram
	queryMiss     metric.Int64Counter
	recordsWritten metric.Int64Counter
}

// NewMetrics creates the comparator's metric instruments from mt.
func NewMetrics(mt metric.Meter) (*Metrics, error) {
	b := newMetricBuilder(mt)

	m := &Metrics{
		pathsParsed:    b.counter(metricPathsParsedTotal, "Total timing paths successfully decoded", "{path}"),
		pathsDropped:   b.counter(metricPathsDroppedTotal, "Total timing paths dropped for malformed structure", "{path}"),
		queryDuration:  b.histogram(metricQueryDuration, "Shortest-path query duration in seconds", "s", queryDurationBuckets...),
		queryMiss:      b.counter(metricQueryMissTotal, "Total arc queries with no path in the value graph", "{query}"),
		recordsWritten: b.counter(metricRecordsWritten, "Total comparison records written", "{record}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return m, nil
}

// RecordParse tallies one report parse pass's decoded/dropped path counts.
func (m *Metrics) RecordParse(ctx context.Context, dialect string, decoded, dropped int) {
	attrs := metric.WithAttributes(attribute.String(attrDialect, dialect))
	m.pathsParsed.Add(ctx, int64(decoded), attrs)
	m.pathsDropped.Add(ctx, int64(dropped), attrs)
}

// RecordQuery records one shortest-path query's duration and hit/miss outcome.
func (m *Metrics) RecordQuery(ctx context.Context, tuple string, duration time.Duration, miss bool) {
	attrs := metric.WithAttributes(attribute.String(attrTuple, tuple))
	m.queryDuration.Record(ctx, duration.Seconds(), attrs)

	if miss {
		m.queryMiss.Add(ctx, 1, attrs)
	}
}

// RecordWrite tallies records emitted for one analyze-tuple's JSON artifact.
func (m *Metrics) RecordWrite(ctx context.Context, tuple string, count int) {
	m.recordsWritten.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrTuple, tuple)))
}
