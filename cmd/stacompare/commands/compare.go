// Package commands implements stacompare's CLI command handlers.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kinling9/stacompare/internal/assets"
	"github.com/kinling9/stacompare/internal/config"
	"github.com/kinling9/stacompare/internal/model"
	"github.com/kinling9/stacompare/internal/orchestrator"
	"github.com/kinling9/stacompare/internal/telemetry"
)

// NewCompareCommand builds the "compare" subcommand: stacompare compare <config.yml>.
func NewCompareCommand() *cobra.Command {
	var pinAttrFlags []string

	cmd := &cobra.Command{
		Use:   "compare <config.yml>",
		Short: "Compare two or more STA timing reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], pinAttrFlags)
		},
	}

	cmd.Flags().StringArrayVar(&pinAttrFlags, "pin-attributes", nil,
		"report_id=path.csv pin attribute side channel, repeatable")

	return cmd
}

func runCompare(cmd *cobra.Command, configPath string, pinAttrFlags []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	inner := slog.NewTextHandler(os.Stderr, nil)
	logger := slog.New(telemetry.NewTracingHandler(inner, ""))

	provider, err := telemetry.NewPrometheusProvider()
	if err != nil {
		return fmt.Errorf("compare: set up telemetry: %w", err)
	}

	metrics, err := telemetry.NewMetrics(provider.MeterProvider.Meter("stacompare"))
	if err != nil {
		return fmt.Errorf("compare: set up metrics: %w", err)
	}

	csvAttrs, err := parsePinAttrFlags(pinAttrFlags)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	o := &orchestrator.Orchestrator{
		Cfg:              cfg,
		Logger:           logger,
		Metrics:          metrics,
		CSVPinAttributes: csvAttrs,
		SummaryOut:       cmd.OutOrStdout(),
	}

	if err := o.Run(cmd.Context()); err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	return nil
}

// parsePinAttrFlags decodes "--pin-attributes id=path.csv" flags into a
// report-id-keyed map of loaded pin attribute tables.
func parsePinAttrFlags(flags []string) (map[string]map[string]*model.Pin, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	out := make(map[string]map[string]*model.Pin, len(flags))

	for _, flag := range flags {
		id, path, ok := splitKeyValue(flag)
		if !ok {
			return nil, fmt.Errorf("invalid --pin-attributes value %q, expected id=path.csv", flag)
		}

		pins, err := assets.LoadPinAttributesFile(path)
		if err != nil {
			return nil, err
		}

		out[id] = pins
	}

	return out, nil
}

func splitKeyValue(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}

	return "", "", false
}
