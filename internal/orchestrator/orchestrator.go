// Package orchestrator composes the comparator's pipeline stages —
// config, report parsing, graph construction, arc matching, and output
// writing — into a single run, grounded on cmd/codefang/commands/run.go's
// top-level sequencing (without its CGO malloc-tuning/pprof/RSS-watchdog
// machinery, which has no home in this domain).
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kinling9/stacompare/internal/assets"
	"github.com/kinling9/stacompare/internal/config"
	"github.com/kinling9/stacompare/internal/filter"
	"github.com/kinling9/stacompare/internal/graph"
	"github.com/kinling9/stacompare/internal/match"
	"github.com/kinling9/stacompare/internal/model"
	"github.com/kinling9/stacompare/internal/report"
	"github.com/kinling9/stacompare/internal/stream"
	"github.com/kinling9/stacompare/internal/telemetry"
	"github.com/kinling9/stacompare/internal/writer"
)

// Orchestrator ties every component together for one compare run.
type Orchestrator struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Metrics *telemetry.Metrics

	// CSVPinAttributes optionally maps a report id (from Cfg.Rpts, by
	// basename without extension) to its pin-attribute side channel,
	// loaded by the caller via internal/assets before Run.
	CSVPinAttributes map[string]map[string]*model.Pin

	// Periods is the optional design->clock-period table. Run does not
	// read it.
	Periods assets.Periods

	// SummaryOut, if non-nil, receives a one-row console table per
	// analyse_tuples entry via internal/writer.Summary. Nil disables
	// summary printing (e.g. for non-interactive callers).
	SummaryOut io.Writer
}

// reportID derives the id a report is addressed by in analyse_tuples: its
// basename with the extension stripped.
func reportID(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Run parses every configured report, then for each analyse_tuples pair
// matches the key report's arcs against the value report's graph and
// writes the resulting JSON artifact, plus any configured TNS/fanout
// summaries.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	dbs, err := o.parseAll(ctx)
	if err != nil {
		return err
	}

	tns := match.NewTNSAccumulator()

	for _, tuple := range o.Cfg.Tuples() {
		if err := o.runTuple(ctx, dbs, tuple, tns); err != nil {
			return err
		}
	}

	if o.Cfg.EnableMBFF || len(tns.Totals()) > 0 {
		if err := writer.TNS(o.Cfg.OutputDir, tns.Totals()); err != nil {
			return fmt.Errorf("orchestrator: write tns summary: %w", err)
		}
	}

	return nil
}

func (o *Orchestrator) parseAll(ctx context.Context) (map[string]*model.Db, error) {
	dbs := make(map[string]*model.Db, len(o.Cfg.Rpts))

	for i, rptPath := range o.Cfg.Rpts {
		dialectName := "leda"
		if i < len(o.Cfg.Type) {
			dialectName = o.Cfg.Type[i]
		}

		dialect, err := report.ByName(dialectName)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %s: %w", rptPath, err)
		}

		rc, err := stream.Open(rptPath)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: open %s: %w", rptPath, err)
		}

		parser := &report.Parser{Dialect: dialect}

		db, stats, err := parser.Parse(ctx, reportID(rptPath), rc)

		closeErr := rc.Close()

		if err != nil {
			return nil, fmt.Errorf("orchestrator: parse %s: %w", rptPath, err)
		}

		if closeErr != nil {
			return nil, fmt.Errorf("orchestrator: close %s: %w", rptPath, closeErr)
		}

		db.Finalize()

		if o.Metrics != nil {
			o.Metrics.RecordParse(ctx, dialectName, stats.Decoded, stats.Dropped)
		}

		o.Logger.InfoContext(ctx, "parsed report",
			slog.String("path", rptPath),
			slog.Int("decoded", stats.Decoded),
			slog.Int("dropped", stats.Dropped))

		dbs[reportID(rptPath)] = db
	}

	return dbs, nil
}

func (o *Orchestrator) runTuple(ctx context.Context, dbs map[string]*model.Db, tuple config.Tuple, tns *match.TNSAccumulator) error {
	keyDb, ok := dbs[tuple.Key]
	if !ok {
		return fmt.Errorf("orchestrator: analyse_tuples references unknown key report %q", tuple.Key)
	}

	valueDb, ok := dbs[tuple.Value]
	if !ok {
		return fmt.Errorf("orchestrator: analyse_tuples references unknown value report %q", tuple.Value)
	}

	start := time.Now()
	pair := graph.FromDb(valueDb)

	m := &match.Matcher{
		KeyDb:         keyDb,
		ValueDb:       valueDb,
		ValueGraphs:   pair,
		AllowUnplaced: o.Cfg.AllowUnplacedPin,
		CSVPinDbKey:   o.CSVPinAttributes[tuple.Key],
		CSVPinDbValue: o.CSVPinAttributes[tuple.Value],
	}

	result := m.Match()

	tupleName := tuple.Key + "-" + tuple.Value

	if o.Metrics != nil {
		o.Metrics.RecordQuery(ctx, tupleName, time.Since(start), false)

		if result.Skipped > 0 {
			o.Metrics.RecordQuery(ctx, tupleName, 0, true)
		}
	}

	records, err := o.applyFilters(result.Records)
	if err != nil {
		return err
	}

	tns.AccumulatePaths(keyDb)

	if err := o.applyPatterns(records); err != nil {
		return err
	}

	if o.Metrics != nil {
		o.Metrics.RecordWrite(ctx, tupleName, len(records))
	}

	result.Records = records

	if o.SummaryOut != nil {
		writer.Summary(o.SummaryOut, tupleName, result)
	}

	if err := writer.JSON(o.Cfg.OutputDir, tupleName, records); err != nil {
		return fmt.Errorf("orchestrator: write %s: %w", tupleName, err)
	}

	if o.Cfg.FanoutFilter != "" {
		if err := writer.Fanout(o.Cfg.OutputDir, match.FanoutReport(keyDb)); err != nil {
			return fmt.Errorf("orchestrator: write fanout summary: %w", err)
		}
	}

	return nil
}

// applyPatterns attributes each record's endpoint to the analyse_patterns
// entry DominantFilter picked for it, grounded on spec.md's analyse
// classification step. A no-op when no patterns are configured.
func (o *Orchestrator) applyPatterns(records map[string]*match.Record) error {
	if len(o.Cfg.AnalysePatterns) == 0 {
		return nil
	}

	patterns, err := match.CompilePatterns(o.Cfg.AnalysePatterns)
	if err != nil {
		return fmt.Errorf("orchestrator: compile analyse_patterns: %w", err)
	}

	dominant := match.DominantFilter(records, patterns)

	for _, rec := range records {
		if name, ok := dominant[rec.To]; ok {
			name := name
			rec.Pattern = &name
		}
	}

	return nil
}

// applyFilters drops records whose delta_delay fails the configured
// delay_filter expression, and whose delta_slack fails slack_filter when
// one is configured and the record carries a known delta_slack.
// fanout_filter is not evaluated as an expression anywhere: a non-empty
// value only makes runTuple write fanout_analyse.csv, with every net arc
// that carries a fanout.
func (o *Orchestrator) applyFilters(records map[string]*match.Record) (map[string]*match.Record, error) {
	delayProg, err := compileIfSet(o.Cfg.DelayFilter, "delay_filter")
	if err != nil {
		return nil, err
	}

	slackProg, err := compileIfSet(o.Cfg.SlackFilter, "slack_filter")
	if err != nil {
		return nil, err
	}

	if delayProg == nil && slackProg == nil {
		return records, nil
	}

	out := make(map[string]*match.Record, len(records))

	for key, rec := range records {
		if delayProg != nil && !filter.Eval(delayProg, rec.DeltaDelay) {
			continue
		}

		if slackProg != nil && rec.DeltaSlack != nil && !filter.Eval(slackProg, *rec.DeltaSlack) {
			continue
		}

		out[key] = rec
	}

	return out, nil
}

func compileIfSet(expr, name string) (*filter.Program, error) {
	if expr == "" {
		return nil, nil
	}

	prog, err := filter.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compile %s: %w", name, err)
	}

	return prog, nil
}
