package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/kinling9/stacompare/internal/match"
	"github.com/kinling9/stacompare/internal/model"
)

// fanoutRow is the gocsv-tagged shape of one fanout_analyse.csv row.
type fanoutRow struct {
	From   string  `csv:"from"`
	To     string  `csv:"to"`
	Fanout int     `csv:"fanout"`
	Delay  float64 `csv:"delay"`
}

// Fanout writes fanout_analyse.csv under outputDir from a FanoutReport,
// grounded on the per-analyser CSV artifacts in utils/csv_writer.cpp.
func Fanout(outputDir string, records []match.FanoutRecord) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("writer: create output dir %s: %w", outputDir, err)
	}

	rows := make([]*fanoutRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &fanoutRow{From: r.From, To: r.To, Fanout: r.Fanout, Delay: r.Delay})
	}

	path := filepath.Join(outputDir, "fanout_analyse.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writer: marshal %s: %w", path, err)
	}

	return nil
}

// tnsRow is the gocsv-tagged shape of one tns_analyse.csv row.
type tnsRow struct {
	From  string  `csv:"from"`
	To    string  `csv:"to"`
	Type  string  `csv:"type"`
	Total float64 `csv:"tns_contribution"`
}

// TNS writes tns_analyse.csv from an accumulator's per-arc totals, one row
// per (from, to, type) key.
func TNS(outputDir string, totals map[model.ArcKey]float64) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("writer: create output dir %s: %w", outputDir, err)
	}

	rows := make([]*tnsRow, 0, len(totals))
	for key, total := range totals {
		rows = append(rows, &tnsRow{From: key.From, To: key.To, Type: key.Type.String(), Total: total})
	}

	path := filepath.Join(outputDir, "tns_analyse.csv")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writer: marshal %s: %w", path, err)
	}

	return nil
}
