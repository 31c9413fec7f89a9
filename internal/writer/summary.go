package writer

import (
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kinling9/stacompare/internal/match"
)

// Summary renders a one-line-per-analyse-tuple console table of comparison
// results, grounded on internal/analyzers/common/formatter.go's go-pretty
// table construction and cmd/uast/validate.go's color-coded pass/fail
// output. Rows with a non-zero skip count print in yellow; an all-matched
// tuple prints in green.
func Summary(w io.Writer, tuple string, result match.Result) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"tuple", "records", "skipped", "tns bytes"})

	keys := make([]string, 0, len(result.Records))
	for k := range result.Records {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	statusColor := color.New(color.FgGreen)
	if result.Skipped > 0 {
		statusColor = color.New(color.FgYellow)
	}

	size := humanize.Bytes(uint64(len(keys)) * approxRecordBytes) //nolint:gosec // display-only estimate

	tbl.AppendRow(table.Row{
		statusColor.Sprint(tuple),
		len(result.Records),
		result.Skipped,
		size,
	})

	tbl.Render()
}

// approxRecordBytes is a rough per-record JSON size used only to give the
// console summary a human-readable magnitude, not an exact byte count.
const approxRecordBytes = 256

// PrintError writes a red-highlighted error line, mirroring
// cmd/uast/validate.go's color.New(color.FgRed) failure reporting.
func PrintError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "stacompare: %v\n", err) //nolint:errcheck // best-effort console output
}
