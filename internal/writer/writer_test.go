package writer_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/match"
	"github.com/kinling9/stacompare/internal/model"
	"github.com/kinling9/stacompare/internal/writer"
)

func TestJSON_WritesSortedKeyOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	records := map[string]*match.Record{
		"B (rise)-C (rise)": {Type: "net arc"},
		"A (rise)-B (rise)": {Type: "cell arc"},
	}

	require.NoError(t, writer.JSON(dir, "key-value", records))

	data, err := os.ReadFile(filepath.Join(dir, "key-value.json"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)

	// json.Marshal on a Go map always emits keys in sorted order, so the
	// determinism invariant holds regardless of map iteration order.
	firstKeyIdx := indexOf(t, string(data), `"A (rise)-B (rise)"`)
	secondKeyIdx := indexOf(t, string(data), `"B (rise)-C (rise)"`)
	assert.Less(t, firstKeyIdx, secondKeyIdx)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()

	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}

	t.Fatalf("substring %q not found in %q", needle, haystack)

	return -1
}

func TestFanout_WritesCSVHeaderAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	fanout := 3
	records := []match.FanoutRecord{{From: "A", To: "B", Fanout: fanout, Delay: 1.5}}

	require.NoError(t, writer.Fanout(dir, records))

	data, err := os.ReadFile(filepath.Join(dir, "fanout_analyse.csv"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "from,to,fanout,delay")
	assert.Contains(t, content, "A,B,3,1.5")
}

func TestTNS_WritesCSVHeaderAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	totals := map[model.ArcKey]float64{
		{From: "A", To: "B", Type: model.CellArc}: -0.5,
	}

	require.NoError(t, writer.TNS(dir, totals))

	data, err := os.ReadFile(filepath.Join(dir, "tns_analyse.csv"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "from,to,type,tns_contribution")
	assert.Contains(t, content, "A,B,cell arc,-0.5")
}
