package assets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kinling9/stacompare/internal/model"
)

// Recognized pin-attribute CSV columns. name is mandatory; every other
// column is optional and silently skipped when absent, per spec section
// 6.5's "missing rows -> silently absent" recovery policy. Columns are
// tool-version-dependent, so this reader recognizes them by header name
// rather than by struct-tag position (encoding/csv + a manual header map,
// not gocarina/gocsv — documented in DESIGN.md).
const (
	colName       = "name"
	colLocX       = "loc_x"
	colLocY       = "loc_y"
	colTransRise  = "trans_rise"
	colTransFall  = "trans_fall"
	colCapRise    = "cap_rise"
	colCapFall    = "cap_fall"
	colDelayRise  = "path_delay_rise"
	colDelayFall  = "path_delay_fall"
	colSlackRise  = "slack_rise"
	colSlackFall  = "slack_fall"
)

// LoadPinAttributes reads a pin-attribute CSV into a name-keyed map of
// model.Pin, filling in whichever optional fields the header provides.
// Returns an error when the mandatory "name" column is missing or the CSV
// itself cannot be read; missing optional columns, blank cells (treated as
// absent) and malformed numeric cells (read as 0) are
// absorbed silently, consistent with the propagation policy that low-level
// recoverable issues stay local to the producing component.
func LoadPinAttributes(r io.Reader) (map[string]*model.Pin, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return map[string]*model.Pin{}, nil
		}

		return nil, fmt.Errorf("assets: read pin attribute header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	nameIdx, ok := col[colName]
	if !ok {
		return nil, fmt.Errorf("assets: pin attribute csv missing required %q column", colName)
	}

	result := make(map[string]*model.Pin)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("assets: read pin attribute row: %w", err)
		}

		if nameIdx >= len(row) {
			continue
		}

		name := row[nameIdx]
		pin := &model.Pin{Name: name}

		if x, xok := cell(row, col, colLocX); xok {
			if y, yok := cell(row, col, colLocY); yok {
				pin.Location = &model.Point{X: parseFloat(x), Y: parseFloat(y)}
			}
		}

		if pair, ok := pairField(row, col, colTransRise, colTransFall); ok {
			pin.Transs = &pair
		}

		if pair, ok := pairField(row, col, colCapRise, colCapFall); ok {
			pin.Caps = &pair
		}

		if pair, ok := pairField(row, col, colDelayRise, colDelayFall); ok {
			pin.PathDelays = &pair
		}

		if pair, ok := pairField(row, col, colSlackRise, colSlackFall); ok {
			pin.PathSlacks = &pair
		}

		result[name] = pin
	}

	return result, nil
}

// LoadPinAttributesFile opens path and reads it via LoadPinAttributes.
func LoadPinAttributesFile(path string) (map[string]*model.Pin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open pin attribute csv %s: %w", path, err)
	}
	defer f.Close()

	return LoadPinAttributes(f)
}

func cell(row []string, col map[string]int, name string) (string, bool) {
	idx, ok := col[name]
	if !ok || idx >= len(row) || row[idx] == "" {
		return "", false
	}

	return row[idx], true
}

func pairField(row []string, col map[string]int, riseCol, fallCol string) ([2]float64, bool) {
	riseStr, riseOk := cell(row, col, riseCol)
	fallStr, fallOk := cell(row, col, fallCol)

	if !riseOk || !fallOk {
		return [2]float64{}, false
	}

	return [2]float64{parseFloat(riseStr), parseFloat(fallStr)}, true
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}
