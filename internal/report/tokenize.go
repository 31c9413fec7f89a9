package report

import (
	"strconv"
	"strings"
)

// splitFields splits s on runs of whitespace, grounded on the leda dialect's
// tokenization policy: Pin rows are 8 tokens (the "(x y)" location splits
// into two), Net rows are 3 tokens.
func splitFields(s string) []string {
	return strings.Fields(s)
}

// parseFloatOrZero parses s as a C-locale double; an unparseable token
// defaults to 0.0 rather than aborting the path, per the recovery policy
// for malformed numeric fields.
func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return v
}

// parseIntOrZero parses s as a decimal integer, defaulting to 0 on failure.
func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return v
}

// locationScale is the factor the original tool applies to raw def
// coordinates. Nothing in this package applies it: parseLocation returns
// report coordinates as written.
const locationScale = 2000.0

// parseLocation parses a "(x y)" pair, e.g. "(123.4 567.8)", tolerating the
// surrounding parens having already been split off as separate tokens by
// splitFields. Returns ok=false if the tokens don't look like two numbers.
func parseLocation(xTok, yTok string) (x, y float64, ok bool) {
	xTok = strings.TrimPrefix(xTok, "(")
	yTok = strings.TrimSuffix(yTok, ")")

	xv, errX := strconv.ParseFloat(xTok, 64)
	yv, errY := strconv.ParseFloat(yTok, 64)

	if errX != nil || errY != nil {
		return 0, 0, false
	}

	return xv, yv, true
}
