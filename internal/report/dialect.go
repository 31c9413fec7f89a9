package report

import "fmt"

// ByName resolves a dialect name (from config's `type` list) to a Dialect
// implementation.
func ByName(name string) (Dialect, error) {
	switch name {
	case "leda":
		return Leda{}, nil
	case "invs":
		return Invs{}, nil
	default:
		return nil, fmt.Errorf("report: unknown dialect %q", name)
	}
}
