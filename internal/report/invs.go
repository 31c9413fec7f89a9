package report

import (
	"errors"
	"regexp"

	"github.com/kinling9/stacompare/internal/model"
)

// ErrUnsupportedDialect is returned by Invs.DecodePath; the invs dialect's
// regex set and state table are not part of this release (config.Validate still
// validates "invs" as an accepted `type` value per the acceptance contract,
// but every report actually supplied must currently be "leda").
var ErrUnsupportedDialect = errors.New("report: invs dialect not implemented in this release")

// Invs is a placeholder Dialect for the "invs" report format; it exists so
// code that iterates over registered dialects compiles and fails clearly
// rather than silently misparsing an invs report as leda.
type Invs struct{}

func (Invs) Name() string                 { return "invs" }
func (Invs) StartPattern() *regexp.Regexp { return regexp.MustCompile(`^Startpoint: .*`) }

func (Invs) DecodePath(_ *model.Db, _ []string) error {
	return ErrUnsupportedDialect
}
