package report

import (
	"regexp"
	"strings"

	"github.com/kinling9/stacompare/internal/model"
)

// Leda implements Dialect for the "leda" report format, grounded on
// parser/leda_rpt.h / leda_rpt.cpp's regex set and state table.
type Leda struct{}

var (
	ledaStart    = regexp.MustCompile(`^Startpoint: .*`)
	ledaBegin    = regexp.MustCompile(`^Startpoint: (\S*) .*`)
	ledaEnd      = regexp.MustCompile(`^Endpoint: (\S*) .*`)
	ledaGroup    = regexp.MustCompile(`^Path Group: (\S*)`)
	ledaPathType = regexp.MustCompile(`^Path Type: (\S*)`)
	ledaClock    = regexp.MustCompile(`clocked\s+by\s+(.*?)\)`)
	ledaAt       = regexp.MustCompile(`^data arrival time.*`)
	ledaSlack    = regexp.MustCompile(`^slack\s+\(\S+\)\s+([0-9.eE+-]*)`)
)

// Name returns "leda".
func (Leda) Name() string { return "leda" }

// StartPattern matches the first line of a leda path record.
func (Leda) StartPattern() *regexp.Regexp { return ledaStart }

// ledaState walks {Beginpoint, Endpoint, PathGroup, PathType, Paths, Slack,
// End} in order, one mandatory header line per state before entering Paths,
// which consumes body rows until "data arrival time" terminates it.
type ledaState int

const (
	stateBegin ledaState = iota
	stateEnd
	stateGroup
	statePathType
	statePaths
	stateSlack
	stateDone
)

// DecodePath decodes one leda path record into db.
func (Leda) DecodePath(db *model.Db, lines []string) error {
	path := &model.Path{}

	var (
		prevOutputPin model.PinID
		havePrevPin   bool
		netPending    bool
		netName       string
		netFanout     int
		netCap        float64
	)

	state := stateBegin

	for _, line := range lines {
		switch state {
		case stateBegin:
			m := ledaBegin.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			path.Startpoint = m[1]

			if cm := ledaClock.FindStringSubmatch(line); cm != nil {
				path.Clock = cm[1]
			}

			state = stateEnd
		case stateEnd:
			m := ledaEnd.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			path.Endpoint = m[1]
			state = stateGroup
		case stateGroup:
			m := ledaGroup.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			path.Group = m[1]
			state = statePathType
		case statePathType:
			if !ledaPathType.MatchString(line) {
				continue
			}

			state = statePaths
		case statePaths:
			if ledaAt.MatchString(line) {
				state = stateSlack
				continue
			}

			tokens := splitFields(line)

			switch len(tokens) {
			case 8:
				pin := decodePinRow(tokens)
				// Pins alternate cell-output, cell-input, cell-output, ...
				// starting from the startpoint register's output; position
				// parity in the path determines is_input.
				pin.IsInput = len(path.Pins)%2 == 1

				id := db.Intern(pin.Name)
				*db.Pin(id) = pin

				if netPending {
					netID := db.NewNet(netName, netFanout, netCap, prevOutputPin, id)
					_ = netID
					netPending = false
				}

				path.Pins = append(path.Pins, id)
				prevOutputPin = id
				havePrevPin = true
			case 3:
				// Net row binds the previous output-pin row to the next
				// input-pin row; the ordering assumption (a Net row always
				// follows an output-pin row) is asserted here rather than
				// silently relied on.
				if !havePrevPin {
					return &ParseError{Dialect: "leda", Reason: "net row with no preceding pin row", Lines: lines}
				}

				netName = tokens[0]
				netFanout = parseIntOrZero(tokens[1])
				netCap = parseFloatOrZero(tokens[2])
				netPending = true
			default:
				// Unrecognized token count: skip the line, keep decoding.
				continue
			}
		case stateSlack:
			m := ledaSlack.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			path.Slack = parseFloatOrZero(m[1])
			state = stateDone
		}
	}

	if path.Startpoint == "" || path.Endpoint == "" {
		return &ParseError{Dialect: "leda", Reason: "path never reached its header lines", Lines: lines}
	}

	// A path that never reached its Slack state is still emitted, with
	// slack defaulting to its zero value (0.0), per the recovery policy.
	db.AddPath(path)

	return nil
}

// decodePinRow decodes an 8-token body row:
// <pin_name> (<cell>) <trans> <incr_delay> <path_delay> <r|f> (<x> <y>).
func decodePinRow(tokens []string) model.Pin {
	pin := model.Pin{
		Name:      tokens[0],
		Cell:      strings.Trim(tokens[1], "()"),
		Trans:     parseFloatOrZero(tokens[2]),
		IncrDelay: parseFloatOrZero(tokens[3]),
		PathDelay: parseFloatOrZero(tokens[4]),
		Rise:      tokens[5] == "r",
	}

	if x, y, ok := parseLocation(tokens[6], tokens[7]); ok {
		pin.Location = &model.Point{X: x, Y: y}
	}

	return pin
}
