// Package model holds the arena-owned data types parsed from one STA report:
// Pin, Net, Arc, Path and the aggregate Db. Every cross-reference is a
// stable integer id into a slice owned by the Db that parsed it, so a Db is
// free of reference cycles and safe to share read-only across goroutines
// once parsing completes.
package model

import (
	"fmt"
	"sort"
)

// PinID indexes into the Db's pin arena; the first interned pin gets id 0.
// NoPin is used where a reference may be absent.
type PinID int

// NoPin is the sentinel for "no such pin".
const NoPin PinID = -1

// ArcType distinguishes a timing edge through a cell from one across a net.
type ArcType uint8

const (
	// CellArc is a cell-input -> cell-output edge.
	CellArc ArcType = iota
	// NetArc is a cell-output -> cell-input edge across a net.
	NetArc
)

func (t ArcType) String() string {
	if t == CellArc {
		return "cell arc"
	}

	return "net arc"
}

// Point is a layout-plane location, (x, y).
type Point struct {
	X, Y float64
}

// Pin is a named signal port on a cell or a design boundary.
type Pin struct {
	Name       string
	Cell       string
	IsInput    bool
	Rise       bool // true = rise, false = fall
	Location   *Point
	Trans      float64
	IncrDelay  float64
	PathDelay  float64
	Caps       *[2]float64
	Transs     *[2]float64
	PathDelays *[2]float64
	PathSlacks *[2]float64
	NetID      NetID
}

// NetID indexes into Db.nets.
type NetID int

// NoNet is the sentinel for "no such net".
const NoNet NetID = -1

// Net is an electrically-connected driver/sink pin pair. The report format
// already splits multi-fanout nets into one Net per driver-sink pair at the
// path level, so a Net here always has exactly two endpoints.
type Net struct {
	Name   string
	Fanout int
	Cap    float64
	Driver PinID
	Sink   PinID
}

// Path is an ordered pin sequence from a startpoint register to an endpoint
// register. Consecutive pins alternate cell-output -> cell-input via a Net
// ("net arc"), then cell-input -> cell-output within a cell ("cell arc").
type Path struct {
	Startpoint string
	Endpoint   string
	Group      string
	Clock      string
	Slack      float64
	Pins       []PinID
}

// ArcKey identifies an Arc by its endpoint names and type, independent of
// which Db it came from — used as the lookup key for CellArcsFlat/NetArcsFlat.
type ArcKey struct {
	From, To string
	Type     ArcType
}

// Arc is a directed timing edge between two pins.
type Arc struct {
	From, To PinID
	Type     ArcType
	Delay    [2]float64 // [rise, fall]
	Fanout   *int
}

// Db is the aggregate parsed from one report. It is mutable only during
// parsing; once Finalize has run it is treated as immutable and safe for
// concurrent readers.
type Db struct {
	Type   string
	Tool   string
	Design string

	Paths []*Path

	pinArena []Pin
	pinIndex map[string]PinID

	AllArcs      []*Arc
	CellArcsFlat map[ArcKey]*Arc
	NetArcsFlat  map[ArcKey]*Arc

	netArena []Net
}

// NewDb creates an empty Db for the given tool/dialect name and design.
func NewDb(tool, design string) *Db {
	return &Db{
		Tool:         tool,
		Design:       design,
		pinIndex:     make(map[string]PinID),
		CellArcsFlat: make(map[ArcKey]*Arc),
		NetArcsFlat:  make(map[ArcKey]*Arc),
	}
}

// Intern returns the PinID for name, creating a new zero-value Pin if this
// is the first occurrence. First occurrence wins on every field other than
// the name itself — callers that have richer data should fetch the Pin via
// Pin(id) and fill it in directly.
func (db *Db) Intern(name string) PinID {
	if id, ok := db.pinIndex[name]; ok {
		return id
	}

	id := PinID(len(db.pinArena))
	db.pinArena = append(db.pinArena, Pin{Name: name, NetID: NoNet})
	db.pinIndex[name] = id

	return id
}

// Lookup returns the PinID for name, or (NoPin, false) if name was never interned.
func (db *Db) Lookup(name string) (PinID, bool) {
	id, ok := db.pinIndex[name]

	return id, ok
}

// Pin returns a mutable pointer to the pin with the given id.
func (db *Db) Pin(id PinID) *Pin {
	if id < 0 || int(id) >= len(db.pinArena) {
		return nil
	}

	return &db.pinArena[id]
}

// PinByName returns the pin with the given name, or nil if it is not known to this Db.
func (db *Db) PinByName(name string) *Pin {
	id, ok := db.pinIndex[name]
	if !ok {
		return nil
	}

	return db.Pin(id)
}

// PinCount reports how many distinct pins have been interned.
func (db *Db) PinCount() int { return len(db.pinArena) }

// PinsSnapshot returns a copy of the pin arena, in interning order. Used by
// internal/cache to serialize a Db checkpoint without exposing pinArena
// itself.
func (db *Db) PinsSnapshot() []Pin {
	out := make([]Pin, len(db.pinArena))
	copy(out, db.pinArena)

	return out
}

// NetsSnapshot returns a copy of the net arena, in allocation order.
func (db *Db) NetsSnapshot() []Net {
	out := make([]Net, len(db.netArena))
	copy(out, db.netArena)

	return out
}

// NewNet allocates a net with the given driver/sink pins and returns its id.
func (db *Db) NewNet(name string, fanout int, cap float64, driver, sink PinID) NetID {
	id := NetID(len(db.netArena))
	db.netArena = append(db.netArena, Net{Name: name, Fanout: fanout, Cap: cap, Driver: driver, Sink: sink})

	if p := db.Pin(driver); p != nil {
		p.NetID = id
	}

	if p := db.Pin(sink); p != nil {
		p.NetID = id
	}

	return id
}

// Net returns the net with the given id.
func (db *Db) Net(id NetID) *Net {
	if id < 0 || int(id) >= len(db.netArena) {
		return nil
	}

	return &db.netArena[id]
}

// AddPath appends a path and derives its arcs, deduplicating identical
// (from, to, type) tuples against AllArcs/CellArcsFlat/NetArcsFlat.
func (db *Db) AddPath(p *Path) {
	db.Paths = append(db.Paths, p)

	for i := 0; i+1 < len(p.Pins); i++ {
		from, to := p.Pins[i], p.Pins[i+1]

		fromPin := db.Pin(from)
		if fromPin == nil {
			continue
		}

		arcType := NetArc
		if fromPin.IsInput {
			arcType = CellArc
		}

		db.upsertArc(from, to, arcType)
	}
}

func (db *Db) upsertArc(from, to PinID, arcType ArcType) *Arc {
	fromPin, toPin := db.Pin(from), db.Pin(to)
	if fromPin == nil || toPin == nil {
		return nil
	}

	key := ArcKey{From: fromPin.Name, To: toPin.Name, Type: arcType}

	table := db.NetArcsFlat
	if arcType == CellArc {
		table = db.CellArcsFlat
	}

	if existing, ok := table[key]; ok {
		// A repeated (from, to, type) tuple writes the to-pin's current
		// IncrDelay into the slot selected by its Rise flag, replacing any
		// earlier value in that slot; the other slot is left as it was.
		if toPin.Rise {
			existing.Delay[0] = toPin.IncrDelay
		} else {
			existing.Delay[1] = toPin.IncrDelay
		}

		return existing
	}

	rise, fall := 0.0, 0.0
	if toPin.Rise {
		rise = toPin.IncrDelay
	} else {
		fall = toPin.IncrDelay
	}

	arc := &Arc{From: from, To: to, Type: arcType, Delay: [2]float64{rise, fall}}

	if arcType == NetArc {
		if sinkPin := db.Pin(to); sinkPin != nil && sinkPin.NetID != NoNet {
			if n := db.Net(sinkPin.NetID); n != nil {
				fanout := n.Fanout
				arc.Fanout = &fanout
			}
		}
	}

	table[key] = arc
	db.AllArcs = append(db.AllArcs, arc)

	return arc
}

// FromCheckpoint rebuilds a Db from a previously snapshotted pin/net arena
// and path list, used by internal/cache to restore a parsed report without
// re-running the state machine. Arcs are re-derived from the restored paths
// rather than serialized directly, since AllArcs/CellArcsFlat/NetArcsFlat
// are cheap to recompute and keeping them out of the checkpoint avoids
// duplicating the arc-identity invariant in two places.
func FromCheckpoint(tool, design string, pins []Pin, nets []Net, paths []*Path) *Db {
	db := NewDb(tool, design)

	db.pinArena = make([]Pin, len(pins))
	copy(db.pinArena, pins)

	for i, p := range db.pinArena {
		db.pinIndex[p.Name] = PinID(i)
	}

	db.netArena = make([]Net, len(nets))
	copy(db.netArena, nets)

	for _, p := range paths {
		db.AddPath(p)
	}

	return db
}

// Finalize sorts Paths by slack ascending. Idempotent; safe to call
// repeatedly (e.g. once by the parser, once defensively by a caller).
func (db *Db) Finalize() {
	sortPathsBySlack(db.Paths)
}

func sortPathsBySlack(paths []*Path) {
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Slack < paths[j].Slack })
}

// Validate checks the invariants documented in spec section 3 / 8:
// every pin name unique (guaranteed by construction), every arc's endpoints
// present in the pin table, and paths sorted by slack ascending.
func (db *Db) Validate() error {
	for i := 1; i < len(db.Paths); i++ {
		if db.Paths[i].Slack < db.Paths[i-1].Slack {
			return fmt.Errorf("model: paths not sorted by slack ascending at index %d", i)
		}
	}

	for _, arc := range db.AllArcs {
		if int(arc.From) < 0 || int(arc.From) >= len(db.pinArena) {
			return fmt.Errorf("model: arc references unknown from-pin id %d", arc.From)
		}

		if int(arc.To) < 0 || int(arc.To) >= len(db.pinArena) {
			return fmt.Errorf("model: arc references unknown to-pin id %d", arc.To)
		}
	}

	return nil
}
