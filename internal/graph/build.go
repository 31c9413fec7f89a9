package graph

import (
	"sync"

	"github.com/kinling9/stacompare/internal/model"
)

// Pair bundles the rise and fall polarity engines built over the same arc
// set, grounded on the "two parallel rise/fall graphs" design note: rather
// than duplicate the whole engine, the same Build path runs twice with a
// different edge-weight closure.
type Pair struct {
	Interner *Interner
	Rise     *Engine
	Fall     *Engine
}

// FromDb builds the rise/fall engine pair over a value report's Db, interning
// pin names through the same shared Interner so a rise-id and a fall-id for
// the same pin name always agree.
func FromDb(db *model.Db) *Pair {
	interner := NewInterner()

	for _, arc := range db.AllArcs {
		fromPin, toPin := db.Pin(arc.From), db.Pin(arc.To)
		if fromPin == nil || toPin == nil {
			continue
		}

		interner.Intern(fromPin.Name)
		interner.Intern(toPin.Name)
	}

	weight := func(polarity int) WeightFunc[*model.Arc] {
		return func(arc *model.Arc) (from, to NodeID, w float64) {
			fromPin, toPin := db.Pin(arc.From), db.Pin(arc.To)

			fromID, _ := interner.Lookup(fromPin.Name)
			toID, _ := interner.Lookup(toPin.Name)

			return fromID, toID, arc.Delay[polarity]
		}
	}

	var rise, fall *Engine

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		rise = Build(interner, db.AllArcs, weight(0))
	}()

	go func() {
		defer wg.Done()

		fall = Build(interner, db.AllArcs, weight(1))
	}()

	wg.Wait()

	return &Pair{Interner: interner, Rise: rise, Fall: fall}
}

// Engine returns the engine for the given rise flag (true = rise, false = fall).
func (p *Pair) Engine(rise bool) *Engine {
	if rise {
		return p.Rise
	}

	return p.Fall
}
