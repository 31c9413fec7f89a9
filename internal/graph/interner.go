package graph

import "sync"

// NodeID is a dense integer id for a pin name within one Engine's interner,
// grounded on sparse_graph_shortest_path's string_to_int / int_to_string
// bidirectional map.
type NodeID int

// NoNode is the sentinel for "name not known to this engine".
const NoNode NodeID = -1

// Interner maps pin names to dense NodeIDs. Safe for concurrent use; FromDb
// shares one Interner between the rise and fall engines, so a pin name has
// the same NodeID in both.
type Interner struct {
	mu      sync.RWMutex
	strToID map[string]NodeID
	idToStr []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{strToID: make(map[string]NodeID)}
}

// Intern returns name's NodeID, allocating one if this is the first sighting.
func (in *Interner) Intern(name string) NodeID {
	in.mu.RLock()
	if id, ok := in.strToID[name]; ok {
		in.mu.RUnlock()

		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.strToID[name]; ok {
		return id
	}

	id := NodeID(len(in.idToStr))
	in.idToStr = append(in.idToStr, name)
	in.strToID[name] = id

	return id
}

// Lookup returns name's NodeID without allocating; ok is false if name was
// never interned.
func (in *Interner) Lookup(name string) (NodeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	id, ok := in.strToID[name]

	return id, ok
}

// Name resolves id back to its string; returns "" for an unknown id.
func (in *Interner) Name(id NodeID) string {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if id < 0 || int(id) >= len(in.idToStr) {
		return ""
	}

	return in.idToStr[id]
}

// Len reports how many distinct names have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return len(in.idToStr)
}
