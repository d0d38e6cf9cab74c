package table

import (
	"errors"
	"sync"

	enc "github.com/nfdgo/ndnd/std/encoding"
)

// ErrNameTooLong is returned when a FIB insert is attempted for a name
// deeper than MaxNameLength components.
var ErrNameTooLong = errors.New("name exceeds maximum FIB depth")

// MaxNameLength bounds the number of components the FIB will index.
const MaxNameLength = 32

// FibNextHopEntry is a single face a FIB entry can forward through, and
// the routing cost associated with reaching it that way.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

// baseFibStrategyEntry is a FIB entry: a name prefix, the set of next-hops
// registered under it, and the forwarding strategy chosen for it.
type baseFibStrategyEntry struct {
	component enc.Component
	name      enc.Name
	nexthops  []*FibNextHopEntry
	strategy  enc.Name
}

// Name returns the prefix this FIB entry is registered under.
func (e *baseFibStrategyEntry) Name() enc.Name { return e.name }

// GetStrategy returns the forwarding strategy name chosen for this prefix.
func (e *baseFibStrategyEntry) GetStrategy() enc.Name { return e.strategy }

// GetNextHops returns this entry's next-hops.
func (e *baseFibStrategyEntry) GetNextHops() []*FibNextHopEntry { return e.nexthops }

// fibStrategyTable is the Forwarding Information Base together with the
// per-prefix strategy choice table; NFD keeps these unified because both
// are keyed by name prefix and consulted together on every Interest.
type fibStrategyTable struct {
	mu      sync.RWMutex
	entries map[string]*baseFibStrategyEntry
}

// FibStrategyTable is the process-wide FIB/strategy-choice table.
var FibStrategyTable = newFibStrategyTable()

func newFibStrategyTable() *fibStrategyTable {
	return &fibStrategyTable{entries: make(map[string]*baseFibStrategyEntry)}
}

func (t *fibStrategyTable) findOrCreate(name enc.Name) (*baseFibStrategyEntry, bool, error) {
	if len(name) > MaxNameLength {
		return nil, false, ErrNameTooLong
	}
	key := name.String()
	if e, ok := t.entries[key]; ok {
		return e, false, nil
	}
	var comp enc.Component
	if len(name) > 0 {
		comp = name[len(name)-1]
	}
	e := &baseFibStrategyEntry{component: comp, name: name}
	t.entries[key] = e
	return e, true, nil
}

// InsertNextHopEnc adds or updates the cost of the next-hop for faceID
// under name, creating the FIB entry if it does not already exist.
func (t *fibStrategyTable) InsertNextHopEnc(name enc.Name, faceID uint64, cost uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, _, err := t.findOrCreate(name)
	if err != nil {
		return err
	}
	for _, nh := range e.nexthops {
		if nh.Nexthop == faceID {
			nh.Cost = cost
			return nil
		}
	}
	e.nexthops = append(e.nexthops, &FibNextHopEntry{Nexthop: faceID, Cost: cost})
	return nil
}

// RemoveNextHopEnc removes the next-hop for faceID under name, erasing the
// entry entirely if it is left with no next-hops and no strategy override.
func (t *fibStrategyTable) RemoveNextHopEnc(name enc.Name, faceID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := name.String()
	e, ok := t.entries[key]
	if !ok {
		return
	}
	for i, nh := range e.nexthops {
		if nh.Nexthop == faceID {
			e.nexthops = append(e.nexthops[:i], e.nexthops[i+1:]...)
			break
		}
	}
	if len(e.nexthops) == 0 && e.strategy == nil {
		delete(t.entries, key)
	}
}

// RemoveFace removes every next-hop referencing faceID across all FIB
// entries, erasing any entry left empty.
func (t *fibStrategyTable) RemoveFace(faceID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, e := range t.entries {
		for i, nh := range e.nexthops {
			if nh.Nexthop == faceID {
				e.nexthops = append(e.nexthops[:i], e.nexthops[i+1:]...)
				break
			}
		}
		if len(e.nexthops) == 0 && e.strategy == nil {
			delete(t.entries, key)
		}
	}
}

// FindNextHopsEnc performs a longest-prefix match over the FIB, returning
// the next-hops of the deepest ancestor of name that has any.
func (t *fibStrategyTable) FindNextHopsEnc(name enc.Name) []*FibNextHopEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(name); i >= 0; i-- {
		if e, ok := t.entries[name.Prefix(i).String()]; ok && len(e.nexthops) > 0 {
			return e.nexthops
		}
	}
	return nil
}

// SetStrategyEnc sets the forwarding strategy for name, creating the FIB
// entry if it does not already exist.
func (t *fibStrategyTable) SetStrategyEnc(name enc.Name, strategy enc.Name) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, _, err := t.findOrCreate(name)
	if err != nil {
		return err
	}
	e.strategy = strategy
	return nil
}

// UnSetStrategyEnc clears a strategy override, erasing the FIB entry if it
// has no next-hops either.
func (t *fibStrategyTable) UnSetStrategyEnc(name enc.Name) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := name.String()
	e, ok := t.entries[key]
	if !ok {
		return
	}
	e.strategy = nil
	if len(e.nexthops) == 0 {
		delete(t.entries, key)
	}
}

// FindStrategyEnc performs a longest-prefix match for the strategy
// governing name, returning the default strategy's name when none of
// name's ancestors has an override.
func (t *fibStrategyTable) FindStrategyEnc(name enc.Name, defaultStrategy enc.Name) enc.Name {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(name); i >= 0; i-- {
		if e, ok := t.entries[name.Prefix(i).String()]; ok && e.strategy != nil {
			return e.strategy
		}
	}
	return defaultStrategy
}

// GetAllFIBEntries returns every FIB entry that has at least one next-hop.
func (t *fibStrategyTable) GetAllFIBEntries() []*baseFibStrategyEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ret := make([]*baseFibStrategyEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if len(e.nexthops) > 0 {
			ret = append(ret, e)
		}
	}
	return ret
}

// GetAllForwardingStrategies returns every entry that has a strategy
// override set.
func (t *fibStrategyTable) GetAllForwardingStrategies() []*baseFibStrategyEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ret := make([]*baseFibStrategyEntry, 0, len(t.entries))
	for _, e := range t.entries {
		if e.strategy != nil {
			ret = append(ret, e)
		}
	}
	return ret
}

// GetNumFIBEntries returns the number of FIB entries with at least one
// next-hop.
func (t *fibStrategyTable) GetNumFIBEntries() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if len(e.nexthops) > 0 {
			n++
		}
	}
	return n
}
