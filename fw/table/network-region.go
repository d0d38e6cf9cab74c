package table

import (
	"sync"

	enc "github.com/nfdgo/ndnd/std/encoding"
)

// networkRegionTable records the name prefixes that identify the network
// region(s) this forwarder belongs to. It is consulted by NetworkPredicate
// to decide whether an Interest's forwarding hint has already steered the
// Interest into its destination region, in which case the hint has done its
// job and should no longer govern the FIB lookup.
type networkRegionTable struct {
	mu    sync.RWMutex
	names []enc.Name
}

// NetworkRegion is the process-wide NetworkRegionTable, populated once at
// startup from the tables.network_region configuration key.
var NetworkRegion = &networkRegionTable{}

// Set replaces the table's contents with names.
func (t *networkRegionTable) Set(names []enc.Name) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = names
}

// Names returns a snapshot of the table's contents.
func (t *networkRegionTable) Names() []enc.Name {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]enc.Name, len(t.names))
	copy(out, t.names)
	return out
}

// IsInRegion reports whether name falls within one of the configured
// network regions: one of the table's entries is a prefix of (or equal to)
// name.
func (t *networkRegionTable) IsInRegion(name enc.Name) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, region := range t.names {
		if region.IsPrefix(name) {
			return true
		}
	}
	return false
}

// NetworkPredicate reports whether hint, an Interest's forwarding hint, has
// already reached the network region it names: this forwarder is inside
// one of the regions recorded in NetworkRegion. When true, the pipeline
// should stop routing on the forwarding hint and fall back to the
// Interest's own name, since the hint has already delivered the Interest to
// the region it was steering toward.
func NetworkPredicate(hint enc.Name) bool {
	if len(hint) == 0 {
		return false
	}
	return NetworkRegion.IsInRegion(hint)
}
