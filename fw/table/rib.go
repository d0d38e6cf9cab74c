package table

import (
	"sync"
	"time"

	enc "github.com/nfdgo/ndnd/std/encoding"
)

// Route is a single RIB registration: the face it was registered for, who
// registered it (Origin), its routing cost, NFD-style flags, and an
// optional expiration after which it is pruned.
type Route struct {
	FaceID           uint64
	Origin           uint64
	Cost             uint64
	Flags            uint64
	ExpirationPeriod *time.Duration
	expiresAt        time.Time
}

// ribEntry is every route registered for a single name prefix.
type ribEntry struct {
	Name   enc.Name
	routes []*Route
}

// GetRoutes returns every route registered under this prefix.
func (e *ribEntry) GetRoutes() []*Route { return e.routes }

// rib is the Routing Information Base: the set of prefixes applications
// and routing protocols have registered interest in, from which the FIB
// is derived.
type rib struct {
	mu      sync.Mutex
	entries map[string]*ribEntry
}

// Rib is the process-wide Routing Information Base.
var Rib = &rib{entries: make(map[string]*ribEntry)}

// AddEncRoute registers route under name, replacing any existing route
// from the same (FaceID, Origin) pair, and propagates the change to the
// FIB and any registered readvertisers.
func (r *rib) AddEncRoute(name enc.Name, route *Route) {
	r.mu.Lock()
	if route.ExpirationPeriod != nil {
		route.expiresAt = time.Now().Add(*route.ExpirationPeriod)
	}

	key := name.String()
	e, ok := r.entries[key]
	if !ok {
		e = &ribEntry{Name: name}
		r.entries[key] = e
	}

	replaced := false
	for i, existing := range e.routes {
		if existing.FaceID == route.FaceID && existing.Origin == route.Origin {
			e.routes[i] = route
			replaced = true
			break
		}
	}
	if !replaced {
		e.routes = append(e.routes, route)
	}
	r.mu.Unlock()

	_ = FibStrategyTable.InsertNextHopEnc(name, route.FaceID, route.Cost)
	readvertiseAnnounce(name, route)
}

// RemoveRouteEnc removes the route registered under name for
// (faceID, origin), removing the corresponding FIB next-hop and pruning
// the RIB entry if it is left empty.
func (r *rib) RemoveRouteEnc(name enc.Name, faceID uint64, origin uint64) {
	r.mu.Lock()
	key := name.String()
	e, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return
	}

	var removed *Route
	for i, existing := range e.routes {
		if existing.FaceID == faceID && existing.Origin == origin {
			removed = existing
			e.routes = append(e.routes[:i], e.routes[i+1:]...)
			break
		}
	}
	if len(e.routes) == 0 {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	FibStrategyTable.RemoveNextHopEnc(name, faceID)
	if removed != nil {
		readvertiseWithdraw(name, removed)
	}
}

// RemoveFace removes every route registered for faceID across all
// prefixes, as part of the face-fail pipeline.
func (r *rib) RemoveFace(faceID uint64) {
	r.mu.Lock()
	var toWithdraw []struct {
		name  enc.Name
		route *Route
	}
	for key, e := range r.entries {
		kept := e.routes[:0]
		for _, route := range e.routes {
			if route.FaceID == faceID {
				toWithdraw = append(toWithdraw, struct {
					name  enc.Name
					route *Route
				}{e.Name, route})
				continue
			}
			kept = append(kept, route)
		}
		e.routes = kept
		if len(e.routes) == 0 {
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	for _, w := range toWithdraw {
		readvertiseWithdraw(w.name, w.route)
	}
}

// GetAllEntries returns every RIB entry currently registered.
func (r *rib) GetAllEntries() []*ribEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret := make([]*ribEntry, 0, len(r.entries))
	for _, e := range r.entries {
		ret = append(ret, e)
	}
	return ret
}

// PruneExpired removes routes whose ExpirationPeriod has elapsed; invoked
// periodically by a scheduled timer.
func (r *rib) PruneExpired() {
	now := time.Now()

	r.mu.Lock()
	var expired []struct {
		name  enc.Name
		route *Route
	}
	for key, e := range r.entries {
		kept := e.routes[:0]
		for _, route := range e.routes {
			if route.ExpirationPeriod != nil && now.After(route.expiresAt) {
				expired = append(expired, struct {
					name  enc.Name
					route *Route
				}{e.Name, route})
				continue
			}
			kept = append(kept, route)
		}
		e.routes = kept
		if len(e.routes) == 0 {
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	for _, w := range expired {
		FibStrategyTable.RemoveNextHopEnc(w.name, w.route.FaceID)
		readvertiseWithdraw(w.name, w.route)
	}
}
