package table

import (
	"container/list"
	"sync"
	"time"

	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// baseCsEntry is a single cached Data packet, stored by its full name.
type baseCsEntry struct {
	index        uint64
	staleTime    time.Time
	wire         enc.Wire
	isUnsolicited bool
	elem         *list.Element
}

// Index returns the entry's insertion-order index, used to break ties when
// two entries otherwise compare equal.
func (e *baseCsEntry) Index() uint64 { return e.index }

// StaleTime returns the time at which this entry's freshness period
// elapses.
func (e *baseCsEntry) StaleTime() time.Time { return e.staleTime }

// Copy decodes and returns the entry's Data packet together with its
// original wire encoding.
func (e *baseCsEntry) Copy() (*defn.FwData, enc.Wire, error) {
	pkt, err := defn.ReadPacket(e.wire)
	if err != nil {
		return nil, nil, err
	}
	return pkt.L3.Data, e.wire, nil
}

// CsPolicy is a pluggable Content Store eviction policy.
type CsPolicy interface {
	// Insert is called after a new entry is added; returns entries to evict.
	Insert(e *baseCsEntry) []*baseCsEntry
	// Remove is called when an entry is erased directly (not via eviction).
	Remove(e *baseCsEntry)
	// Refresh is called on a cache hit, to update recency/priority.
	Refresh(e *baseCsEntry)
	// MarkStale moves an entry from the FIFO tier into the STALE tier.
	MarkStale(e *baseCsEntry)
}

// lruPolicy is the single-queue, recency-of-use eviction policy.
type lruPolicy struct {
	order *list.List
	limit int
}

func newLruPolicy(limit int) *lruPolicy {
	return &lruPolicy{order: list.New(), limit: limit}
}

func (p *lruPolicy) Insert(e *baseCsEntry) []*baseCsEntry {
	e.elem = p.order.PushBack(e)
	return p.evictOverflow()
}

func (p *lruPolicy) Remove(e *baseCsEntry) {
	if e.elem != nil {
		p.order.Remove(e.elem)
		e.elem = nil
	}
}

func (p *lruPolicy) Refresh(e *baseCsEntry) {
	if e.elem != nil {
		p.order.MoveToBack(e.elem)
	}
}

func (p *lruPolicy) MarkStale(e *baseCsEntry) {}

func (p *lruPolicy) evictOverflow() []*baseCsEntry {
	var evicted []*baseCsEntry
	for p.order.Len() > p.limit {
		front := p.order.Front()
		if front == nil {
			break
		}
		e := front.Value.(*baseCsEntry)
		p.order.Remove(front)
		e.elem = nil
		evicted = append(evicted, e)
	}
	return evicted
}

// priorityFifoPolicy drains three queues in order: unsolicited, stale, and
// plain FIFO insertion order.
type priorityFifoPolicy struct {
	unsolicited *list.List
	stale       *list.List
	fifo        *list.List
	limit       int
}

func newPriorityFifoPolicy(limit int) *priorityFifoPolicy {
	return &priorityFifoPolicy{
		unsolicited: list.New(),
		stale:       list.New(),
		fifo:        list.New(),
		limit:       limit,
	}
}

func (p *priorityFifoPolicy) total() int {
	return p.unsolicited.Len() + p.stale.Len() + p.fifo.Len()
}

func (p *priorityFifoPolicy) Insert(e *baseCsEntry) []*baseCsEntry {
	if e.isUnsolicited {
		e.elem = p.unsolicited.PushBack(e)
	} else {
		e.elem = p.fifo.PushBack(e)
	}
	return p.evictOverflow()
}

func (p *priorityFifoPolicy) Remove(e *baseCsEntry) {
	if e.elem == nil {
		return
	}
	for _, q := range []*list.List{p.unsolicited, p.stale, p.fifo} {
		q.Remove(e.elem)
	}
	e.elem = nil
}

func (p *priorityFifoPolicy) Refresh(e *baseCsEntry) {}

func (p *priorityFifoPolicy) MarkStale(e *baseCsEntry) {
	if e.elem == nil {
		return
	}
	p.fifo.Remove(e.elem)
	e.elem = p.stale.PushBack(e)
}

func (p *priorityFifoPolicy) evictOverflow() []*baseCsEntry {
	var evicted []*baseCsEntry
	for p.total() > p.limit {
		q := p.unsolicited
		if q.Len() == 0 {
			q = p.stale
		}
		if q.Len() == 0 {
			q = p.fifo
		}
		front := q.Front()
		if front == nil {
			break
		}
		e := front.Value.(*baseCsEntry)
		q.Remove(front)
		e.elem = nil
		evicted = append(evicted, e)
	}
	return evicted
}

// ContentStore caches Data packets by full name, applying an admit/serve
// policy and a pluggable eviction policy.
type ContentStore struct {
	mu      sync.Mutex
	entries map[string]*baseCsEntry
	policy  CsPolicy
	nextIdx uint64
	persist *csPersistStore
}

// NewContentStore constructs a Content Store with the given capacity,
// defaulting to the priority-FIFO eviction policy.
func NewContentStore(capacity int) *ContentStore {
	return &ContentStore{
		entries: make(map[string]*baseCsEntry),
		policy:  newPriorityFifoPolicy(capacity),
	}
}

// Insert stores data under its full name, honoring the current
// admit-or-reject policy and triggering eviction if the store is full.
func (cs *ContentStore) Insert(data *defn.FwData, wire enc.Wire, isUnsolicited bool) {
	if !csAdmit {
		return
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	key := data.NameV.String()
	staleTime := time.Now()
	if fresh, ok := data.FreshnessV.Get(); ok {
		staleTime = staleTime.Add(fresh)
	}

	if existing, ok := cs.entries[key]; ok {
		cs.policy.Remove(existing)
	}

	cs.nextIdx++
	e := &baseCsEntry{
		index:         cs.nextIdx,
		staleTime:     staleTime,
		wire:          wire,
		isUnsolicited: isUnsolicited,
	}
	cs.entries[key] = e

	if cs.persist != nil {
		if err := cs.persist.put(key, e); err != nil {
			core.Log.Warn(cs, "Failed to persist Content Store entry", "name", key, "err", err)
		}
	}

	for _, evicted := range cs.policy.Insert(e) {
		for k, v := range cs.entries {
			if v == evicted {
				delete(cs.entries, k)
				if cs.persist != nil {
					cs.persist.delete(k)
				}
				break
			}
		}
	}

	if !isUnsolicited {
		if d := time.Until(staleTime); d > 0 {
			idx := e.index
			time.AfterFunc(d, func() { cs.markStaleIfCurrent(key, idx) })
		}
	}
}

// markStaleIfCurrent transitions the entry stored under key from the FIFO
// tier into the STALE tier, unless it has since been replaced or erased: idx
// guards against a timer firing after the key was reused by a later Insert.
func (cs *ContentStore) markStaleIfCurrent(key string, idx uint64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, ok := cs.entries[key]
	if !ok || e.index != idx {
		return
	}
	cs.policy.MarkStale(e)
}

// Find returns the best match for interest, honoring MustBeFresh, or nil
// on a miss. Serving may be disabled entirely via CfgSetCsServe(false).
func (cs *ContentStore) Find(interest *defn.FwInterest) *baseCsEntry {
	if !csServe {
		return nil
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	var best *baseCsEntry
	for key, e := range cs.entries {
		name, err := enc.NameFromStr(key)
		if err != nil {
			continue
		}
		if interest.CanBePrefixV {
			if !interest.NameV.IsPrefix(name) {
				continue
			}
		} else if !interest.NameV.Equal(name) {
			continue
		}
		if interest.MustBeFreshV && time.Now().After(e.staleTime) {
			continue
		}
		if best == nil || e.index < best.index {
			best = e
		}
	}
	if best != nil {
		cs.policy.Refresh(best)
	}
	return best
}

// Erase removes up to limit entries whose name has namePrefix as a prefix,
// returning the number erased.
func (cs *ContentStore) Erase(namePrefix enc.Name, limit int) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	n := 0
	for key, e := range cs.entries {
		if limit > 0 && n >= limit {
			break
		}
		name, err := enc.NameFromStr(key)
		if err != nil {
			continue
		}
		if !namePrefix.IsPrefix(name) {
			continue
		}
		cs.policy.Remove(e)
		delete(cs.entries, key)
		if cs.persist != nil {
			cs.persist.delete(key)
		}
		n++
	}
	return n
}

// Len returns the number of cached entries.
func (cs *ContentStore) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}

// Close releases the store's persistent backing database, if any.
func (cs *ContentStore) Close() error {
	if cs.persist == nil {
		return nil
	}
	return cs.persist.Close()
}

// SetPolicy replaces the eviction policy; the store must be empty.
func (cs *ContentStore) SetPolicy(policy CsPolicy) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.entries) > 0 {
		return errContentStoreNotEmpty
	}
	cs.policy = policy
	return nil
}

var errContentStoreNotEmpty = &csError{"cannot change policy while the content store holds entries"}

type csError struct{ msg string }

func (e *csError) Error() string { return e.msg }

// Package-level CS configuration, consulted by every forwarding thread's
// content store and exposed to the management plane via the Cfg* getters
// and setters below.
var (
	csCapacity = 65536
	csAdmit    = true
	csServe    = true
)

// CfgSetCsCapacity sets the process-wide default Content Store capacity.
func CfgSetCsCapacity(capacity int) { csCapacity = capacity }

// CfgCsCapacity returns the process-wide default Content Store capacity.
func CfgCsCapacity() int { return csCapacity }

// CfgSetCsAdmit enables or disables caching new Data into the Content
// Store.
func CfgSetCsAdmit(admit bool) { csAdmit = admit }

// CfgCsAdmit reports whether the Content Store currently admits new Data.
func CfgCsAdmit() bool { return csAdmit }

// CfgSetCsServe enables or disables serving Interests from the Content
// Store.
func CfgSetCsServe(serve bool) { csServe = serve }

// CfgCsServe reports whether the Content Store currently serves Interests.
func CfgCsServe() bool { return csServe }
