/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package fw implements the single-threaded forwarding core: the
// Interest/Data/Nack pipelines and the pluggable Strategy that decides
// how each Interest is forwarded.
package fw

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/face"
	"github.com/nfdgo/ndnd/fw/table"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// newContentStore constructs the Content Store for threadID, backing it
// with a persistent per-thread database when one is configured. Each
// forwarding thread owns its database exclusively, so the directory is
// namespaced by thread ID to avoid two threads opening the same badger
// lock file.
func newContentStore(threadID int) *table.ContentStore {
	dir := core.C.Tables.ContentStore.PersistDir
	if dir == "" {
		return table.NewContentStore(table.CfgCsCapacity())
	}

	cs, err := table.NewPersistentContentStore(
		table.CfgCsCapacity(), filepath.Join(dir, fmt.Sprintf("thread-%d", threadID)))
	if err != nil {
		core.Log.Warn("fw", "Failed to open persistent Content Store, falling back to in-memory",
			"thread", threadID, "err", err)
		return table.NewContentStore(table.CfgCsCapacity())
	}
	return cs
}

// Counters is a point-in-time snapshot of a Thread's traffic counters,
// reported by the management plane's forwarder-status and CS-info
// datasets.
type Counters struct {
	NPitEntries           uint64
	NCsEntries            uint64
	NCsHits               uint64
	NCsMisses             uint64
	NInInterests          uint64
	NInData               uint64
	NInNacks              uint64
	NOutInterests         uint64
	NOutData              uint64
	NOutNacks             uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
}

// counters holds the live, concurrently-updated traffic counters backing
// a Thread's Counters() snapshot.
type counters struct {
	nInInterests          atomic.Uint64
	nInData               atomic.Uint64
	nInNacks              atomic.Uint64
	nOutInterests         atomic.Uint64
	nOutData              atomic.Uint64
	nOutNacks             atomic.Uint64
	nSatisfiedInterests   atomic.Uint64
	nUnsatisfiedInterests atomic.Uint64
}

// incomingPacket is a unit of work on a Thread's queue: a decoded packet
// together with the face it arrived on.
type incomingPacket struct {
	pkt    *defn.Pkt
	inFace uint64
}

// Thread is one forwarding thread: a single-threaded, cooperative
// scheduling loop consuming decoded packets off its own queue and
// running them through the Incoming Interest, Incoming Data, Incoming
// Nack, and Face-fail pipelines against its own PIT and Content Store.
//
// The design deliberately has no shared Name Tree: the FIB and strategy
// table are process-wide (table.FibStrategyTable), but the PIT, Content
// Store, and Dead-Nonce List are each owned exclusively by one Thread,
// so no pipeline needs to lock them against another forwarding thread.
type Thread struct {
	threadID int
	queue    chan incomingPacket

	pit           *table.Pit
	cs            *table.ContentStore
	deadNonceList *table.DeadNonceList

	strategies map[string]Strategy

	counters counters

	stop chan struct{}
}

// threads is the process-wide set of forwarding threads, indexed by ID,
// populated by dispatch.AddFWThread as each is started.
var threads []*Thread

// numThreads is the configured thread count, set once at startup.
var numThreads = 1

// CfgNumThreads returns the number of forwarding threads configured for
// this process.
func CfgNumThreads() int { return numThreads }

// CfgSetNumThreads sets the number of forwarding threads; called once,
// before any thread is started.
func CfgSetNumThreads(n int) { numThreads = n }

// GetThread returns the forwarding thread with the given ID, or nil if
// no such thread has been started.
func GetThread(threadID int) *Thread {
	if threadID < 0 || threadID >= len(threads) {
		return nil
	}
	return threads[threadID]
}

// StopAll signals every started forwarding thread to exit and releases
// its resources.
func StopAll() {
	for _, t := range threads {
		if t != nil {
			t.Stop()
		}
	}
}

// HashNameToFwThread maps an Interest/Data name to one of the configured
// forwarding threads, so that all traffic for a given name is handled by
// the same thread's PIT and Content Store.
func HashNameToFwThread(name enc.Name) int {
	if numThreads <= 1 {
		return 0
	}
	return int(name.Hash() % uint64(numThreads))
}

// NewThread constructs forwarding thread threadID with its own PIT,
// Content Store, and Dead-Nonce List, and instantiates one copy of every
// registered strategy for it.
func NewThread(threadID int) *Thread {
	cs := newContentStore(threadID)

	t := &Thread{
		threadID:      threadID,
		queue:         make(chan incomingPacket, core.C.Fw.Queue),
		pit:           table.NewPit(),
		cs:            cs,
		deadNonceList: table.NewDeadNonceList(),
		strategies:    make(map[string]Strategy),
		stop:          make(chan struct{}),
	}

	for _, ctor := range strategyInit {
		s := ctor()
		s.Instantiate(t)
		if base, ok := s.(interface{ InstanceName() enc.Name }); ok {
			t.strategies[base.InstanceName().String()] = s
		}
	}

	for len(threads) <= threadID {
		threads = append(threads, nil)
	}
	threads[threadID] = t

	return t
}

func (t *Thread) String() string {
	return fmt.Sprintf("fw-thread(%d)", t.threadID)
}

// ID returns this thread's numeric identifier.
func (t *Thread) ID() int { return t.threadID }

// Counters returns a snapshot of this thread's traffic counters.
func (t *Thread) Counters() Counters {
	return Counters{
		NPitEntries:           uint64(t.pit.Size()),
		NCsEntries:            uint64(t.cs.Len()),
		NInInterests:          t.counters.nInInterests.Load(),
		NInData:               t.counters.nInData.Load(),
		NInNacks:              t.counters.nInNacks.Load(),
		NOutInterests:         t.counters.nOutInterests.Load(),
		NOutData:              t.counters.nOutData.Load(),
		NOutNacks:             t.counters.nOutNacks.Load(),
		NSatisfiedInterests:   t.counters.nSatisfiedInterests.Load(),
		NUnsatisfiedInterests: t.counters.nUnsatisfiedInterests.Load(),
	}
}

// Pit returns this thread's Pending Interest Table.
func (t *Thread) Pit() *table.Pit { return t.pit }

// Cs returns this thread's Content Store.
func (t *Thread) Cs() *table.ContentStore { return t.cs }

// DeadNonceList returns this thread's Dead-Nonce List.
func (t *Thread) DeadNonceList() *table.DeadNonceList { return t.deadNonceList }

// strategyFor resolves the strategy instance governing name, falling
// back to the configured default if no instance of the chosen strategy
// was instantiated for this thread.
func (t *Thread) strategyFor(name enc.Name) Strategy {
	defaultName, _ := defn.StrategyName("best-route", 1)
	chosen := table.FibStrategyTable.FindStrategyEnc(name, defaultName)
	if s, ok := t.strategies[chosen.String()]; ok {
		return s
	}
	if s, ok := t.strategies[defaultName.String()]; ok {
		return s
	}
	return nil
}

// Push enqueues a decoded packet for processing on this thread's
// goroutine, tagged with the face it arrived on.
func (t *Thread) Push(pkt *defn.Pkt, inFace uint64) {
	select {
	case t.queue <- incomingPacket{pkt: pkt, inFace: inFace}:
	default:
		core.Log.Warn(t, "Queue full - DROP", "name", pkt.Name)
	}
}

// pitSweepInterval is how often Run checks the PIT for entries whose
// unsatisfy_timer has fired.
const pitSweepInterval = 100 * time.Millisecond

// Run is the thread's main loop: it drains the queue, dispatching each
// packet to the appropriate pipeline, until Stop is called.
func (t *Thread) Run() {
	markTicker := time.NewTicker(t.deadNonceList.MarkInterval())
	defer markTicker.Stop()
	adjustTicker := time.NewTicker(t.deadNonceList.Lifetime())
	defer adjustTicker.Stop()
	pitTicker := time.NewTicker(pitSweepInterval)
	defer pitTicker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case p := <-t.queue:
			t.dispatch(p.pkt, p.inFace)
		case <-markTicker.C:
			t.deadNonceList.Mark()
		case <-adjustTicker.C:
			t.deadNonceList.Adjust()
		case now := <-pitTicker.C:
			t.pit.SweepExpired(now)
		}
	}
}

// Stop signals Run to exit and releases the thread's Content Store.
func (t *Thread) Stop() {
	close(t.stop)
	if err := t.cs.Close(); err != nil {
		core.Log.Warn(t, "Failed to close Content Store", "err", err)
	}
}

func (t *Thread) dispatch(pkt *defn.Pkt, inFace uint64) {
	switch {
	case pkt.L3.Interest != nil:
		t.processIncomingInterest(pkt, inFace)
	case pkt.L3.Data != nil:
		t.processIncomingData(pkt, inFace)
	case pkt.L3.Nack != nil:
		t.processIncomingNack(pkt, inFace)
	}
}

// sendNack builds a Nack for interest with the given reason and sends it
// back out inFace, bypassing the strategy: a Nack raised by the pipeline
// itself (duplicate suppression, loop detection) is not a strategy
// decision.
func (t *Thread) sendNack(inFace uint64, interest *defn.FwInterest, reason defn.NackReason) {
	outFace := face.FaceTable.Get(inFace)
	if outFace == nil {
		return
	}
	outFace.SendPacket(&defn.Pkt{
		Name: interest.NameV,
		L3:   defn.L3Pkt{Nack: &defn.FwNack{InterestV: interest, ReasonV: reason}},
	})
	t.counters.nOutNacks.Add(1)
}

// isLocalhostOnNonLocalFace reports whether name falls under /localhost and
// inFace is not a local face, in which case the pipeline must refuse it:
// /localhost is only reachable from this host.
func isLocalhostOnNonLocalFace(name enc.Name, inFace uint64) bool {
	if !defn.LOCALHOST_PREFIX.IsPrefix(name) {
		return false
	}
	f := face.FaceTable.Get(inFace)
	return f == nil || f.Scope() != defn.Local
}

// processIncomingInterest is the Incoming Interest pipeline: it checks
// the Dead-Nonce List, inserts or finds the PIT entry and detects a loop
// through another face's in-record, records the in-record, tries the
// Content Store, and otherwise asks the resolved strategy to forward it.
func (t *Thread) processIncomingInterest(pkt *defn.Pkt, inFace uint64) {
	interest := pkt.L3.Interest
	t.counters.nInInterests.Add(1)

	if isLocalhostOnNonLocalFace(interest.NameV, inFace) {
		core.Log.Debug(t, "/localhost Interest on non-local face - DROP", "name", pkt.Name)
		return
	}

	nonce, hasNonce := interest.NonceV.Get()
	if hasNonce && t.deadNonceList.Has(interest.NameV, nonce) {
		core.Log.Debug(t, "Interest loop detected via Dead-Nonce List - NACK duplicate", "name", pkt.Name)
		t.sendNack(inFace, interest, defn.NackReasonDuplicate)
		return
	}

	if hl, ok := interest.HopLimitV.Get(); ok {
		if hl == 0 {
			core.Log.Debug(t, "HopLimit exceeded - DROP", "name", pkt.Name)
			return
		}
		interest.HopLimitV.Set(hl - 1)
	}

	pitEntry, alreadyExists := t.pit.InsertInterest(interest)

	if hasNonce {
		if _, loop := pitEntry.FindInRecordOnOtherFace(inFace, nonce); loop {
			core.Log.Debug(t, "Interest loop detected on another face - NACK duplicate", "name", pkt.Name)
			t.sendNack(inFace, interest, defn.NackReasonDuplicate)
			return
		}
	}

	pitToken := []byte{byte(pitEntry.Token() >> 24), byte(pitEntry.Token() >> 16), byte(pitEntry.Token() >> 8), byte(pitEntry.Token())}
	pitEntry.InsertInRecord(interest, inFace, pitToken)

	if csEntry := t.cs.Find(interest); csEntry != nil {
		data, wire, err := csEntry.Copy()
		if err == nil {
			t.counters.nSatisfiedInterests.Add(1)
			strategy := t.strategyFor(interest.NameV)
			if strategy != nil {
				strategy.AfterContentStoreHit(&defn.Pkt{Name: data.NameV, L3: defn.L3Pkt{Data: data}, Raw: wire}, pitEntry, inFace)
			}
			return
		}
	}

	if alreadyExists {
		// Another downstream is already pending on this Interest;
		// outgoing Interests were already sent on first arrival.
		return
	}

	// A forwarding hint that has already steered the Interest into one of
	// this node's network regions has done its job; route on the
	// Interest's own name instead of chasing the hint further.
	lookupName := interest.NameV
	if len(interest.ForwardingHintV) > 0 && !table.NetworkPredicate(interest.ForwardingHintV) {
		lookupName = interest.ForwardingHintV
	}

	nexthops := table.FibStrategyTable.FindNextHopsEnc(lookupName)
	strategy := t.strategyFor(interest.NameV)
	if strategy == nil {
		core.Log.Warn(t, "No strategy resolved for Interest - DROP", "name", pkt.Name)
		return
	}
	strategy.AfterReceiveInterest(pkt, pitEntry, inFace, nexthops)
}

// processIncomingData is the Incoming Data pipeline: every PIT entry the
// Data satisfies is marked satisfied and handed to its strategy, the
// Data is cached in the Content Store, and the out-record's nonce is
// moved into the Dead-Nonce List to prevent it looping back around.
func (t *Thread) processIncomingData(pkt *defn.Pkt, inFace uint64) {
	data := pkt.L3.Data
	t.counters.nInData.Add(1)

	if isLocalhostOnNonLocalFace(data.NameV, inFace) {
		core.Log.Debug(t, "/localhost Data on non-local face - DROP", "name", pkt.Name)
		return
	}

	matches := t.pit.FindMatching(data)
	if len(matches) == 0 {
		t.counters.nUnsatisfiedInterests.Add(1)
		return
	}

	t.cs.Insert(data, pkt.Raw, false)

	for _, pitEntry := range matches {
		for _, out := range pitEntry.OutRecords() {
			t.deadNonceList.Add(pitEntry.EncName(), out.LatestNonce)
		}

		strategy := t.strategyFor(pitEntry.EncName())
		if strategy == nil {
			continue
		}
		t.counters.nSatisfiedInterests.Add(1)
		strategy.AfterReceiveData(pkt, pitEntry, inFace)

		pit, entry := t.pit, pitEntry
		time.AfterFunc(table.StragglerTime, func() { pit.Erase(entry) })
	}
}

// processIncomingNack is the Incoming Nack pipeline: the Nack is matched
// back to the out-record it was sent against, recorded there, and
// forwarded to the strategy so it can decide whether to retry another
// nexthop.
func (t *Thread) processIncomingNack(pkt *defn.Pkt, inFace uint64) {
	nack := pkt.L3.Nack
	t.counters.nInNacks.Add(1)

	pitEntry, ok := t.pit.FindInterestExact(nack.InterestV)
	if !ok {
		return
	}
	if !pitEntry.SetIncomingNack(inFace, nack) {
		return
	}

	strategy := t.strategyFor(pitEntry.EncName())
	if strategy != nil {
		if afterNack, ok := strategy.(interface {
			AfterReceiveNack(*defn.Pkt, table.PitEntry, uint64)
		}); ok {
			afterNack.AfterReceiveNack(pkt, pitEntry, inFace)
		}
	}
}

// ProcessFaceFail is the Face-fail pipeline: every PIT in- and out-record
// pointing at faceID is purged from every thread, and the face is dropped
// from the FIB, the RIB and the face table. The Content Store is not
// touched.
func ProcessFaceFail(faceID uint64) {
	for _, t := range threads {
		if t == nil {
			continue
		}
		t.pit.RemoveFace(faceID)
	}
	table.FibStrategyTable.RemoveFace(faceID)
	table.Rib.RemoveFace(faceID)
	face.FaceTable.Remove(faceID)
}
