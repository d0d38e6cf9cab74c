/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"fmt"

	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/face"
	"github.com/nfdgo/ndnd/fw/table"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// Strategy is a pluggable forwarding strategy: the decision logic invoked
// at each of the points in the Interest/Data pipelines where NFD-style
// forwarders let strategy override the default behavior.
type Strategy interface {
	// Instantiate binds this strategy instance to its owning thread and
	// records its registered name and version.
	Instantiate(thread *Thread)

	// AfterContentStoreHit is called when an Interest is satisfied
	// directly from the Content Store.
	AfterContentStoreHit(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64)
	// AfterReceiveData is called when incoming Data satisfies a pending
	// Interest, once per PIT entry it satisfies.
	AfterReceiveData(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64)
	// AfterReceiveInterest is called for a new (non-duplicate) Interest
	// once the Content Store and PIT have been consulted.
	AfterReceiveInterest(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64, nexthops []*table.FibNextHopEntry)
	// BeforeSatisfyInterest is called just before a PIT entry is marked
	// satisfied.
	BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64)
}

// strategyInit and StrategyVersions are populated by each strategy
// implementation's init(), and consulted when a Thread brings up its
// strategy table.
var strategyInit []func() Strategy
var StrategyVersions = make(map[string][]uint64)

// StrategyBase provides the plumbing every Strategy embeds: its bound
// thread, registered name, and the SendInterest/SendData helpers that
// drive the Outgoing Interest and Outgoing Data pipelines.
type StrategyBase struct {
	thread       *Thread
	name         string
	version      uint64
	instanceName enc.Name
}

// NewStrategyBase binds a strategy instance to thread under the name
// /localhost/nfd/strategy/<name>/<version>.
func (s *StrategyBase) NewStrategyBase(thread *Thread, name string, version uint64) {
	s.thread = thread
	s.name = name
	s.version = version

	full, err := defn.StrategyName(name, version)
	if err != nil {
		core.Log.Fatal(s, "Unable to construct strategy name", "name", name, "version", version, "err", err)
	}
	s.instanceName = full
}

// String identifies the strategy instance in log output as
// "strategy-thread(<thread>)-<name>".
func (s *StrategyBase) String() string {
	threadID := -1
	if s.thread != nil {
		threadID = s.thread.ID()
	}
	return fmt.Sprintf("strategy-thread(%d)-%s", threadID, s.name)
}

// Name returns the registered strategy name, e.g. "multicast".
func (s *StrategyBase) Name() string { return s.name }

// InstanceName returns the versioned strategy name,
// /localhost/nfd/strategy/<name>/<version>.
func (s *StrategyBase) InstanceName() enc.Name { return s.instanceName }

// SendInterest forwards packet to nexthop, creating (or refreshing) the
// PIT entry's out-record for that face; inFace is the face the Interest
// originally arrived on (0 for Interests originated locally).
func (s *StrategyBase) SendInterest(packet *defn.Pkt, pitEntry table.PitEntry, nexthop uint64, inFace uint64) {
	outFace := face.FaceTable.Get(nexthop)
	if outFace == nil {
		core.Log.Debug(s, "Nexthop face does not exist - DROP", "faceid", nexthop)
		return
	}

	pitEntry.InsertOutRecord(packet.L3.Interest, nexthop)

	outFace.SendPacket(packet)
	s.thread.counters.nOutInterests.Add(1)
}

// SendData sends packet to downstream face, satisfying the PIT entry if
// this is the first Data sent for it; source is the face Data was
// received from (0 if it came from the Content Store).
func (s *StrategyBase) SendData(packet *defn.Pkt, pitEntry table.PitEntry, downstream uint64, source uint64) {
	outFace := face.FaceTable.Get(downstream)
	if outFace == nil {
		core.Log.Debug(s, "Downstream face does not exist - DROP", "faceid", downstream)
		return
	}

	pitEntry.SetSatisfied(true)
	outFace.SendPacket(packet)
	s.thread.counters.nOutData.Add(1)
}
