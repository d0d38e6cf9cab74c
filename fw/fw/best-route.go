/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/table"
)

// BestRouteSuppressionTime is the time to suppress retransmissions of the same Interest.
const BestRouteSuppressionTime = 500 * time.Millisecond

// BestRoute is a forwarding strategy that forwards Interests to the
// single lowest-cost nexthop, retrying the next-cheapest nexthop only
// once the previous one Nacks.
type BestRoute struct {
	StrategyBase
}

// Registers the BestRoute strategy with version 1, adding its constructor to the initialization list and mapping it to the "best-route" name in the strategy version registry.
func init() {
	strategyInit = append(strategyInit, func() Strategy { return &BestRoute{} })
	StrategyVersions["best-route"] = []uint64{1}
}

// Initializes the base best-route forwarding strategy with the specified thread, naming it "best-route" and using version 1.
func (s *BestRoute) Instantiate(fwThread *Thread) {
	s.NewStrategyBase(fwThread, "best-route", 1)
}

// Handles a Content Store hit by sending the cached Data packet to the downstream that asked for it, indicating the Content Store as the source (0).
func (s *BestRoute) AfterContentStoreHit(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
) {
	core.Log.Trace(s, "AfterContentStoreHit", "name", packet.Name, "faceid", inFace)
	s.SendData(packet, pitEntry, inFace, 0)
}

// Forwards the received Data packet to every downstream that is still waiting on it.
func (s *BestRoute) AfterReceiveData(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
) {
	core.Log.Trace(s, "AfterReceiveData", "name", packet.Name, "inrecords", len(pitEntry.InRecords()))
	for faceID := range pitEntry.InRecords() {
		core.Log.Trace(s, "Forwarding Data", "name", packet.Name, "faceid", faceID)
		s.SendData(packet, pitEntry, faceID, inFace)
	}
}

// Suppresses retransmitted Interests within the suppression interval and otherwise forwards the Interest to the single lowest-cost nexthop not already pending.
func (s *BestRoute) AfterReceiveInterest(
	packet *defn.Pkt,
	pitEntry table.PitEntry,
	inFace uint64,
	nexthops []*table.FibNextHopEntry,
) {
	if len(nexthops) == 0 {
		core.Log.Debug(s, "No nexthop for Interest", "name", packet.Name)
		return
	}

	now := time.Now()
	for _, outRecord := range pitEntry.OutRecords() {
		if outRecord.LatestNonce != packet.L3.Interest.NonceV.Unwrap() &&
			outRecord.LatestTimestamp.Add(BestRouteSuppressionTime).After(now) {
			core.Log.Debug(s, "Suppressed Interest", "name", packet.Name)
			return
		}
	}

	var best *table.FibNextHopEntry
	for _, nh := range nexthops {
		if _, alreadySent := pitEntry.GetOutRecord(nh.Nexthop); alreadySent {
			continue
		}
		if best == nil || nh.Cost < best.Cost {
			best = nh
		}
	}
	if best == nil {
		core.Log.Debug(s, "All nexthops already pending", "name", packet.Name)
		return
	}

	core.Log.Trace(s, "Forwarding Interest", "name", packet.Name, "faceid", best.Nexthop)
	s.SendInterest(packet, pitEntry, best.Nexthop, inFace)
}

// AfterReceiveNack retries the Nacked Interest on the cheapest nexthop that
// has not been tried yet, unless some other upstream is still pending.
func (s *BestRoute) AfterReceiveNack(packet *defn.Pkt, pitEntry table.PitEntry, inFace uint64) {
	var next *table.FibNextHopEntry
	for _, nh := range table.FibStrategyTable.FindNextHopsEnc(pitEntry.EncName()) {
		out, ok := pitEntry.GetOutRecord(nh.Nexthop)
		if ok && out.HasNack {
			continue
		}
		if ok {
			// already pending elsewhere
			return
		}
		if next == nil || nh.Cost < next.Cost {
			next = nh
		}
	}
	if next == nil {
		return
	}
	interest := &defn.Pkt{Name: packet.Name, L3: defn.L3Pkt{Interest: packet.L3.Nack.InterestV}}
	core.Log.Trace(s, "Retrying Interest after Nack", "name", packet.Name, "faceid", next.Nexthop)
	s.SendInterest(interest, pitEntry, next.Nexthop, inFace)
}

// BeforeSatisfyInterest is a no-op in BestRoute.
func (s *BestRoute) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {}
