/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package dispatch is the thin seam between fw/face and fw/fw: it hands a
// decoded packet to the forwarding thread that owns the PIT slot for its
// name, without fw/face needing to import fw/fw's strategy machinery
// directly.
package dispatch

import (
	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/fw"
)

// GetFWThread returns the forwarding thread with the given ID.
func GetFWThread(threadID int) *fw.Thread {
	return fw.GetThread(threadID)
}

// AddFWThread constructs and registers a new forwarding thread with the
// given ID, matching the count configured via fw.CfgSetNumThreads.
func AddFWThread(threadID int) *fw.Thread {
	return fw.NewThread(threadID)
}

// Dispatch hands pkt to the forwarding thread responsible for its name,
// tagging it with the face it arrived on.
func Dispatch(pkt *defn.Pkt, inFace uint64) {
	threadID := fw.HashNameToFwThread(pkt.Name)
	thread := fw.GetThread(threadID)
	if thread == nil {
		core.Log.Warn("dispatch", "No forwarding thread for packet - DROP", "name", pkt.Name, "thread", threadID)
		return
	}
	thread.Push(pkt, inFace)
}
