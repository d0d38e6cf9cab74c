/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/face"
	enc "github.com/nfdgo/ndnd/std/encoding"
	mgmt "github.com/nfdgo/ndnd/std/ndn/mgmt_2022"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// Thread is the management plane: it owns every registered Module and
// answers control Interests addressed to LOCAL_PREFIX by encoding and
// sending a response Data back out the face the Interest arrived on. It
// has no goroutine of its own; each Interest is handled on the face
// goroutine that delivered it.
type Thread struct {
	modules map[string]Module
}

// NewThread constructs the management Thread with the built-in FIB, RIB,
// Strategy Choice, Content Store, and forwarder-status modules.
func NewThread() *Thread {
	t := &Thread{modules: make(map[string]Module)}
	t.registerModule("fib", &FIBModule{})
	t.registerModule("rib", &RIBModule{})
	t.registerModule("strategy-choice", &StrategyChoiceModule{})
	t.registerModule("cs", &ContentStoreModule{})
	t.registerModule("status", &ForwarderStatusModule{})
	return t
}

func (t *Thread) registerModule(verb string, m Module) {
	m.registerManager(t)
	t.modules[verb] = m
}

func (t *Thread) String() string { return "mgmt-thread" }

// HandleIncomingInterest routes a decoded Interest under LOCAL_PREFIX to
// the module named by its first component, e.g. /localhost/nfd/fib/...
// dispatches to the "fib" module.
func (t *Thread) HandleIncomingInterest(pkt *defn.Pkt, inFace uint64) {
	if pkt.L3.Interest == nil {
		return
	}
	name := pkt.Name
	if !LOCAL_PREFIX.IsPrefix(name) || len(name) <= len(LOCAL_PREFIX) {
		core.Log.Warn(t, "Received management Interest for unknown prefix - DROP", "name", name)
		return
	}

	verb := name[len(LOCAL_PREFIX)].String()
	module, ok := t.modules[verb]
	if !ok {
		core.Log.Warn(t, "Received management Interest for unknown module - DROP", "name", name)
		return
	}
	module.handleIncomingInterest(NewInterest(pkt, inFace))
}

// sendCtrlResp replies to interest with a ControlResponse Data carrying
// code, text, and the (possibly amended) ControlParameters in body.
func (t *Thread) sendCtrlResp(interest *Interest, code uint64, text string, body *mgmt.ControlArgs) {
	resp := &mgmt.ControlResponse{StatusCode: code, StatusText: text, Body: body}
	t.sendData(interest, interest.Name(), resp.Encode())
}

// sendStatusDataset replies to interest with a Data packet named name,
// carrying content as a status dataset's encoded bytes.
func (t *Thread) sendStatusDataset(interest *Interest, name enc.Name, content enc.Wire) {
	t.sendData(interest, name, content)
}

func (t *Thread) sendData(interest *Interest, name enc.Name, content enc.Wire) {
	faceID, ok := interest.inFace.Get()
	if !ok {
		return
	}
	outFace := face.FaceTable.Get(faceID)
	if outFace == nil {
		core.Log.Warn(t, "Face for management response no longer exists - DROP", "faceid", faceID)
		return
	}

	data := &defn.FwData{
		NameV:        name,
		ContentTypeV: optional.Some(uint64(0)),
		ContentV:     content,
	}
	wire := defn.EncodeData(data)
	outFace.SendPacket(&defn.Pkt{Name: name, L3: defn.L3Pkt{Data: data}, Raw: wire})
}
