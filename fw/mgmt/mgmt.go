/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package mgmt implements the NFD Management protocol: control commands
// and status datasets under /localhost/nfd, dispatched by verb to one
// module per table (FIB, RIB, Strategy Choice, Content Store, forwarder
// status).
package mgmt

import (
	"github.com/nfdgo/ndnd/fw/defn"
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// LOCAL_PREFIX is the namespace every management command and dataset
// lives under.
var LOCAL_PREFIX enc.Name

func init() {
	LOCAL_PREFIX, _ = enc.NameFromStr("/localhost/nfd")
}

// Module is one family of management commands, keyed by the second name
// component under LOCAL_PREFIX (e.g. "fib", "rib", "cs").
type Module interface {
	String() string
	registerManager(manager *Thread)
	getManager() *Thread
	handleIncomingInterest(interest *Interest)
}

// Interest wraps a decoded management Interest with the face it arrived
// on, the subset a Module needs to validate and answer a control command.
type Interest struct {
	pkt    *defn.Pkt
	inFace optional.Optional[uint64]
}

// NewInterest wraps pkt, received on inFace, as a management Interest.
func NewInterest(pkt *defn.Pkt, inFace uint64) *Interest {
	return &Interest{pkt: pkt, inFace: optional.Some(inFace)}
}

// Name returns the Interest's name.
func (i *Interest) Name() enc.Name { return i.pkt.Name }

// AppParam returns the Interest's Application Parameters, empty if none
// were carried.
func (i *Interest) AppParam() enc.Wire {
	if i.pkt.L3.Interest == nil {
		return nil
	}
	return i.pkt.L3.Interest.AppParamV
}
