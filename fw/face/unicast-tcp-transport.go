/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"fmt"
	"net"

	"github.com/nfdgo/ndnd/fw/core"
	defn "github.com/nfdgo/ndnd/fw/defn"
	spec_mgmt "github.com/nfdgo/ndnd/std/ndn/mgmt_2022"
	ndn_io "github.com/nfdgo/ndnd/std/utils/io"
)

// UnicastTCPTransport is a unicast TCP transport, always created from an
// already-accepted or already-dialed net.Conn.
type UnicastTCPTransport struct {
	conn net.Conn
	transportBase
}

// AcceptUnicastTCPTransport wraps an accepted TCP connection as a
// transport, deriving its remote/local URIs from the connection's
// addresses.
func AcceptUnicastTCPTransport(
	conn net.Conn,
	localURI *defn.URI,
	persistency spec_mgmt.Persistency,
) (*UnicastTCPTransport, error) {
	remoteURI := defn.DecodeURIString("tcp://" + conn.RemoteAddr().String())
	remoteURI.Canonize()

	t := new(UnicastTCPTransport)
	t.conn = conn
	t.makeTransportBase(
		remoteURI, localURI, persistency,
		defn.NonLocal, defn.PointToPoint,
		int(core.C.Faces.Udp.DefaultMtu))

	ip := net.ParseIP(remoteURI.PathHost())
	if ip != nil && ip.IsLoopback() {
		t.scope = defn.Local
	}

	t.running.Store(true)
	return t, nil
}

func (t *UnicastTCPTransport) String() string {
	return fmt.Sprintf("unicast-tcp-transport (face=%d remote=%s local=%s)", t.faceID, t.remoteURI, t.localURI)
}

func (t *UnicastTCPTransport) SetPersistency(persistency spec_mgmt.Persistency) bool {
	t.persistency = persistency
	return true
}

func (t *UnicastTCPTransport) GetSendQueueSize() uint64 {
	return 0
}

func (t *UnicastTCPTransport) sendFrame(frame []byte) {
	if !t.running.Load() {
		return
	}
	if len(frame) > t.MTU() {
		core.Log.Error(t, "Attempted to send frame larger than MTU", "size", len(frame), "MTU", t.MTU())
		return
	}
	if _, err := t.conn.Write(frame); err != nil {
		core.Log.Warn(t, "Unable to send on socket - Face DOWN", "err", err)
		t.Close()
		return
	}
	t.nOutBytes += uint64(len(frame))
}

func (t *UnicastTCPTransport) runReceive() {
	defer t.Close()

	err := ndn_io.ReadTlvStream(t.conn, func(b []byte) bool {
		t.nInBytes += uint64(len(b))
		t.linkService.handleIncomingFrame(b)
		return true
	}, func(err error) bool {
		return true
	})
	if err != nil && t.running.Load() {
		core.Log.Warn(t, "Unable to read from socket - Face DOWN", "err", err)
	}
}

func (t *UnicastTCPTransport) Close() {
	if t.running.Swap(false) {
		t.conn.Close()
	}
}
