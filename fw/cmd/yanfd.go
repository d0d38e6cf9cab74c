/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"fmt"

	"github.com/nfdgo/ndnd/fw/core"
	"github.com/nfdgo/ndnd/fw/defn"
	"github.com/nfdgo/ndnd/fw/dispatch"
	"github.com/nfdgo/ndnd/fw/face"
	"github.com/nfdgo/ndnd/fw/fw"
	"github.com/nfdgo/ndnd/fw/mgmt"
	"github.com/nfdgo/ndnd/fw/table"
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/log"
)

// YaNFD bundles together the forwarding threads, management plane, and
// face listeners that make up one running forwarder process.
type YaNFD struct {
	config    *core.Config
	profiler  *Profiler
	mgmt      *mgmt.Thread
	listeners []listener
}

// listener is any face acceptor started at process bring-up: it runs in
// its own goroutine until Close is called.
type listener interface {
	String() string
	Run()
	Close()
}

// NewYaNFD constructs a YaNFD from config, without starting anything.
func NewYaNFD(config *core.Config) *YaNFD {
	core.C = config

	if level, err := log.ParseLevel(config.Core.LogLevel); err == nil {
		core.Log.SetLevel(level)
	}

	return &YaNFD{config: config}
}

func (y *YaNFD) String() string { return "yanfd" }

// Start brings up the configured tables, the forwarding threads, the
// management plane, and then the face listeners, in that order, and
// returns once every listener has been started.
func (y *YaNFD) Start() {
	core.Log.Info(y, "Starting forwarder")

	y.profiler = NewProfiler(y.config)
	y.profiler.Start()

	table.CfgSetCsCapacity(y.config.Tables.ContentStore.Capacity)
	table.CfgSetCsAdmit(true)
	table.CfgSetCsServe(true)

	var regions []enc.Name
	for _, s := range y.config.Tables.NetworkRegion {
		name, err := enc.NameFromStr(s)
		if err != nil {
			core.Log.Warn(y, "Skipping malformed network region name", "name", s, "err", err)
			continue
		}
		regions = append(regions, name)
	}
	table.NetworkRegion.Set(regions)

	if y.config.Faces.DefaultIdlePeriod > 0 {
		face.CfgSetDefaultIdlePeriod(y.config.Faces.DefaultIdlePeriod)
	}

	numThreads := y.config.Fw.Threads
	if numThreads < 1 {
		numThreads = 1
	}
	fw.CfgSetNumThreads(numThreads)

	for i := 0; i < numThreads; i++ {
		t := dispatch.AddFWThread(i)
		go t.Run()
	}

	if !y.config.Mgmt.Disabled {
		y.mgmt = mgmt.NewThread()
	}

	face.OnPacket = func(pkt *defn.Pkt, inFace uint64) {
		if y.mgmt != nil && pkt.L3.Interest != nil && mgmt.LOCAL_PREFIX.IsPrefix(pkt.Name) {
			y.mgmt.HandleIncomingInterest(pkt, inFace)
			return
		}
		dispatch.Dispatch(pkt, inFace)
	}

	y.startFaces()

	core.Log.Info(y, "Forwarder running")
}

// startFaces starts one listener per face type enabled in the
// configuration: a UDP multicast face on every multicast-capable
// interface, plus the configured unicast TCP, Unix, and WebSocket
// listeners.
func (y *YaNFD) startFaces() {
	cfg := y.config.Faces

	if cfg.Udp.Enabled {
		for _, ip := range face.MulticastInterfaceIPv4s() {
			localURI := defn.DecodeURIString(fmt.Sprintf("udp4://%s:%d", ip, cfg.Udp.PortMcast))
			t, err := face.MakeMulticastUDPTransport(localURI)
			if err != nil {
				core.Log.Warn(y, "Unable to create multicast UDP face", "iface", ip, "err", err)
				continue
			}
			face.MakeNDNLPLinkService(t, face.MakeNDNLPLinkServiceOptions()).Run(nil)
		}
	}

	if cfg.Tcp.Enabled {
		for _, scheme := range []string{"tcp4", "tcp6"} {
			host := "0.0.0.0"
			if scheme == "tcp6" {
				host = "[::]"
			}
			localURI := defn.DecodeURIString(fmt.Sprintf("%s://%s:%d", scheme, host, cfg.Tcp.Port))
			l, err := face.MakeTCPListener(localURI)
			if err != nil {
				core.Log.Warn(y, "Unable to create TCP listener", "scheme", scheme, "err", err)
				continue
			}
			y.startListener(l)
		}
	}

	if cfg.Unix.Enabled {
		localURI := defn.DecodeURIString("unix://" + cfg.Unix.Socket)
		l, err := face.MakeUnixStreamListener(localURI)
		if err != nil {
			core.Log.Warn(y, "Unable to create Unix stream listener", "err", err)
		} else {
			y.startListener(l)
		}
	}

	if cfg.WebSocket.Enabled {
		l, err := face.NewWebSocketListener(face.WebSocketListenerConfig{
			Bind: "0.0.0.0",
			Port: cfg.WebSocket.Port,
		})
		if err != nil {
			core.Log.Warn(y, "Unable to create WebSocket listener", "err", err)
		} else {
			y.startListener(l)
		}
	}
}

func (y *YaNFD) startListener(l listener) {
	y.listeners = append(y.listeners, l)
	core.Log.Info(y, "Starting listener", "listener", l)
	go l.Run()
}

// Stop signals every running goroutine to quit and blocks until the face
// listeners have closed, then stops the profiler.
func (y *YaNFD) Stop() {
	core.Log.Info(y, "Stopping forwarder")
	core.ShouldQuit = true

	for _, l := range y.listeners {
		l.Close()
	}
	for _, f := range face.FaceTable.GetAll() {
		f.Close()
	}

	fw.StopAll()

	y.profiler.Stop()
}
