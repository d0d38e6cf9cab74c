/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/nfdgo/ndnd/fw/core"
	defn "github.com/nfdgo/ndnd/fw/defn"
)

// UnixStreamListener listens for incoming connections from local
// applications on a Unix domain socket.
type UnixStreamListener struct {
	conn     *net.UnixListener
	localURI *defn.URI
	nextFd   int
	stopped  chan bool
}

// MakeUnixStreamListener constructs a UnixStreamListener bound to the
// socket path named by localURI.
func MakeUnixStreamListener(localURI *defn.URI) (*UnixStreamListener, error) {
	localURI.Canonize()
	if !localURI.IsCanonical() || localURI.Scheme() != "unix" {
		return nil, defn.ErrNotCanonical
	}

	l := new(UnixStreamListener)
	l.localURI = localURI
	l.stopped = make(chan bool, 1)
	return l, nil
}

func (l *UnixStreamListener) String() string {
	return fmt.Sprintf("unix-stream-listener (%s)", l.localURI)
}

// Run removes any stale socket file at the configured path, listens for
// incoming connections, and establishes a Unix stream transport and NDN
// link service for each one.
func (l *UnixStreamListener) Run() {
	defer func() { l.stopped <- true }()

	os.Remove(l.localURI.Path())

	var err error
	l.conn, err = net.ListenUnix("unix", &net.UnixAddr{Name: l.localURI.Path(), Net: "unix"})
	if err != nil {
		core.Log.Error(l, "Unable to start Unix stream listener", "err", err)
		return
	}
	os.Chmod(l.localURI.Path(), 0777)

	for !core.ShouldQuit {
		remoteConn, err := l.conn.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			core.Log.Warn(l, "Unable to accept connection", "err", err)
			continue
		}

		l.nextFd++
		remoteURI := defn.DecodeURIString(fmt.Sprintf("fd://%d", l.nextFd))
		newTransport, err := MakeUnixStreamTransport(remoteURI, l.localURI, remoteConn)
		if err != nil {
			core.Log.Error(l, "Failed to create new Unix stream transport", "err", err)
			continue
		}

		core.Log.Info(l, "Accepting new Unix stream face", "uri", newTransport.RemoteURI())
		options := MakeNDNLPLinkServiceOptions()
		options.IsFragmentationEnabled = false // reliable stream
		MakeNDNLPLinkService(newTransport, options).Run(nil)
	}
}

// Close shuts down the listener and removes the socket file.
func (l *UnixStreamListener) Close() {
	if l.conn != nil {
		l.conn.Close()
		<-l.stopped
		l.conn = nil
		os.Remove(l.localURI.Path())
	}
}
