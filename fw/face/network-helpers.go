/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"net"
)

// ErrNoInterface is returned when no local interface has ip assigned.
var ErrNoInterface = errors.New("no interface found for address")

// InterfaceByIP returns the network interface that has ip assigned to
// one of its addresses, used to join a multicast group on the correct
// interface.
func InterfaceByIP(ip net.IP) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for i, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && ipNet.IP.Equal(ip) {
				return &ifaces[i], nil
			}
		}
	}

	return nil, ErrNoInterface
}

// MulticastInterfaceIPv4s returns the IPv4 addresses of every up,
// multicast-capable, non-loopback interface, used to join one UDP
// multicast face per interface at startup.
func MulticastInterfaceIPv4s() []net.IP {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return ips
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if ok && ipNet.IP.To4() != nil {
				ips = append(ips, ipNet.IP)
			}
		}
	}

	return ips
}
