package face

import (
	"time"

	"github.com/nfdgo/ndnd/fw/core"
)

// CfgUDPLifetime returns the idle lifetime granted to on-demand unicast UDP
// faces before they are marked down and removed.
func CfgUDPLifetime() time.Duration {
	return core.C.Faces.Udp.Lifetime
}

// CfgUDPUnicastPort returns the local port unicast UDP faces bind to when
// no explicit local URI is given.
func CfgUDPUnicastPort() int {
	return int(core.C.Faces.Udp.Port)
}

// CfgUDP4MulticastAddress returns the IPv4 multicast group NDN-over-UDP
// multicast faces join.
func CfgUDP4MulticastAddress() string {
	return core.C.Faces.Udp.Mcast4
}

// CfgUDP6MulticastAddress returns the IPv6 multicast group NDN-over-UDP
// multicast faces join.
func CfgUDP6MulticastAddress() string {
	return core.C.Faces.Udp.Mcast6
}

// CfgUDPMulticastPort returns the UDP port NDN-over-UDP multicast faces
// use.
func CfgUDPMulticastPort() int {
	return int(core.C.Faces.Udp.PortMcast)
}
