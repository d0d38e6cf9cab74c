package defn

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

// URI identifies the endpoint of a face, e.g. udp4://192.0.2.1:6363 or
// fd://3. It intentionally stays simple: a scheme, a host (IP or opaque
// path segment), an optional IPv6 zone, and a port.
type URI struct {
	scheme      string
	host        string
	zone        string
	port        uint16
	canonical   bool
}

// Scheme returns the URI's scheme, e.g. "udp4", "tcp6", "fd", "unix", "ws".
func (u *URI) Scheme() string {
	return u.scheme
}

// Path returns the host portion of the URI (an IP address, a file
// descriptor number, or a socket path), without any IPv6 zone suffix.
func (u *URI) Path() string {
	return u.host
}

// PathHost is an alias of Path retained for readability at multicast and
// WebSocket call sites, where "host" better describes the field's role.
func (u *URI) PathHost() string {
	return u.host
}

// PathZone returns the IPv6 zone identifier, or "" if none is present.
func (u *URI) PathZone() string {
	return u.zone
}

// Port returns the URI's port number, or 0 if not applicable.
func (u *URI) Port() uint16 {
	return u.port
}

// Canonize normalizes the scheme (udp/tcp resolve to udp4/udp6/tcp4/tcp6
// based on whether the host parses as an IPv4 or IPv6 literal) and marks
// the URI as canonical on success.
func (u *URI) Canonize() {
	switch u.scheme {
	case "udp", "udp4", "udp6":
		if ip := net.ParseIP(u.host); ip != nil {
			if ip.To4() != nil {
				u.scheme = "udp4"
			} else {
				u.scheme = "udp6"
			}
			u.canonical = true
		}
	case "tcp", "tcp4", "tcp6":
		if ip := net.ParseIP(u.host); ip != nil {
			if ip.To4() != nil {
				u.scheme = "tcp4"
			} else {
				u.scheme = "tcp6"
			}
			u.canonical = true
		}
	case "fd", "unix", "null", "ws", "wss", "quic", "internal":
		u.canonical = true
	}
}

// IsCanonical reports whether the URI is in canonical form.
func (u *URI) IsCanonical() bool {
	return u.canonical
}

// String renders the URI back into its wire/display form.
func (u *URI) String() string {
	host := u.host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if u.zone != "" {
		host += "%" + u.zone
	}
	if u.port != 0 {
		return fmt.Sprintf("%s://%s:%d", u.scheme, host, u.port)
	}
	return fmt.Sprintf("%s://%s", u.scheme, host)
}

// DecodeURIString parses a face URI of the form scheme://host[:port], e.g.
// "udp4://192.0.2.1:6363" or "fd://3", returning a canonicalized URI.
func DecodeURIString(s string) *URI {
	parsed, err := url.Parse(s)
	if err != nil {
		return nil
	}

	ret := &URI{scheme: parsed.Scheme}
	host := parsed.Host
	if host == "" {
		host = parsed.Opaque
	}
	if host == "" {
		host = parsed.Path
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		host = h
		if port, err := strconv.ParseUint(p, 10, 16); err == nil {
			ret.port = uint16(port)
		}
	}

	if idx := strings.IndexByte(host, '%'); idx >= 0 {
		ret.zone = host[idx+1:]
		host = host[:idx]
	}

	ret.host = host
	ret.Canonize()
	return ret
}

// MakeNullFaceURI returns the URI used by the null transport, which drops
// every packet sent to it.
func MakeNullFaceURI() *URI {
	return &URI{scheme: "null", canonical: true}
}

// MakeWebSocketClientFaceURI builds a "ws" URI describing a remote
// WebSocket client, parsed from its resolved network address.
func MakeWebSocketClientFaceURI(addr net.Addr) *URI {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return &URI{scheme: "ws", canonical: true}
	}
	port, _ := strconv.ParseUint(portStr, 10, 16)
	return &URI{scheme: "ws", host: host, port: uint16(port), canonical: true}
}

// MakeWebSocketServerFaceURI builds the local-side URI ("ws" or "wss") for
// a WebSocket listener, given the configured server URL.
func MakeWebSocketServerFaceURI(u *url.URL) *URI {
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		host = u.Host
	}
	port, _ := strconv.ParseUint(portStr, 10, 16)
	scheme := u.Scheme
	if scheme == "" {
		scheme = "ws"
	}
	return &URI{scheme: scheme, host: host, port: uint16(port), canonical: true}
}

// MakeQuicFaceURI builds a "quic" URI from a resolved QUIC/HTTP3 endpoint.
func MakeQuicFaceURI(addr netip.AddrPort) *URI {
	return &URI{
		scheme:    "quic",
		host:      addr.Addr().String(),
		port:      addr.Port(),
		canonical: true,
	}
}
