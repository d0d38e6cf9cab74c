package defn

import enc "github.com/nfdgo/ndnd/std/encoding"

// STRATEGY_PREFIX is the namespace under which forwarding strategies are
// named, e.g. /localhost/nfd/strategy/multicast/%FD%01.
var STRATEGY_PREFIX enc.Name

// LOCALHOST_PREFIX names are only ever legal to forward on or receive from
// a face with Scope() == Local; the pipelines drop them otherwise.
var LOCALHOST_PREFIX enc.Name

func init() {
	STRATEGY_PREFIX, _ = enc.NameFromStr("/localhost/nfd/strategy")
	LOCALHOST_PREFIX, _ = enc.NameFromStr("/localhost")
}

// StrategyName builds the versioned name of a registered forwarding
// strategy, e.g. /localhost/nfd/strategy/multicast/%FD%01.
func StrategyName(name string, version uint64) (enc.Name, error) {
	comp, err := enc.ComponentFromStr(name)
	if err != nil {
		return nil, err
	}
	return STRATEGY_PREFIX.Append(comp, enc.NewVersionComponent(version)), nil
}

// Scope classifies whether a face can only be reached from this host or
// reaches across the network.
type Scope int

const (
	NonLocal Scope = iota
	Local
)

// Returns the human-readable name of the face scope ("non-local" or "local").
func (s Scope) String() string {
	switch s {
	case Local:
		return "local"
	default:
		return "non-local"
	}
}

// LinkType classifies the topology reachable through a face.
type LinkType int

const (
	PointToPoint LinkType = iota
	MultiAccess
	AdHoc
)

// Returns the human-readable name of the link type.
func (l LinkType) String() string {
	switch l {
	case MultiAccess:
		return "multi-access"
	case AdHoc:
		return "ad-hoc"
	default:
		return "point-to-point"
	}
}
