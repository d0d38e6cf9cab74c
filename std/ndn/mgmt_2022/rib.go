package mgmt_2022

import (
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// Route is a single RIB registration as reported on the management
// surface: distinct from table.Route, which additionally tracks its own
// absolute expiry time for eviction.
type Route struct {
	FaceId           uint64
	Origin           uint64
	Cost             uint64
	Flags            uint64
	ExpirationPeriod optional.Optional[uint64]
}

func (r *Route) encode() field {
	fields := []field{
		{TypeFaceId, nat(r.FaceId)},
		{TypeOrigin, nat(r.Origin)},
		{TypeCost, nat(r.Cost)},
		{TypeFlags, nat(r.Flags)},
	}
	if v, ok := r.ExpirationPeriod.Get(); ok {
		fields = append(fields, field{TypeExpirationPeriod, nat(v)})
	}
	return field{typeRoute, encodeTLV(0, fields).Join()}
}

// RibEntry is every route registered under a single name prefix.
type RibEntry struct {
	Name   enc.Name
	Routes []*Route
}

func (e *RibEntry) encode() field {
	fields := []field{{enc.TypeName, nameBytes(e.Name)}}
	for _, r := range e.Routes {
		fields = append(fields, r.encode())
	}
	return field{typeRibEntry, encodeTLV(0, fields).Join()}
}

// RibStatus is the /localhost/nfd/rib/list dataset.
type RibStatus struct {
	Entries []*RibEntry
}

// Encode serializes s as a sequence of RibEntry TLVs.
func (s *RibStatus) Encode() enc.Wire {
	var fields []field
	for _, e := range s.Entries {
		fields = append(fields, e.encode())
	}
	return encodeTLV(0, fields)
}
