package mgmt_2022

import (
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// NextHopRecord is one FIB next hop: the face it points to and its cost.
type NextHopRecord struct {
	FaceId uint64
	Cost   uint64
}

func (n *NextHopRecord) encode() field {
	return field{typeNextHopRecord, encodeTLV(0, []field{
		{TypeFaceId, nat(n.FaceId)},
		{TypeCost, nat(n.Cost)},
	}).Join()}
}

// FibEntry is a single FIB row: a name prefix and its next hops.
type FibEntry struct {
	Name           enc.Name
	NextHopRecords []*NextHopRecord
}

func (e *FibEntry) encode() field {
	fields := []field{{enc.TypeName, nameBytes(e.Name)}}
	for _, nh := range e.NextHopRecords {
		fields = append(fields, nh.encode())
	}
	return field{typeFibEntry, encodeTLV(0, fields).Join()}
}

// FibStatus is the /localhost/nfd/fib/list dataset.
type FibStatus struct {
	Entries []*FibEntry
}

// Encode serializes s into a sequence of FibEntry TLVs, NFD's convention
// for list datasets (no enclosing container TLV).
func (s *FibStatus) Encode() enc.Wire {
	var fields []field
	for _, e := range s.Entries {
		fields = append(fields, e.encode())
	}
	return encodeTLV(0, fields)
}
