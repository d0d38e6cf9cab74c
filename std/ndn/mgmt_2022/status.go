package mgmt_2022

import (
	"time"

	enc "github.com/nfdgo/ndnd/std/encoding"
)

// GeneralStatus is the /localhost/nfd/status/general dataset: a snapshot
// of the forwarder's identity and aggregate traffic counters.
type GeneralStatus struct {
	NfdVersion            string
	StartTimestamp        time.Duration
	CurrentTimestamp      time.Duration
	NFibEntries           uint64
	NPitEntries           uint64
	NCsEntries            uint64
	NInInterests          uint64
	NInData               uint64
	NInNacks              uint64
	NOutInterests         uint64
	NOutData              uint64
	NOutNacks             uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
}

// Encode serializes s into a GeneralStatus TLV.
func (s *GeneralStatus) Encode() enc.Wire {
	fields := []field{
		{typeNfdVersion, []byte(s.NfdVersion)},
		{typeStartTimestamp, nat(uint64(s.StartTimestamp.Milliseconds()))},
		{typeCurrentTimestamp, nat(uint64(s.CurrentTimestamp.Milliseconds()))},
		{typeNFibEntries, nat(s.NFibEntries)},
		{typeNPitEntries, nat(s.NPitEntries)},
		{typeNCsEntries, nat(s.NCsEntries)},
		{typeNInInterests, nat(s.NInInterests)},
		{typeNInData, nat(s.NInData)},
		{typeNInNacks, nat(s.NInNacks)},
		{typeNOutInterests, nat(s.NOutInterests)},
		{typeNOutData, nat(s.NOutData)},
		{typeNOutNacks, nat(s.NOutNacks)},
		{typeNSatisfiedInterests, nat(s.NSatisfiedInterests)},
		{typeNUnsatisfiedInterests, nat(s.NUnsatisfiedInterests)},
	}
	return encodeTLV(typeGeneralStatus, fields)
}
