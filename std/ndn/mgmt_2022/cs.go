package mgmt_2022

import enc "github.com/nfdgo/ndnd/std/encoding"

// CsEnableAdmit and CsEnableServe are the bits of a CS Flags/Mask value
// controlling whether the Content Store admits new Data and serves
// cache hits, respectively.
const (
	CsEnableAdmit uint64 = 1 << 0
	CsEnableServe uint64 = 1 << 1
)

// CsInfo is the body of the /localhost/nfd/cs/info dataset: the Content
// Store's configured capacity and flags, plus aggregate hit/miss counts.
type CsInfo struct {
	Capacity   uint64
	Flags      uint64
	NCsEntries uint64
	NHits      uint64
	NMisses    uint64
}

func (c *CsInfo) encode() field {
	return field{typeCsInfo, encodeTLV(0, []field{
		{TypeCapacity, nat(c.Capacity)},
		{TypeFlags, nat(c.Flags)},
		{typeNCsEntries, nat(c.NCsEntries)},
		{typeNHits, nat(c.NHits)},
		{typeNMisses, nat(c.NMisses)},
	}).Join()}
}

// CsInfoMsg wraps the CsInfo dataset body.
type CsInfoMsg struct {
	CsInfo *CsInfo
}

// Encode serializes m.
func (m *CsInfoMsg) Encode() enc.Wire {
	if m.CsInfo == nil {
		return nil
	}
	return encodeTLV(0, []field{m.CsInfo.encode()})
}
