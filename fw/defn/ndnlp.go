package defn

import enc "github.com/nfdgo/ndnd/std/encoding"

// TLV type numbers for the NDNLPv2 link-layer framing used to carry NDN
// packets (with fragmentation and link-layer fields) over unreliable or
// MTU-bounded transports.
const (
	TypeLpPacket        enc.TLNum = 0x64
	TypeLpFragment      enc.TLNum = 0x50
	TypeLpSequence      enc.TLNum = 0x51
	TypeLpFragIndex     enc.TLNum = 0x52
	TypeLpFragCount     enc.TLNum = 0x53
	TypeLpPitToken      enc.TLNum = 0x62
	TypeLpNack          enc.TLNum = 0x0320
	TypeLpNackReason    enc.TLNum = 0x0321
	TypeLpNextHopFaceId enc.TLNum = 0x0330
	TypeLpCachePolicy   enc.TLNum = 0x0334
	TypeLpIncomingFaceId enc.TLNum = 0x032c
	TypeLpCongestionMark enc.TLNum = 0x0340
)
