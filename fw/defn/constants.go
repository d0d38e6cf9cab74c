package defn

import enc "github.com/nfdgo/ndnd/std/encoding"

// TLV type numbers for the NDN network layer packet format (Interest, Data,
// and the fields nested inside them). These follow the NDN Packet Format
// v0.3 TLV-TYPE registry.
const (
	TypeInterest enc.TLNum = 0x05
	TypeData     enc.TLNum = 0x06

	TypeCanBePrefix    enc.TLNum = 0x21
	TypeMustBeFresh    enc.TLNum = 0x12
	TypeForwardingHint enc.TLNum = 0x1e
	TypeNonce          enc.TLNum = 0x0a
	TypeInterestLife   enc.TLNum = 0x0c
	TypeHopLimit       enc.TLNum = 0x22
	TypeAppParameters  enc.TLNum = 0x24
	TypeISigInfo       enc.TLNum = 0x2c
	TypeISigValue      enc.TLNum = 0x2e

	TypeMetaInfo       enc.TLNum = 0x14
	TypeContent        enc.TLNum = 0x15
	TypeSigInfo        enc.TLNum = 0x16
	TypeSigValue       enc.TLNum = 0x17
	TypeContentType    enc.TLNum = 0x18
	TypeFreshnessPer   enc.TLNum = 0x19
	TypeFinalBlockID   enc.TLNum = 0x1a
	TypeSignatureType  enc.TLNum = 0x1b
	TypeKeyLocator     enc.TLNum = 0x1c
	TypeKeyDigest      enc.TLNum = 0x1d
)

// MaxNDNPacketSize is the largest network-layer packet the forwarder will
// accept or construct, matching the conventional NDN MTU ceiling.
const MaxNDNPacketSize = 8800

// MaxNameLength bounds the number of components in a name the forwarder
// will process, guarding the name tree against pathological inputs.
const MaxNameLength = 32

// DefaultInterestLifetimeMs is the lifetime, in milliseconds, applied when
// an Interest carries no explicit InterestLifetime field.
const DefaultInterestLifetimeMs = uint64(4000)

// NackReason enumerates why an Interest could not be satisfied, mirrored on
// the wire as the reason code carried alongside the Nacked Interest.
type NackReason uint64

const (
	NackReasonNone        NackReason = 0
	NackReasonCongestion  NackReason = 50
	NackReasonDuplicate   NackReason = 100
	NackReasonNoRoute     NackReason = 150
)
