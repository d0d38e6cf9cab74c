package mgmt_2022

import (
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// TLV-TYPE numbers for the NFD Management protocol's ControlParameters
// and ControlResponse, and for the status datasets each module exposes.
const (
	TypeControlParameters = 104
	TypeFaceId             = 105
	TypeCost               = 106
	TypeStrategy           = 107
	TypeFlags              = 108
	TypeExpirationPeriod   = 109
	TypeOrigin             = 111
	TypeMask               = 112
	TypeUri                = 114
	TypeCapacity           = 131

	TypeControlResponse = 101
	TypeStatusCode      = 102
	TypeStatusText      = 103

	typeGeneralStatus         = 200
	typeNfdVersion            = 201
	typeStartTimestamp        = 202
	typeCurrentTimestamp      = 203
	typeNFibEntries           = 204
	typeNPitEntries           = 205
	typeNCsEntries            = 206
	typeNInInterests          = 207
	typeNInData               = 208
	typeNInNacks              = 209
	typeNOutInterests         = 210
	typeNOutData              = 211
	typeNOutNacks             = 212
	typeNSatisfiedInterests   = 213
	typeNUnsatisfiedInterests = 214

	typeFibEntry       = 128
	typeNextHopRecord  = 129

	typeCsInfo     = 132
	typeNHits      = 142
	typeNMisses    = 143

	typeStrategyChoice = 137

	typeRibEntry = 130
	typeRoute    = 139
)

// field is a value-encoded TLV awaiting its own T and L, mirroring the
// small encoder fw/defn uses for network-layer packets; duplicated here
// because that one's helpers are unexported and this package encodes a
// disjoint TLV vocabulary (management, not wire-format Interest/Data).
type field struct {
	typ enc.TLNum
	val []byte
}

func nat(v uint64) []byte { return enc.Nat(v).Bytes() }

func nameBytes(n enc.Name) []byte {
	buf := make(enc.Buffer, n.EncodingLength())
	n.EncodeInto(buf)
	return buf
}

// encodeTLV packs fields into a single TLV block of the given type; typ
// zero returns only the concatenated value bytes, for building containers
// whose own T and L are added by the caller.
func encodeTLV(typ enc.TLNum, fields []field) enc.Wire {
	valLen := 0
	for _, f := range fields {
		valLen += f.typ.EncodingLength() + enc.Nat(len(f.val)).EncodingLength() + len(f.val)
	}

	if typ == 0 {
		buf := make(enc.Buffer, valLen)
		pos := 0
		for _, f := range fields {
			pos += f.typ.EncodeInto(buf[pos:])
			pos += enc.Nat(len(f.val)).EncodeInto(buf[pos:])
			pos += copy(buf[pos:], f.val)
		}
		return enc.Wire{buf}
	}

	total := typ.EncodingLength() + enc.Nat(valLen).EncodingLength() + valLen
	buf := make(enc.Buffer, total)
	pos := typ.EncodeInto(buf)
	pos += enc.Nat(valLen).EncodeInto(buf[pos:])
	for _, f := range fields {
		pos += f.typ.EncodeInto(buf[pos:])
		pos += enc.Nat(len(f.val)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], f.val)
	}
	return enc.Wire{buf}
}

func readNat(r *enc.WireView, length int) (uint64, error) {
	buf, err := r.ReadBuf(length)
	if err != nil {
		return 0, err
	}
	v, _, err := enc.ParseNat(buf)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}
