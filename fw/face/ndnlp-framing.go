package face

import (
	defn "github.com/nfdgo/ndnd/fw/defn"
	enc "github.com/nfdgo/ndnd/std/encoding"
)

// lpOverhead is a conservative estimate of the NDNLP header size added
// around a fragment, subtracted from the MTU when deciding fragment
// sizes so the resulting frame never exceeds it.
const lpOverhead = 32

// lpField is a single already-value-encoded TLV field of an LpPacket.
type lpField struct {
	typ enc.TLNum
	val []byte
}

// encodeLpTLV packs fields into a TLV of type typ; typ of zero encodes
// only the concatenated fields, for building a nested block like LpNack.
func encodeLpTLV(typ enc.TLNum, fields []lpField) []byte {
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
		return buf
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
	return buf
}

// wrapLpPacket wraps payload (a full network-layer packet, or one
// fragment of one) in an NDNLPv2 LpPacket TLV. The sequence number and
// fragmentation indices are written only when fragCount > 1; an
// unfragmented packet carries none of them. reason is NackReasonNone
// unless the payload is the Interest being Nacked.
func wrapLpPacket(payload []byte, seq uint64, fragCount, fragIndex int, reason defn.NackReason) []byte {
	var fields []lpField

	if fragCount > 1 {
		fields = append(fields, lpField{defn.TypeLpSequence, natBytes(seq)})
		fields = append(fields, lpField{defn.TypeLpFragIndex, natBytes(uint64(fragIndex))})
		fields = append(fields, lpField{defn.TypeLpFragCount, natBytes(uint64(fragCount))})
	}
	if reason != defn.NackReasonNone {
		nack := encodeLpTLV(0, []lpField{{defn.TypeLpNackReason, natBytes(uint64(reason))}})
		fields = append(fields, lpField{defn.TypeLpNack, nack})
	}
	fields = append(fields, lpField{defn.TypeLpFragment, payload})

	return encodeLpTLV(defn.TypeLpPacket, fields)
}

// unwrapLpPacket parses an NDNLPv2 LpPacket frame, returning its fragment
// payload, sequence/fragmentation indices, and Nack reason (NackReasonNone
// if the frame carries no Nack field). ok is false if frame is not an
// LpPacket at all.
func unwrapLpPacket(frame []byte) (payload []byte, seq uint64, fragIndex, fragCount int, reason defn.NackReason, ok bool) {
	r := enc.NewWireView(enc.Wire{frame})
	typ, err := r.ReadTLNum()
	if err != nil || typ != defn.TypeLpPacket {
		return nil, 0, 0, 0, defn.NackReasonNone, false
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, 0, 0, 0, defn.NackReasonNone, false
	}
	body := r.Delegate(int(length))

	fragCount = 1
	for !body.IsEOF() {
		fTyp, err := body.ReadTLNum()
		if err != nil {
			return nil, 0, 0, 0, defn.NackReasonNone, false
		}
		fLen, err := body.ReadTLNum()
		if err != nil {
			return nil, 0, 0, 0, defn.NackReasonNone, false
		}
		fieldView := body.Delegate(int(fLen))

		switch fTyp {
		case defn.TypeLpSequence:
			seq, _ = readNatFromView(&fieldView, int(fLen))
		case defn.TypeLpFragIndex:
			v, _ := readNatFromView(&fieldView, int(fLen))
			fragIndex = int(v)
		case defn.TypeLpFragCount:
			v, _ := readNatFromView(&fieldView, int(fLen))
			fragCount = int(v)
		case defn.TypeLpNack:
			reason = readLpNackReason(&fieldView)
		case defn.TypeLpFragment:
			buf, err := fieldView.ReadBuf(int(fLen))
			if err != nil {
				return nil, 0, 0, 0, defn.NackReasonNone, false
			}
			payload = buf
		}
	}

	return payload, seq, fragIndex, fragCount, reason, true
}

func readLpNackReason(r *enc.WireView) defn.NackReason {
	for !r.IsEOF() {
		typ, err := r.ReadTLNum()
		if err != nil {
			return defn.NackReasonNone
		}
		l, err := r.ReadTLNum()
		if err != nil {
			return defn.NackReasonNone
		}
		inner := r.Delegate(int(l))
		if typ == defn.TypeLpNackReason {
			v, _ := readNatFromView(&inner, int(l))
			return defn.NackReason(v)
		}
	}
	return defn.NackReasonNone
}

func readNatFromView(r *enc.WireView, length int) (uint64, error) {
	buf, err := r.ReadBuf(length)
	if err != nil {
		return 0, err
	}
	nat, _, err := enc.ParseNat(buf)
	return uint64(nat), err
}

func natBytes(v uint64) []byte {
	return enc.Nat(v).Bytes()
}
