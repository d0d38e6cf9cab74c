package defn

import (
	"errors"
	"time"

	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// ErrInvalidPacket is returned when a wire cannot be parsed as a
// recognized Interest, Data, or Nack.
var ErrInvalidPacket = errors.New("invalid NDN packet")

// FwInterest holds the subset of an Interest's fields the forwarder acts
// on. It is deliberately flatter than a full application-level Interest:
// the forwarder never needs to inspect application parameters or
// signature bits, only route and match on them.
type FwInterest struct {
	NameV             enc.Name
	CanBePrefixV      bool
	MustBeFreshV      bool
	ForwardingHintV   enc.Name
	NonceV            optional.Optional[uint32]
	InterestLifetimeV optional.Optional[time.Duration]
	HopLimitV         optional.Optional[uint8]
	AppParamV         enc.Wire
}

// FwData holds the subset of a Data packet's fields the forwarder acts on.
type FwData struct {
	NameV        enc.Name
	ContentTypeV optional.Optional[uint64]
	FreshnessV   optional.Optional[time.Duration]
	FinalBlockIDV optional.Optional[enc.Component]
	ContentV     enc.Wire
}

// FwNack wraps the Interest it negatively acknowledges together with the
// reason it could not be satisfied.
type FwNack struct {
	InterestV *FwInterest
	ReasonV   NackReason
}

// L3Pkt is a tagged union over the three network-layer packet kinds the
// forwarder dispatches on.
type L3Pkt struct {
	Interest *FwInterest
	Data     *FwData
	Nack     *FwNack
}

// Pkt is a parsed network-layer packet together with the raw wire it was
// read from, kept around so it can be relayed without re-encoding.
type Pkt struct {
	Name enc.Name
	L3   L3Pkt
	Raw  enc.Wire
}

// ReadPacket parses an Interest or Data TLV block into a Pkt; any other
// TLV type yields ErrInvalidPacket. Nack reasons are not parsed here: they
// travel in the NDNLP header and are attached by the link service.
func ReadPacket(wire enc.Wire) (*Pkt, error) {
	r := enc.NewWireView(wire)
	typ, err := r.ReadTLNum()
	if err != nil {
		return nil, err
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, err
	}
	body := r.Delegate(int(length))

	switch typ {
	case TypeInterest:
		interest, err := readInterest(&body)
		if err != nil {
			return nil, err
		}
		return &Pkt{Name: interest.NameV, L3: L3Pkt{Interest: interest}, Raw: wire}, nil
	case TypeData:
		data, err := readData(&body)
		if err != nil {
			return nil, err
		}
		return &Pkt{Name: data.NameV, L3: L3Pkt{Data: data}, Raw: wire}, nil
	default:
		return nil, ErrInvalidPacket
	}
}

func readInterest(r *enc.WireView) (*FwInterest, error) {
	ret := &FwInterest{}
	name, err := readTLName(r)
	if err != nil {
		return nil, err
	}
	ret.NameV = name

	for !r.IsEOF() {
		typ, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		field := r.Delegate(int(length))

		switch typ {
		case TypeCanBePrefix:
			ret.CanBePrefixV = true
		case TypeMustBeFresh:
			ret.MustBeFreshV = true
		case TypeForwardingHint:
			hint, err := field.ReadName()
			if err != nil {
				return nil, err
			}
			ret.ForwardingHintV = hint
		case TypeNonce:
			buf, err := field.ReadBuf(int(length))
			if err != nil {
				return nil, err
			}
			if nonce, ok := ConvertNonceBytes(buf); ok {
				ret.NonceV = optional.Some(nonce)
			}
		case TypeInterestLife:
			ms, err := readNat(&field, int(length))
			if err != nil {
				return nil, err
			}
			ret.InterestLifetimeV = optional.Some(time.Duration(ms) * time.Millisecond)
		case TypeHopLimit:
			b, err := field.ReadByte()
			if err != nil {
				return nil, err
			}
			ret.HopLimitV = optional.Some(b)
		case TypeAppParameters:
			wire, err := field.ReadWire(int(length))
			if err != nil {
				return nil, err
			}
			ret.AppParamV = wire
		}
	}

	return ret, nil
}

func readData(r *enc.WireView) (*FwData, error) {
	ret := &FwData{}
	name, err := readTLName(r)
	if err != nil {
		return nil, err
	}
	ret.NameV = name

	for !r.IsEOF() {
		typ, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		field := r.Delegate(int(length))

		switch typ {
		case TypeMetaInfo:
			if err := readMetaInfo(&field, ret); err != nil {
				return nil, err
			}
		case TypeContent:
			wire, err := field.ReadWire(int(length))
			if err != nil {
				return nil, err
			}
			ret.ContentV = wire
		}
	}

	return ret, nil
}

func readMetaInfo(r *enc.WireView, data *FwData) error {
	for !r.IsEOF() {
		typ, err := r.ReadTLNum()
		if err != nil {
			return err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return err
		}
		field := r.Delegate(int(length))

		switch typ {
		case TypeContentType:
			v, err := readNat(&field, int(length))
			if err != nil {
				return err
			}
			data.ContentTypeV = optional.Some(v)
		case TypeFreshnessPer:
			v, err := readNat(&field, int(length))
			if err != nil {
				return err
			}
			data.FreshnessV = optional.Some(time.Duration(v) * time.Millisecond)
		case TypeFinalBlockID:
			comp, err := field.ReadComponent()
			if err != nil {
				return err
			}
			data.FinalBlockIDV = optional.Some(comp)
		}
	}
	return nil
}

func readTLName(r *enc.WireView) (enc.Name, error) {
	typ, err := r.ReadTLNum()
	if err != nil {
		return nil, err
	}
	if typ != enc.TypeName {
		return nil, ErrInvalidPacket
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, err
	}
	field := r.Delegate(int(length))
	return field.ReadName()
}

func readNat(r *enc.WireView, length int) (uint64, error) {
	buf, err := r.ReadBuf(length)
	if err != nil {
		return 0, err
	}
	nat, _, err := enc.ParseNat(buf)
	if err != nil {
		return 0, err
	}
	return uint64(nat), nil
}

// ConvertNonceBytes converts a 4-byte Nonce TLV value into a uint32, as
// with utils.ConvertNonce but operating directly on a decoded buffer.
func ConvertNonceBytes(b []byte) (uint32, bool) {
	if len(b) != 4 {
		return 0, false
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), true
}

// EncodeInterest serializes an Interest back into wire format. It is used
// when the forwarder must rewrite an Interest before retransmitting it,
// e.g. to decrement HopLimit.
func EncodeInterest(i *FwInterest) enc.Wire {
	var fields []field
	fields = append(fields, nameField(i.NameV))
	if i.CanBePrefixV {
		fields = append(fields, field{TypeCanBePrefix, nil})
	}
	if i.MustBeFreshV {
		fields = append(fields, field{TypeMustBeFresh, nil})
	}
	if len(i.ForwardingHintV) > 0 {
		fields = append(fields, field{TypeForwardingHint, nameBytes(i.ForwardingHintV)})
	}
	if nonce, ok := i.NonceV.Get(); ok {
		fields = append(fields, field{TypeNonce, nonceBytes(nonce)})
	}
	if life, ok := i.InterestLifetimeV.Get(); ok {
		fields = append(fields, field{TypeInterestLife, enc.Nat(life.Milliseconds()).Bytes()})
	}
	if hl, ok := i.HopLimitV.Get(); ok {
		fields = append(fields, field{TypeHopLimit, []byte{hl}})
	}
	if i.AppParamV != nil {
		fields = append(fields, field{TypeAppParameters, i.AppParamV.Join()})
	}
	return encodeTLV(TypeInterest, fields)
}

// EncodePacket serializes whichever of pkt.L3's variants is set. Nacks
// carry no network-layer TLV of their own: callers send them by wrapping
// the Nacked Interest's encoding in an NDNLP Nack field at the link
// layer, so EncodePacket here encodes the wrapped Interest.
func EncodePacket(pkt *Pkt) enc.Wire {
	switch {
	case pkt.L3.Nack != nil:
		return EncodeInterest(pkt.L3.Nack.InterestV)
	case pkt.L3.Interest != nil:
		return EncodeInterest(pkt.L3.Interest)
	case pkt.L3.Data != nil:
		return EncodeData(pkt.L3.Data)
	default:
		return nil
	}
}

// EncodeData serializes a Data packet back into wire format.
func EncodeData(d *FwData) enc.Wire {
	var meta []field
	if ct, ok := d.ContentTypeV.Get(); ok {
		meta = append(meta, field{TypeContentType, enc.Nat(ct).Bytes()})
	}
	if fresh, ok := d.FreshnessV.Get(); ok {
		meta = append(meta, field{TypeFreshnessPer, enc.Nat(fresh.Milliseconds()).Bytes()})
	}
	if fbi, ok := d.FinalBlockIDV.Get(); ok {
		meta = append(meta, field{TypeFinalBlockID, fbi.Bytes()})
	}

	var fields []field
	fields = append(fields, nameField(d.NameV))
	if len(meta) > 0 {
		fields = append(fields, field{TypeMetaInfo, encodeTLV(0, meta).Join()})
	}
	if d.ContentV != nil {
		fields = append(fields, field{TypeContent, d.ContentV.Join()})
	}
	return encodeTLV(TypeData, fields)
}

type field struct {
	typ enc.TLNum
	val []byte
}

func nameField(n enc.Name) field {
	return field{enc.TypeName, nameBytes(n)}
}

func nameBytes(n enc.Name) []byte {
	buf := make(enc.Buffer, n.EncodingLength())
	n.EncodeInto(buf)
	return buf
}

func nonceBytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// encodeTLV packs a list of already-value-encoded fields into a single
// TLV; if typ is zero, only the concatenated fields are returned (used to
// build nested blocks like MetaInfo whose own T and L are added by the
// caller).
func encodeTLV(typ enc.TLNum, fields []field) enc.Wire {
	valLen := 0
	for _, f := range fields {
		if f.val == nil {
			valLen += f.typ.EncodingLength() + enc.Nat(0).EncodingLength()
			continue
		}
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
