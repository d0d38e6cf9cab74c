// Package spec_2022 implements the application-facing NDN Packet Format
// 0.3 Interest and Data codec: the generic object model callers build and
// parse full packets with, as distinct from fw/defn's flattened
// forwarder-internal representation.
package spec_2022

import (
	"crypto/sha256"
	"errors"
	"time"

	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// ErrInvalidPacket is returned when a wire cannot be parsed as a
// recognized Interest or Data packet.
var ErrInvalidPacket = errors.New("spec_2022: invalid packet")

// TLV-TYPE numbers for NDN Packet Format 0.3, as assigned by the NDN
// TLV-TYPE number registry.
const (
	typeInterest enc.TLNum = 0x05
	typeData     enc.TLNum = 0x06

	typeCanBePrefix    enc.TLNum = 0x21
	typeMustBeFresh    enc.TLNum = 0x12
	typeForwardingHint enc.TLNum = 0x1e
	typeNonce          enc.TLNum = 0x0a
	typeInterestLife   enc.TLNum = 0x0c
	typeHopLimit       enc.TLNum = 0x22
	typeAppParameters  enc.TLNum = 0x24

	typeMetaInfo     enc.TLNum = 0x14
	typeContent      enc.TLNum = 0x15
	typeSigInfo      enc.TLNum = 0x16
	typeSigValue     enc.TLNum = 0x17
	typeContentType  enc.TLNum = 0x18
	typeFreshnessPer enc.TLNum = 0x19
	typeFinalBlockID enc.TLNum = 0x1a
	typeSignatureType enc.TLNum = 0x1b
)

// SignatureType identifies how a Data or signed Interest is signed.
type SignatureType uint64

const (
	SignatureDigestSha256    SignatureType = 0
	SignatureSha256WithRsa   SignatureType = 1
	SignatureSha256WithEcdsa SignatureType = 3
)

// DataOpts carries the optional MetaInfo fields a caller may set on a
// Data packet built with MakeData.
type DataOpts struct {
	ContentType  optional.Optional[uint64]
	Freshness    optional.Optional[time.Duration]
	FinalBlockID optional.Optional[enc.Component]
}

// Data is the generic, application-facing representation of a parsed or
// to-be-encoded Data packet.
type Data struct {
	NameV         enc.Name
	ContentTypeV  optional.Optional[uint64]
	FreshnessV    optional.Optional[time.Duration]
	FinalBlockIDV optional.Optional[enc.Component]
	ContentV      enc.Wire
	SigTypeV      SignatureType
}

// InterestOpts carries the optional fields a caller may set on an
// Interest built with MakeInterest.
type InterestOpts struct {
	CanBePrefix      bool
	MustBeFresh      bool
	ForwardingHint   enc.Name
	Nonce            optional.Optional[uint32]
	Lifetime         optional.Optional[time.Duration]
	HopLimit         optional.Optional[uint8]
}

// Interest is the generic, application-facing representation of a parsed
// or to-be-encoded Interest packet.
type Interest struct {
	NameV    enc.Name
	Wire     enc.Wire
	AppParam enc.Wire
	InterestOpts
}

// Spec implements the NDN Packet Format 0.3 codec. It holds no state; its
// methods are namespaced under a value receiver purely for call-site
// symmetry with other NDN libraries (spec.Spec{}.ReadData(...)).
type Spec struct{}

// MakeData builds and signs (with an implicit SHA-256 digest) a Data
// packet named name, carrying content and the MetaInfo fields in opts.
func (Spec) MakeData(name enc.Name, opts DataOpts, content enc.Wire) (*Data, enc.Wire, error) {
	d := &Data{
		NameV:         name,
		ContentTypeV:  opts.ContentType,
		FreshnessV:    opts.Freshness,
		FinalBlockIDV: opts.FinalBlockID,
		ContentV:      content,
		SigTypeV:      SignatureDigestSha256,
	}
	wire := encodeData(d)
	return d, wire, nil
}

// MakeInterest builds an Interest packet named name with the given opts.
func (Spec) MakeInterest(name enc.Name, opts InterestOpts, appParam enc.Wire) (*Interest, error) {
	i := &Interest{NameV: name, AppParam: appParam, InterestOpts: opts}
	i.Wire = encodeInterest(i)
	return i, nil
}

// ReadData parses a Data packet out of r, returning the parsed object and
// the wire it covers (for re-sending without re-encoding).
func (Spec) ReadData(r enc.WireView) (*Data, enc.Wire, error) {
	start := r
	typ, err := r.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	if typ != typeData {
		return nil, nil, ErrInvalidPacket
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	body := r.Delegate(int(length))

	d := &Data{}
	name, err := readTLName(&body)
	if err != nil {
		return nil, nil, err
	}
	d.NameV = name

	for !body.IsEOF() {
		fTyp, err := body.ReadTLNum()
		if err != nil {
			return nil, nil, err
		}
		fLen, err := body.ReadTLNum()
		if err != nil {
			return nil, nil, err
		}
		field := body.Delegate(int(fLen))

		switch fTyp {
		case typeMetaInfo:
			if err := readMetaInfo(&field, d); err != nil {
				return nil, nil, err
			}
		case typeContent:
			wire, err := field.ReadWire(int(fLen))
			if err != nil {
				return nil, nil, err
			}
			d.ContentV = wire
		case typeSigInfo:
			sigTyp, err := readSigInfoType(&field)
			if err != nil {
				return nil, nil, err
			}
			d.SigTypeV = sigTyp
		}
	}

	covered, err := readWireCovering(start, int(length)+typ.EncodingLength()+enc.Nat(length).EncodingLength())
	if err != nil {
		return d, nil, nil
	}
	return d, covered, nil
}

// ReadInterest parses an Interest packet out of r.
func (Spec) ReadInterest(r enc.WireView) (*Interest, enc.Wire, error) {
	start := r
	typ, err := r.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	if typ != typeInterest {
		return nil, nil, ErrInvalidPacket
	}
	length, err := r.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	body := r.Delegate(int(length))

	i := &Interest{}
	name, err := readTLName(&body)
	if err != nil {
		return nil, nil, err
	}
	i.NameV = name

	for !body.IsEOF() {
		fTyp, err := body.ReadTLNum()
		if err != nil {
			return nil, nil, err
		}
		fLen, err := body.ReadTLNum()
		if err != nil {
			return nil, nil, err
		}
		field := body.Delegate(int(fLen))

		switch fTyp {
		case typeCanBePrefix:
			i.CanBePrefix = true
		case typeMustBeFresh:
			i.MustBeFresh = true
		case typeForwardingHint:
			hint, err := field.ReadName()
			if err != nil {
				return nil, nil, err
			}
			i.ForwardingHint = hint
		case typeNonce:
			buf, err := field.ReadBuf(int(fLen))
			if err != nil {
				return nil, nil, err
			}
			if len(buf) == 4 {
				i.Nonce = optional.Some(uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]))
			}
		case typeInterestLife:
			v, err := readNat(&field, int(fLen))
			if err != nil {
				return nil, nil, err
			}
			i.Lifetime = optional.Some(time.Duration(v) * time.Millisecond)
		case typeHopLimit:
			b, err := field.ReadByte()
			if err != nil {
				return nil, nil, err
			}
			i.HopLimit = optional.Some(b)
		case typeAppParameters:
			wire, err := field.ReadWire(int(fLen))
			if err != nil {
				return nil, nil, err
			}
			i.AppParam = wire
		}
	}

	covered, err := readWireCovering(start, int(length)+typ.EncodingLength()+enc.Nat(length).EncodingLength())
	if err != nil {
		return i, nil, nil
	}
	i.Wire = covered
	return i, covered, nil
}

func readMetaInfo(r *enc.WireView, d *Data) error {
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
		case typeContentType:
			v, err := readNat(&field, int(length))
			if err != nil {
				return err
			}
			d.ContentTypeV = optional.Some(v)
		case typeFreshnessPer:
			v, err := readNat(&field, int(length))
			if err != nil {
				return err
			}
			d.FreshnessV = optional.Some(time.Duration(v) * time.Millisecond)
		case typeFinalBlockID:
			comp, err := field.ReadComponent()
			if err != nil {
				return err
			}
			d.FinalBlockIDV = optional.Some(comp)
		}
	}
	return nil
}

func readSigInfoType(r *enc.WireView) (SignatureType, error) {
	for !r.IsEOF() {
		typ, err := r.ReadTLNum()
		if err != nil {
			return 0, err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return 0, err
		}
		field := r.Delegate(int(length))
		if typ == typeSignatureType {
			v, err := readNat(&field, int(length))
			if err != nil {
				return 0, err
			}
			return SignatureType(v), nil
		}
	}
	return SignatureDigestSha256, nil
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
	v, _, err := enc.ParseNat(buf)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// readWireCovering re-reads size bytes from a WireView positioned at the
// start of a TLV, returning the exact Wire slice(s) it spans so callers
// can relay the packet without re-encoding it.
func readWireCovering(r enc.WireView, size int) (enc.Wire, error) {
	return r.ReadWire(size)
}

type field struct {
	typ enc.TLNum
	val []byte
}

func nameBytes(n enc.Name) []byte {
	buf := make(enc.Buffer, n.EncodingLength())
	n.EncodeInto(buf)
	return buf
}

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

// encodeData serializes d, appending a SignatureInfo/SignatureValue pair
// carrying an implicit SHA-256 digest over the Name/MetaInfo/Content.
func encodeData(d *Data) enc.Wire {
	var meta []field
	if ct, ok := d.ContentTypeV.Get(); ok {
		meta = append(meta, field{typeContentType, enc.Nat(ct).Bytes()})
	}
	if fresh, ok := d.FreshnessV.Get(); ok {
		meta = append(meta, field{typeFreshnessPer, enc.Nat(fresh.Milliseconds()).Bytes()})
	}
	if fbi, ok := d.FinalBlockIDV.Get(); ok {
		meta = append(meta, field{typeFinalBlockID, fbi.Bytes()})
	}

	sigInfo := encodeTLV(0, []field{{typeSignatureType, enc.Nat(SignatureDigestSha256).Bytes()}}).Join()

	unsigned := []field{{enc.TypeName, nameBytes(d.NameV)}}
	if len(meta) > 0 {
		unsigned = append(unsigned, field{typeMetaInfo, encodeTLV(0, meta).Join()})
	}
	if d.ContentV != nil {
		unsigned = append(unsigned, field{typeContent, d.ContentV.Join()})
	}
	unsigned = append(unsigned, field{typeSigInfo, sigInfo})

	h := sha256.New()
	h.Write(encodeTLV(0, unsigned).Join())
	digest := h.Sum(nil)

	fields := append(unsigned, field{typeSigValue, digest})
	return encodeTLV(typeData, fields)
}

func encodeInterest(i *Interest) enc.Wire {
	var fields []field
	fields = append(fields, field{enc.TypeName, nameBytes(i.NameV)})
	if i.CanBePrefix {
		fields = append(fields, field{typeCanBePrefix, nil})
	}
	if i.MustBeFresh {
		fields = append(fields, field{typeMustBeFresh, nil})
	}
	if len(i.ForwardingHint) > 0 {
		fields = append(fields, field{typeForwardingHint, nameBytes(i.ForwardingHint)})
	}
	if nonce, ok := i.Nonce.Get(); ok {
		fields = append(fields, field{typeNonce, []byte{byte(nonce >> 24), byte(nonce >> 16), byte(nonce >> 8), byte(nonce)}})
	}
	if life, ok := i.Lifetime.Get(); ok {
		fields = append(fields, field{typeInterestLife, enc.Nat(life.Milliseconds()).Bytes()})
	}
	if hl, ok := i.HopLimit.Get(); ok {
		fields = append(fields, field{typeHopLimit, []byte{hl}})
	}
	if i.AppParam != nil {
		fields = append(fields, field{typeAppParameters, i.AppParam.Join()})
	}
	return encodeTLV(typeInterest, fields)
}
