package mgmt_2022

import (
	enc "github.com/nfdgo/ndnd/std/encoding"
	"github.com/nfdgo/ndnd/std/types/optional"
)

// Strategy names the forwarding strategy a ControlParameters selects,
// e.g. /localhost/nfd/strategy/best-route/%FD%01.
type Strategy struct {
	Name enc.Name
}

// ControlArgs is the NFD Management ControlParameters TLV: the union of
// every field any management command (FIB, RIB, Strategy Choice, CS) may
// carry, most of them optional.
type ControlArgs struct {
	Name             enc.Name
	FaceId           optional.Optional[uint64]
	Origin           optional.Optional[uint64]
	Cost             optional.Optional[uint64]
	Flags            optional.Optional[uint64]
	Strategy         *Strategy
	Capacity         optional.Optional[uint64]
	Mask             optional.Optional[uint64]
	ExpirationPeriod optional.Optional[uint64]
}

// Encode serializes a into a ControlParameters TLV.
func (a *ControlArgs) Encode() enc.Wire {
	var fields []field
	if a.Name != nil {
		fields = append(fields, field{enc.TypeName, nameBytes(a.Name)})
	}
	if v, ok := a.FaceId.Get(); ok {
		fields = append(fields, field{TypeFaceId, nat(v)})
	}
	if v, ok := a.Origin.Get(); ok {
		fields = append(fields, field{TypeOrigin, nat(v)})
	}
	if v, ok := a.Cost.Get(); ok {
		fields = append(fields, field{TypeCost, nat(v)})
	}
	if v, ok := a.Flags.Get(); ok {
		fields = append(fields, field{TypeFlags, nat(v)})
	}
	if a.Strategy != nil {
		fields = append(fields, field{TypeStrategy, encodeTLV(0, []field{
			{enc.TypeName, nameBytes(a.Strategy.Name)},
		}).Join()})
	}
	if v, ok := a.Capacity.Get(); ok {
		fields = append(fields, field{TypeCapacity, nat(v)})
	}
	if v, ok := a.Mask.Get(); ok {
		fields = append(fields, field{TypeMask, nat(v)})
	}
	if v, ok := a.ExpirationPeriod.Get(); ok {
		fields = append(fields, field{TypeExpirationPeriod, nat(v)})
	}
	return encodeTLV(TypeControlParameters, fields)
}

// ParseControlParameters decodes a ControlParameters TLV out of r. When
// topLevel is true, r is positioned at the outer T and L; it is parsed
// like a WireView Delegate result (NNTP style), matching the call
// convention of fw/mgmt's decodeControlParameters.
func ParseControlParameters(r enc.WireView, topLevel bool) (*struct{ Val *ControlArgs }, error) {
	if topLevel {
		typ, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		if typ != TypeControlParameters {
			return nil, enc.ErrFormat{Msg: "not a ControlParameters TLV"}
		}
		r = r.Delegate(int(length))
	}

	args := &ControlArgs{}
	for !r.IsEOF() {
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
		case enc.TypeName:
			name, err := body.ReadName()
			if err != nil {
				return nil, err
			}
			args.Name = name
		case TypeFaceId:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.FaceId = optional.Some(v)
		case TypeOrigin:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.Origin = optional.Some(v)
		case TypeCost:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.Cost = optional.Some(v)
		case TypeFlags:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.Flags = optional.Some(v)
		case TypeStrategy:
			nameTyp, err := body.ReadTLNum()
			if err != nil {
				return nil, err
			}
			nameLen, err := body.ReadTLNum()
			if err != nil {
				return nil, err
			}
			if nameTyp != enc.TypeName {
				return nil, enc.ErrFormat{Msg: "Strategy missing Name"}
			}
			nameBody := body.Delegate(int(nameLen))
			name, err := nameBody.ReadName()
			if err != nil {
				return nil, err
			}
			args.Strategy = &Strategy{Name: name}
		case TypeCapacity:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.Capacity = optional.Some(v)
		case TypeMask:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.Mask = optional.Some(v)
		case TypeExpirationPeriod:
			v, err := readNat(&body, int(length))
			if err != nil {
				return nil, err
			}
			args.ExpirationPeriod = optional.Some(v)
		}
	}

	return &struct{ Val *ControlArgs }{Val: args}, nil
}

// ControlResponse is the NFD Management response to a control command: a
// numeric status code, a human-readable text, and the (possibly amended)
// ControlParameters the command was applied with.
type ControlResponse struct {
	StatusCode uint64
	StatusText string
	Body       *ControlArgs
}

// Encode serializes r into a ControlResponse TLV. Body, when present, is
// already a complete ControlParameters TLV and is nested verbatim inside
// the ControlResponse's value.
func (r *ControlResponse) Encode() enc.Wire {
	statusCode := field{TypeStatusCode, nat(r.StatusCode)}
	statusText := field{TypeStatusText, []byte(r.StatusText)}

	valLen := statusCode.typ.EncodingLength() + enc.Nat(len(statusCode.val)).EncodingLength() + len(statusCode.val)
	valLen += statusText.typ.EncodingLength() + enc.Nat(len(statusText.val)).EncodingLength() + len(statusText.val)

	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes = r.Body.Encode().Join()
		valLen += len(bodyBytes)
	}

	total := enc.TLNum(TypeControlResponse).EncodingLength() + enc.Nat(valLen).EncodingLength() + valLen
	buf := make(enc.Buffer, total)
	pos := enc.TLNum(TypeControlResponse).EncodeInto(buf)
	pos += enc.Nat(valLen).EncodeInto(buf[pos:])
	pos += statusCode.typ.EncodeInto(buf[pos:])
	pos += enc.Nat(len(statusCode.val)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], statusCode.val)
	pos += statusText.typ.EncodeInto(buf[pos:])
	pos += enc.Nat(len(statusText.val)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], statusText.val)
	if bodyBytes != nil {
		copy(buf[pos:], bodyBytes)
	}
	return enc.Wire{buf}
}
