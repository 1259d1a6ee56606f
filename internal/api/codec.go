package api

import (
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName is the gRPC content subtype of the wire codec.
const CodecName = "gophreveal-proto"

// Message is implemented by every request and response of the service.
// Fields are encoded in protobuf wire format, so any protobuf peer with the
// matching schema can read them.
type Message interface {
	appendWire(b []byte) []byte
	readField(f field) error
}

// Codec marshals Message values in protobuf wire format.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("proto marshal: unsupported type %T", v)
	}
	return m.appendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("proto unmarshal: unsupported type %T", v)
	}
	if err := unmarshal(data, m); err != nil {
		return fmt.Errorf("proto unmarshal: %w", err)
	}
	return nil
}

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}

// CallOption selects the wire codec for a call.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}

// field is one decoded key/value pair. Only varint and length-delimited
// values are kept; other wire types are skipped.
type field struct {
	num protowire.Number
	u   uint64
	b   []byte
}

func (f field) asInt64() int64   { return int64(f.u) }
func (f field) asBool() bool     { return f.u != 0 }
func (f field) asString() string { return string(f.b) }

func (f field) asBytes() []byte {
	if len(f.b) == 0 {
		return nil
	}
	return append([]byte(nil), f.b...)
}

func (f field) asTime() (time.Time, error) {
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(f.b, &ts); err != nil {
		return time.Time{}, err
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, err
	}
	return ts.AsTime(), nil
}

func unmarshal(b []byte, m Message) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		if err := m.readField(f); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}

// The append helpers skip zero values, as proto3 does.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendRepeatedString writes v even when empty, as an element of a
// repeated field.
func appendRepeatedString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

// appendTime encodes t as a google.protobuf.Timestamp.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	// Timestamp has no required fields, so Marshal cannot fail.
	ts, _ := proto.Marshal(timestamppb.New(t))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, ts)
}
