package message

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func Encode(msg proto.Message) ([]byte, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("message: encode %T: %w", msg, err)
	}
	return data, nil
}

func Decode(data []byte, msg proto.Message) error {
	if err := proto.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("message: decode %T: %w", msg, err)
	}
	return nil
}

// EncodeMap packs a JSON-like map (see structpb.NewValue for the accepted
// value types) as a google.protobuf.Struct.
func EncodeMap(m map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("message: build struct: %w", err)
	}
	return Encode(s)
}

func DecodeMap(data []byte) (map[string]any, error) {
	s := &structpb.Struct{}
	if err := Decode(data, s); err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}
