// Package authpb описывает gRPC-контракт сервиса авторизации: сообщения,
// описание сервиса и кодек, которым они передаются.
//
// На проводе каждое сообщение является google.protobuf.Struct в бинарном
// формате protobuf, поэтому контракт читается любым protobuf-клиентом.
package authpb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// CodecName имя кодека и content-subtype запросов.
const CodecName = "pbstruct"

// wireMessage сообщение контракта, которое раскладывается в поля Struct.
type wireMessage interface {
	fields() map[string]*structpb.Value
	setFields(f map[string]*structpb.Value)
}

type structCodec struct{}

func (structCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case proto.Message:
		return proto.Marshal(m)
	case wireMessage:
		return proto.Marshal(&structpb.Struct{Fields: m.fields()})
	default:
		return nil, fmt.Errorf("authpb: cannot marshal %T", v)
	}
}

func (structCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, m)
	case wireMessage:
		var s structpb.Struct
		if err := proto.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("authpb: %w", err)
		}
		m.setFields(s.GetFields())
		return nil
	default:
		return fmt.Errorf("authpb: cannot unmarshal into %T", v)
	}
}

func (structCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(structCodec{})
}

func str(f map[string]*structpb.Value, key string) string {
	return f[key].GetStringValue()
}

func flag(f map[string]*structpb.Value, key string) bool {
	return f[key].GetBoolValue()
}
