/*
Package codec serializes models and messages as protobuf.

Types declare their schema with protobuf struct tags, the same tags
protoc-gen-gogo writes into generated code, and gogo/protobuf encodes them
by reflection. Following proto3 rules, zero values are not written and
unknown fields are skipped.

proto calls back into any type that has a Marshal method, so a model is
encoded through a conversion to a type with the same layout and no codec
methods:

	type Coin struct {
		Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3"`
		Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3"`
	}

	type coinMsg Coin

	func (m *coinMsg) Reset()         { *m = coinMsg{} }
	func (m *coinMsg) String() string { return codec.Text(m) }
	func (*coinMsg) ProtoMessage()    {}

	func (c *Coin) Marshal() ([]byte, error) {
		return codec.Marshal((*coinMsg)(c))
	}

Embedded messages may keep their own Marshal method, it is used when the
parent is encoded.
*/
package codec

import (
	"fmt"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/safeharbor/harbor/errors"
)

// Marshal returns the protobuf encoding of m.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal resets m and loads raw into it. Malformed input is reported
// as ErrInvalidInput.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "unmarshal %T: %s", m, err)
	}
	return nil
}

// Text prints the fields of a message. Use it to implement the String
// method proto.Message requires.
func Text(m proto.Message) string {
	v := reflect.ValueOf(m)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "<nil>"
		}
		v = v.Elem()
	}
	return fmt.Sprintf("%+v", v.Interface())
}
