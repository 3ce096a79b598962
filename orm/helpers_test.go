package orm

import (
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
)

// Counter is a minimal model used by the tests of this package.
type Counter struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3"`
	Count uint64 `protobuf:"varint,2,opt,name=count,proto3"`
}

var _ Model = (*Counter)(nil)

func (c *Counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrEmpty, "count")
	}
	return nil
}

func (c *Counter) Copy() Model {
	return &Counter{Owner: c.Owner, Count: c.Count}
}

func (c *Counter) Marshal() ([]byte, error) {
	return codec.Marshal((*counterMsg)(c))
}

func (c *Counter) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*counterMsg)(c))
}

type counterMsg Counter

func (m *counterMsg) Reset()         { *m = counterMsg{} }
func (m *counterMsg) String() string { return codec.Text(m) }
func (*counterMsg) ProtoMessage()    {}

func counterOwner(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return c.Owner, nil
}
