package orm

import (
	"bytes"
	"sort"

	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
)

// MultiRef is an ordered set of references. Non unique indexes store one
// under every indexed value.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3"`
}

var _ Model = (*MultiRef)(nil)

// NewMultiRef returns a set holding given references.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	var m MultiRef
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// search returns the position of ref and whether it is present.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Add inserts ref keeping the order. ErrDuplicate is returned if it is
// already present.
func (m *MultiRef) Add(ref []byte) error {
	i, ok := m.search(ref)
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "reference %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref. ErrNotFound is returned if it is not present.
func (m *MultiRef) Remove(ref []byte) error {
	i, ok := m.search(ref)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "reference %X", ref)
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

func (m *MultiRef) Copy() Model {
	return &MultiRef{Refs: append([][]byte(nil), m.Refs...)}
}

func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return codec.Marshal((*multiRefMsg)(m))
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*multiRefMsg)(m))
}

type multiRefMsg MultiRef

func (m *multiRefMsg) Reset()         { *m = multiRefMsg{} }
func (m *multiRefMsg) String() string { return codec.Text(m) }
func (*multiRefMsg) ProtoMessage()    {}
