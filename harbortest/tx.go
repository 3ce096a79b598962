package harbortest

import "github.com/safeharbor/harbor"

// Tx is a transaction carrying a single message. It cannot be serialized.
type Tx struct {
	Msg harbor.Msg
	// Err is returned by GetMsg when set.
	Err error
}

var _ harbor.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (harbor.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("harbortest: Tx cannot be serialized")
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("harbortest: Tx cannot be serialized")
}

// Msg is a message routed by RoutePath. Err, when set, fails validation and
// serialization.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ harbor.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return m.Err }
func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
