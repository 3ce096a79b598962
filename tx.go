package harbor

import (
	"reflect"

	"github.com/safeharbor/harbor/errors"
)

// Marshaller is implemented by everything with a binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be loaded back. Unmarshal
// needs a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the action requested by a transaction. It carries no
// authentication, the enclosing Tx does.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+, for example "escrow/make".
	Path() string

	// Validate checks the message without looking at the state.
	Validate() error
}

// Tx is a message together with everything the decorators need to accept
// it, like signatures.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// GetPath returns the path of the message of tx, "(missing)" if it has
// none.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder reads a transaction from its binary form.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into destination, which must be a
// pointer of the message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "no message in transaction")
	}

	msgVal := reflect.ValueOf(msg)
	destVal := reflect.ValueOf(destination)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a non nil pointer, got %T", destination)
	}
	if msgVal.Type() != destVal.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "message of type %T cannot be loaded into %T", msg, destination)
	}
	destVal.Elem().Set(msgVal.Elem())

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
