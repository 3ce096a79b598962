package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. An extension that needs a category
// not listed here registers its own, see Register.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrInvalidMsg         = Register(4, "invalid message")
	ErrInvalidModel       = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrEmpty              = Register(9, "value is empty")
	ErrInvalidState       = Register(10, "invalid state")
	ErrInvalidType        = Register(11, "invalid type")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrInvalidAmount      = Register(13, "invalid amount")
	ErrInvalidInput       = Register(14, "invalid input")
	ErrOverflow           = Register(16, "value overflow")
	ErrDatabase           = Register(17, "database")
	ErrIteratorDone       = Register(18, "iterator done")

	// ErrPanic marks a recovered panic. Its message is redacted before
	// it reaches a client.
	ErrPanic = Register(111222, "panic")
)

// internalCode is reported for errors that do not wrap a registered root.
const internalCode = 1

var registry = map[uint32]*Error{
	internalCode: {code: internalCode, desc: "internal"},
}

// Register declares a new root error. Codes are unique across the
// application, registering one twice panics. Call it only from package
// level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them, so
// that callers can test the category with Is and clients receive a stable
// code.
type Error struct {
	code uint32
	desc string
}

func (e *Error) Error() string {
	return e.desc
}

// Code returns the registered code.
func (e *Error) Code() uint32 {
	return e.code
}

// Is returns true if err is this root error or wraps it. A nil root only
// matches a nil error, including a typed nil.
func (e *Error) Is(err error) bool {
	if e == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for err != nil {
		if err == error(e) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Code returns the code of the root error wrapped by err, 0 for nil.
func Code(err error) uint32 {
	if err == nil {
		return 0
	}
	for {
		if root, ok := err.(*Error); ok {
			return root.code
		}
		c, ok := err.(causer)
		if !ok {
			return internalCode
		}
		err = c.Cause()
	}
}

// Wrap annotates err with a description. It returns nil if err is nil. A
// stack trace is attached by the innermost Wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

func (e *wrappedError) Unwrap() error {
	return e.parent
}

type causer interface {
	Cause() error
}

// Recover turns a panic into an ErrPanic assigned to err. Use it with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Redact hides the details of a recovered panic unless debug is set.
func Redact(err error, debug bool) error {
	if !debug && ErrPanic.Is(err) {
		return errors.New("internal error")
	}
	return err
}
