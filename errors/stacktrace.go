package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Frames from these functions are never the origin of an error.
var (
	creationFrames = []string{
		"github.com/safeharbor/harbor/errors.Wrap",
		"github.com/safeharbor/harbor/errors.Wrapf",
		"github.com/safeharbor/harbor/errors.WithType",
		"github.com/safeharbor/harbor/errors.Recover",
		"runtime.",
	}
	outerFrames = []string{"runtime.", "testing."}
)

func frameFunc(f errors.Frame) *runtime.Func {
	return runtime.FuncForPC(uintptr(f) - 1)
}

func hasPrefix(f errors.Frame, prefixes []string) bool {
	fn := frameFunc(f)
	if fn == nil {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(fn.Name(), p) {
			return true
		}
	}
	return false
}

// trimStack drops the frames of this package and of the runtime.
func trimStack(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && hasPrefix(st[0], creationFrames) {
		st = st[1:]
	}
	for len(st) > 1 && hasPrefix(st[len(st)-1], outerFrames) {
		st = st[:len(st)-1]
	}
	return st
}

// Format prints the message for %s. %v adds the file and line the error
// was created at, %+v the whole stack.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	stack := trimStack(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n%s", stack, e.Error())
		return
	}
	fmt.Fprint(s, e.Error())
	if len(stack) == 0 {
		return
	}
	if fn := frameFunc(stack[0]); fn != nil {
		file, line := fn.FileLine(uintptr(stack[0]) - 1)
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, " [%s:%d]", file, line)
	}
}

// stackTrace returns the stack recorded by err or by any error it wraps.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
