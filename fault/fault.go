package fault

import (
	"errors"
	"fmt"
)

// std is the process-wide default context used by the package-level
// functions. It exists because raise sites in driver code are far removed
// from any place a Context could be threaded through, exactly as on the
// original single-threaded target.
var std *Context

// Init creates the default context and installs its terminal handler in
// the Armed state. It must be called exactly once, before any use of the
// package-level Guard or raise functions. A second call is an error.
func Init(opts ...Option) error {
	if std != nil {
		return errors.New("fault: already initialized")
	}
	std = NewContext(opts...)
	return nil
}

// Default returns the default context. It panics if Init has not run.
func Default() *Context {
	if std == nil {
		panic("fault: Init has not been called")
	}
	return std
}

// Raise captures a record without a message on the default context and
// transfers control to the innermost active guard. It does not return.
func Raise(code Code) {
	Default().dispatch(newRecord(code, "", false, 2))
}

// Raisef captures a record with a formatted message on the default
// context and transfers control like Raise. It does not return.
func Raisef(code Code, format string, args ...any) {
	Default().dispatch(newRecord(code, fmt.Sprintf(format, args...), true, 2))
}

// Reraise forwards a previously captured record unchanged on the default
// context. It does not return.
func Reraise(rec Record) {
	Default().Reraise(rec)
}

// Guard runs body under a fresh guard on the default context. See
// Context.Guard.
func Guard(body func(), handler Handler) {
	Default().Guard(body, handler)
}

// GuardCapture runs body under a fresh guard on the default context and
// copies a raised record into captureInto before handler runs. See
// Context.GuardCapture.
func GuardCapture(body func(), handler Handler, captureInto *Record) {
	Default().GuardCapture(body, handler, captureInto)
}
