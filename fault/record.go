package fault

import (
	"fmt"
	"runtime"
)

// Location identifies the raise site of a fault.
type Location struct {
	File     string
	Line     int
	Function string
}

// String returns a formatted string representation of the location.
func (l Location) String() string {
	if l.Function != "" {
		return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Function)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero returns true if the location has not been captured.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// Record is the immutable snapshot of a fault, captured exactly once at
// the raise site. Records are plain values; they are copied into whichever
// scope wants to inspect them and a re-raise forwards them verbatim.
type Record struct {
	Code     Code
	Name     string
	Location Location

	message    string
	hasMessage bool
}

// Message returns the free-text message attached to the raise and whether
// one was attached at all. A raise without a message is distinct from a
// raise with an empty message.
func (r Record) Message() (string, bool) {
	return r.message, r.hasMessage
}

// String returns a one-line rendering of the record for diagnostics.
func (r Record) String() string {
	msg := "(no message)"
	if r.hasMessage {
		msg = r.message
	}
	return fmt.Sprintf("%s: %s at %s", r.Name, msg, r.Location.String())
}

// newRecord captures a record at the caller identified by skip, which
// counts stack frames above newRecord itself.
func newRecord(code Code, message string, hasMessage bool, skip int) Record {
	rec := Record{
		Code:       code,
		Name:       code.Name(),
		message:    message,
		hasMessage: hasMessage,
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		rec.Location.File = file
		rec.Location.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			rec.Location.Function = fn.Name()
		}
	}
	return rec
}
