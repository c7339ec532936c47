package fault

import (
	"fmt"
	"io"
)

// TerminalState is the state of a Context's terminal handler.
type TerminalState int

const (
	// Armed means the terminal handler is installed and waiting.
	Armed TerminalState = iota
	// Halted means an uncaught fault reached the terminal handler. The
	// state is terminal within one process lifetime; the only way out is
	// an external reset.
	Halted
)

// String returns the state name.
func (s TerminalState) String() string {
	switch s {
	case Armed:
		return "armed"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// DiagnosticSink receives the fatal record when the terminal handler is
// reached. The core selects which fields to emit; rendering beyond that
// is up to the sink.
type DiagnosticSink interface {
	ReportFault(Record)
}

// Indicator is a visible fault output, set once and irreversibly when the
// terminal handler fires. On the board this is the red channel of the
// status LED.
type Indicator interface {
	SetFault()
}

// InterruptMasker disables asynchronous interrupt delivery before the
// halt loop is entered.
type InterruptMasker interface {
	DisableInterrupts()
}

type nopIndicator struct{}

func (nopIndicator) SetFault() {}

type nopMasker struct{}

func (nopMasker) DisableInterrupts() {}

// writerSink is the default sink: an unstyled rendering of the fatal
// diagnostic to an io.Writer.
type writerSink struct {
	w io.Writer
}

// NewWriterSink returns a DiagnosticSink writing plain text to w.
func NewWriterSink(w io.Writer) DiagnosticSink {
	return writerSink{w: w}
}

func (s writerSink) ReportFault(rec Record) {
	msg, ok := rec.Message()
	if !ok {
		msg = "(no message)"
	}
	fmt.Fprintf(s.w, "\r\n %s \r\n %s\r\n at %s\r\n", rec.Name, msg, rec.Location.String())
	fmt.Fprint(s.w, "The above error was not caught.\r\n")
	fmt.Fprint(s.w, "Reset the board to continue operation.\r\n")
}

// fatal performs the Armed to Halted transition: interrupts off, fault
// indicator on, one deterministic diagnostic, then the halt loop. The
// transition happens at most once; a second arrival goes straight to the
// halt loop. fatal never returns.
func (c *Context) fatal(rec Record) {
	if c.state == Armed {
		c.state = Halted
		c.irq.DisableInterrupts()
		c.indicator.SetFault()
		c.sink.ReportFault(rec)
	}
	c.halt()
}
