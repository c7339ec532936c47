package fault

import (
	"fmt"
	"os"
)

// Handler is the catch body of a guarded block. It receives a copy of the
// record captured at the raise site. By the time a Handler runs, its own
// guard has already been retired: a raise inside the handler escalates to
// the enclosing guard or the terminal handler.
type Handler func(Record)

// guardToken marks one active guarded scope on the handler chain. Tokens
// are compared by identity only.
type guardToken struct{}

// transfer is the panic payload that carries a raise to the innermost
// active guard of its context. Foreign panics and transfers belonging to
// other contexts pass through untouched.
type transfer struct {
	ctx *Context
	rec Record
}

// Context owns one complete fault-handling domain: the LIFO chain of
// active guards, the pending record and the terminal handler with its
// collaborators. The zero value is not usable; construct with NewContext.
//
// A Context must only be touched from a single logical thread of control.
// This is a documented precondition of the target environment, not
// something the implementation enforces.
type Context struct {
	guards    []*guardToken
	state     TerminalState
	sink      DiagnosticSink
	indicator Indicator
	irq       InterruptMasker
	halt      func()
}

// Option configures a Context.
type Option func(*Context)

// WithSink sets the diagnostic sink the terminal handler reports to.
func WithSink(sink DiagnosticSink) Option {
	return func(c *Context) {
		c.sink = sink
	}
}

// WithIndicator sets the fault indicator lit when the terminal handler
// is reached.
func WithIndicator(ind Indicator) Option {
	return func(c *Context) {
		c.indicator = ind
	}
}

// WithInterruptMasker sets the collaborator used to disable interrupt
// delivery on entering the halted state.
func WithInterruptMasker(irq InterruptMasker) Option {
	return func(c *Context) {
		c.irq = irq
	}
}

// WithHalt replaces the terminal halt hook. The hook must not return;
// the default blocks forever, mirroring the halt loop on real hardware.
// Tests typically install a hook that ends the calling goroutine.
func WithHalt(halt func()) Option {
	return func(c *Context) {
		c.halt = halt
	}
}

// NewContext returns a Context with its terminal handler installed in the
// Armed state.
func NewContext(opts ...Option) *Context {
	c := &Context{
		state:     Armed,
		sink:      NewWriterSink(os.Stderr),
		indicator: nopIndicator{},
		irq:       nopMasker{},
		halt:      func() { select {} },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the terminal handler state.
func (c *Context) State() TerminalState {
	return c.state
}

// ActiveGuards returns the number of guards currently installed above the
// terminal handler.
func (c *Context) ActiveGuards() int {
	return len(c.guards)
}

// Raise captures a record without a message and transfers control to the
// innermost active guard, or to the terminal handler if none exists.
// Raise does not return.
func (c *Context) Raise(code Code) {
	c.dispatch(newRecord(code, "", false, 2))
}

// Raisef captures a record with a formatted message and transfers control
// like Raise. An empty format string yields a present-but-empty message,
// which is distinct from no message at all.
func (c *Context) Raisef(code Code, format string, args ...any) {
	c.dispatch(newRecord(code, fmt.Sprintf(format, args...), true, 2))
}

// Reraise forwards a previously captured record unchanged, preserving
// every field including the original raise location. Reraise does not
// return.
func (c *Context) Reraise(rec Record) {
	c.dispatch(rec)
}

// Guard runs body with a fresh handler installed on the chain. If a raise
// occurs in the dynamic extent of body, handler is invoked with the
// captured record; otherwise handler is not called. In both cases the
// handler chain is restored to its pre-Guard state before handler runs
// and before Guard returns.
func (c *Context) Guard(body func(), handler Handler) {
	if rec, raised := c.guarded(body); raised {
		handler(rec)
	}
}

// GuardCapture behaves like Guard and additionally copies the record into
// captureInto before the handler is invoked.
func (c *Context) GuardCapture(body func(), handler Handler, captureInto *Record) {
	rec, raised := c.guarded(body)
	if raised {
		if captureInto != nil {
			*captureInto = rec
		}
		handler(rec)
	}
}

// guarded installs a guard token, runs body and intercepts a transfer
// belonging to this context. The token is retired on every exit path
// before the caller can run any handler code, which is what makes a
// raise inside a handler escalate instead of looping back.
func (c *Context) guarded(body func()) (rec Record, raised bool) {
	tok := new(guardToken)
	c.guards = append(c.guards, tok)
	defer func() {
		c.guards = c.guards[:len(c.guards)-1]
		if r := recover(); r != nil {
			t, ok := r.(*transfer)
			if !ok || t.ctx != c {
				panic(r)
			}
			rec, raised = t.rec, true
		}
	}()
	body()
	return
}

// dispatch delivers a record to the innermost active guard, or hands it
// to the terminal handler when the chain is empty. It never returns.
func (c *Context) dispatch(rec Record) {
	if len(c.guards) > 0 {
		panic(&transfer{ctx: c, rec: rec})
	}
	c.fatal(rec)
	panic("fault: halt hook returned")
}
