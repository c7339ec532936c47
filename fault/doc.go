// Package fault implements structured, nestable fault handling for the
// board support library.
//
// The package models the classic try/catch discipline on top of Go's
// native unwind semantics. A guarded block installs a handler, a raise
// anywhere in the dynamic extent of that block transfers control to the
// innermost active handler, and a raise with no enclosing guard is fatal:
// the terminal handler masks interrupts, lights the fault indicator,
// emits a diagnostic and halts until the board is reset.
//
// Basic usage:
//
//	fault.Init()
//
//	fault.Guard(func() {
//	    fault.Raisef(fault.BufferOverflow, "rx queue full")
//	}, func(rec fault.Record) {
//	    // rec.Code == fault.BufferOverflow
//	})
//
// A raise executed inside a handler is never caught by the guard whose
// handler is running; it escalates to the next enclosing guard, or to the
// terminal handler if none exists. Guards may be nested to any depth and
// always restore the handler chain on every exit path.
//
// All state lives in a Context. The package-level functions operate on a
// process-wide default Context, which matches the single-threaded,
// interrupt-driven target environment. Tests construct their own Context
// so no hidden global state is involved.
//
// The handler chain machinery assumes a single logical thread of control.
// Interrupt-style callbacks (for example the UART receive path) run
// preemptively and must never raise or touch a Context; that precondition
// is documented, not enforced.
package fault
