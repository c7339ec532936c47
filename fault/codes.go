package fault

import "fmt"

// Code identifies a class of fault condition. The core treats codes as
// opaque: they are never interpreted, only carried in records and shown
// in diagnostics. Applications may define their own codes above User;
// it is the caller's responsibility to keep codes distinct.
type Code int

const (
	// None is a placeholder and is never raised.
	None Code = iota
	// StrTooLong occurs when a too long string is passed.
	StrTooLong
	// BitrateTooLow occurs when a requested bitrate is below what the
	// peripheral clock dividers can reach.
	BitrateTooLow
	// BusTransmission occurs when a transmission on the two-wire bus fails.
	BusTransmission
	// BufferOverflow occurs when an element is appended to a full buffer.
	BufferOverflow
	// OutOfRange occurs when a value is outside its permitted range.
	OutOfRange
	// InvalidString occurs when a string with an invalid format is passed.
	InvalidString
	// InvalidUnit occurs when a quantity carries the wrong unit for an
	// operation.
	InvalidUnit
	// PrecisionViolated occurs when a quantity cannot be expressed without
	// violating its stated precision.
	PrecisionViolated

	// User is the first code value available to applications.
	User Code = 1000
)

// codeNames holds the stable symbolic names of the built-in codes. The
// names are part of the diagnostic surface and must not change across
// builds.
var codeNames = map[Code]string{
	None:              "ERR_NONE",
	StrTooLong:        "ERR_STR_TOO_LONG",
	BitrateTooLow:     "ERR_BITRATE_TOO_LOW",
	BusTransmission:   "ERR_BUS_TRANSMISSION",
	BufferOverflow:    "ERR_BUFFER_OVERFLOW",
	OutOfRange:        "ERR_OUT_OF_RANGE",
	InvalidString:     "ERR_INVALID_STR",
	InvalidUnit:       "ERR_INVALID_UNIT",
	PrecisionViolated: "ERR_PRECISION_VIOLATED",
}

// RegisterName associates a symbolic name with an application-defined
// code. Registering a built-in code or registering the same code twice
// is an error.
func RegisterName(code Code, name string) error {
	if _, exists := codeNames[code]; exists {
		return fmt.Errorf("fault: code %d is already named %q", int(code), codeNames[code])
	}
	codeNames[code] = name
	return nil
}

// Name returns the stable symbolic name of the code, or a numeric
// fallback for codes that were never registered.
func (c Code) Name() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERR_%d", int(c))
}

// String returns the symbolic name of the code.
func (c Code) String() string {
	return c.Name()
}
