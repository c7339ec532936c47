package si

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

// Quantity is a number together with its unit, SI prefix and precision.
// Precision counts significant digits excluding leading zeros and
// including trailing zeros.
type Quantity struct {
	value     float64
	unit      *Unit
	prefix    Prefix
	precision uint8
}

// New returns a quantity and auto-applies a matching SI prefix. Always
// use New to create quantities.
func New(number float64, unit *Unit, precision uint8) Quantity {
	q := Quantity{value: number, unit: unit, prefix: NoPrefix, precision: precision}
	q.ApplyPrefix()
	return q
}

// Value returns the numeric part, expressed in the current prefix.
func (q Quantity) Value() float64 { return q.value }

// Unit returns the unit the quantity is stored in.
func (q Quantity) Unit() *Unit { return q.unit }

// Prefix returns the current SI prefix.
func (q Quantity) Prefix() Prefix { return q.prefix }

// Precision returns the number of significant digits.
func (q Quantity) Precision() uint8 { return q.precision }

// RemovePrefix folds the current prefix into the numeric value.
func (q *Quantity) RemovePrefix() {
	if q.prefix != NoPrefix {
		q.value *= q.prefix.Factor()
		q.prefix = NoPrefix
	}
}

// ApplyPrefix picks the prefix that leaves one to three digits before the
// decimal point, where the precision allows it. When the natural prefix
// would violate the precision, the next larger one is tried; a violation
// there escalates to the caller.
func (q *Quantity) ApplyPrefix() {
	if q.value == 0 {
		return
	}
	prefix := Prefix(math.Floor(math.Log10(math.Abs(q.value))/3) * 3)
	fault.Guard(func() {
		q.SetPrefix(prefix)
	}, func(fault.Record) {
		q.SetPrefix(prefix + 3)
	})
}

// SetPrefix rescales the quantity to the given prefix. If the rescaled
// number has more digits before the decimal point than the precision
// permits, ERR_PRECISION_VIOLATED is raised. The quantity is adjusted
// before the raise, so a caller may catch the fault and keep the result.
func (q *Quantity) SetPrefix(prefix Prefix) {
	q.value *= q.prefix.Factor()
	q.value /= prefix.Factor()
	q.prefix = prefix

	if digits := digitsBeforeDecimalPoint(q.value); digits > int(q.precision) {
		fault.Raisef(fault.PrecisionViolated,
			"%d digits before the decimal point exceed precision %d", digits, q.precision)
	}
}

// Convert returns the quantity expressed in the given target unit,
// converting through the SI base representation. Incompatible units
// raise ERR_INVALID_UNIT.
func Convert(q Quantity, unit *Unit) Quantity {
	q.RemovePrefix()
	si := q.unit.converter(q, ToSI)
	out := unit.converter(si, FromSI)
	out.ApplyPrefix()
	return out
}

// PrefixString returns the rendered prefix for the quantity: the symbol
// for prefixable units, a power-of-ten factor otherwise.
func (q Quantity) PrefixString() string {
	if q.unit.AllowPrefixing {
		return q.prefix.Symbol()
	}
	return q.prefix.exponent()
}

// Format renders the quantity with its precision, prefix and unit
// abbreviation, e.g. "4.7 kV".
func (q Quantity) Format() string {
	digits := digitsBeforeDecimalPoint(q.value)
	prec := int(q.precision) - digits
	if prec < 0 {
		prec = 0
	}
	value := strconv.FormatFloat(q.value, 'f', prec, 64)
	return fmt.Sprintf("%s %s%s", value, q.PrefixString(), q.unit.Abbreviation)
}

// String implements fmt.Stringer.
func (q Quantity) String() string {
	return q.Format()
}

// digitsBeforeDecimalPoint counts the digits of the integer part, zero
// for numbers below one.
func digitsBeforeDecimalPoint(n float64) int {
	if math.Abs(n) < 1 {
		return 0
	}
	return len(strconv.FormatFloat(math.Abs(n), 'f', 0, 64))
}
