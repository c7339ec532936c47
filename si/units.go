// Package si implements physical quantities with SI units, prefixes and
// precision tracking. Unit and precision violations are reported through
// the fault runtime, so callers can intercept them with a guard.
package si

import (
	"math"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

// Direction selects which way a Converter transforms a quantity.
type Direction int

const (
	// FromSI converts a quantity in SI base terms to the unit.
	FromSI Direction = iota
	// ToSI converts a quantity in the unit to SI base terms.
	ToSI
)

// Converter transforms a quantity between a unit and its SI base
// representation. Converters raise ERR_INVALID_UNIT when handed a
// quantity in a unit they do not understand.
type Converter func(Quantity, Direction) Quantity

// Unit describes a measurement unit.
type Unit struct {
	// Name is the full name, e.g. "Volt".
	Name string
	// Abbreviation is the short form, e.g. "V".
	Abbreviation string
	// AllowPrefixing specifies whether SI prefixes may be attached.
	AllowPrefixing bool

	converter Converter
}

// NewUnit returns a unit with a caller-supplied converter.
func NewUnit(name, abbreviation string, converter Converter, allowPrefixing bool) *Unit {
	return &Unit{
		Name:           name,
		Abbreviation:   abbreviation,
		AllowPrefixing: allowPrefixing,
		converter:      converter,
	}
}

// newBaseUnit returns a unit that is its own SI base.
func newBaseUnit(name, abbreviation string, allowPrefixing bool) *Unit {
	u := &Unit{Name: name, Abbreviation: abbreviation, AllowPrefixing: allowPrefixing}
	u.converter = func(q Quantity, dir Direction) Quantity {
		if q.unit != u {
			fault.Raisef(fault.InvalidUnit, "cannot convert %s to %s", q.unit.Name, u.Name)
		}
		return q
	}
	return u
}

var (
	// Dimensionless is the unit of bare numbers.
	Dimensionless = newBaseUnit("[Dimensionless]", "", true)
	// Meter is the unit of distance.
	Meter = newBaseUnit("Meter", "m", true)
	// Second is the unit of time.
	Second = newBaseUnit("Second", "s", true)
	// Kilogram is the SI base unit of mass.
	Kilogram = newBaseUnit("Kilogram", "kg", false)
	// Volt is the unit of electrical voltage.
	Volt = newBaseUnit("Volt", "V", true)
	// Ampere is the unit of electrical current.
	Ampere = newBaseUnit("Ampere", "A", true)
	// Ohm is the unit of electrical resistance.
	Ohm = newBaseUnit("Ohm", "Ohm", true)
	// Gram is the non-SI-base unit of mass, converted via Kilogram.
	Gram = &Unit{Name: "Gram", Abbreviation: "g", AllowPrefixing: true}
	// Decibels is the logarithmic pseudo-unit over dimensionless ratios.
	Decibels = &Unit{Name: "Decibels", Abbreviation: "dB", AllowPrefixing: false}
)

func init() {
	Gram.converter = convertGram
	Decibels.converter = convertDecibels
}

func convertGram(q Quantity, dir Direction) Quantity {
	switch dir {
	case FromSI:
		if q.unit != Kilogram {
			fault.Raisef(fault.InvalidUnit, "cannot convert %s to Gram", q.unit.Name)
		}
		return New(q.value*1000.0, Gram, q.precision)
	default:
		if q.unit != Gram {
			fault.Raisef(fault.InvalidUnit, "cannot convert %s to Kilogram", q.unit.Name)
		}
		return New(q.value/1000.0, Kilogram, q.precision)
	}
}

func convertDecibels(q Quantity, dir Direction) Quantity {
	switch dir {
	case FromSI:
		if q.unit != Dimensionless {
			fault.Raisef(fault.InvalidUnit, "cannot convert %s to Decibels", q.unit.Name)
		}
		return New(math.Log10(q.value)*10.0, Decibels, q.precision)
	default:
		if q.unit != Decibels {
			fault.Raisef(fault.InvalidUnit, "cannot convert %s from Decibels", q.unit.Name)
		}
		return New(math.Pow(10, q.value/10.0), Dimensionless, q.precision)
	}
}
