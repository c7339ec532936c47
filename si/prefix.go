package si

import (
	"fmt"
	"math"
)

// Prefix is a decimal SI prefix. The numeric value of a Prefix is its
// decimal exponent, so Kilo is 3 and Milli is -3.
type Prefix int

const (
	Exa      Prefix = 18
	Peta     Prefix = 15
	Tera     Prefix = 12
	Giga     Prefix = 9
	Mega     Prefix = 6
	Kilo     Prefix = 3
	NoPrefix Prefix = 0
	Milli    Prefix = -3
	Micro    Prefix = -6
	Nano     Prefix = -9
	Pico     Prefix = -12
	Femto    Prefix = -15
	Atto     Prefix = -18
)

// Factor returns the multiplier the prefix stands for.
func (p Prefix) Factor() float64 {
	return math.Pow(10, float64(p))
}

var prefixSymbols = map[Prefix]string{
	Exa:      "E",
	Peta:     "P",
	Tera:     "T",
	Giga:     "G",
	Mega:     "M",
	Kilo:     "k",
	NoPrefix: "",
	Milli:    "m",
	Micro:    "u",
	Nano:     "n",
	Pico:     "p",
	Femto:    "f",
	Atto:     "a",
}

// Symbol returns the prefix abbreviation, e.g. "k" for Kilo.
func (p Prefix) Symbol() string {
	if sym, ok := prefixSymbols[p]; ok {
		return sym
	}
	return fmt.Sprintf("* 10^%d ", int(p))
}

// exponent returns the prefix rendered as a power-of-ten factor, used for
// units that do not allow prefixing.
func (p Prefix) exponent() string {
	if p == NoPrefix {
		return ""
	}
	return fmt.Sprintf("* 10^%d ", int(p))
}
