package si

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

func TestMain(m *testing.M) {
	fault.Init(fault.WithHalt(func() { runtime.Goexit() }))
	m.Run()
}

func TestPrefixFactor(t *testing.T) {
	assert.InDelta(t, 1000.0, Kilo.Factor(), 1e-9)
	assert.InDelta(t, 0.001, Milli.Factor(), 1e-12)
	assert.InDelta(t, 1.0, NoPrefix.Factor(), 1e-12)
}

func TestPrefixSymbol(t *testing.T) {
	tests := []struct {
		prefix Prefix
		symbol string
	}{
		{Exa, "E"},
		{Giga, "G"},
		{Kilo, "k"},
		{NoPrefix, ""},
		{Milli, "m"},
		{Micro, "u"},
		{Atto, "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.symbol, tt.prefix.Symbol())
	}
}

func TestNewAutoAppliesPrefix(t *testing.T) {
	q := New(4700, Volt, 2)
	assert.Equal(t, Kilo, q.Prefix())
	assert.InDelta(t, 4.7, q.Value(), 1e-9)
	assert.Equal(t, "4.7 kV", q.Format())
}

func TestNewZeroValue(t *testing.T) {
	q := New(0, Volt, 1)
	assert.Equal(t, NoPrefix, q.Prefix())
	assert.Equal(t, "0.0 V", q.Format())
}

func TestApplyPrefixRetriesOnPrecisionViolation(t *testing.T) {
	// 470 with a single significant digit cannot stay unprefixed; the
	// next larger prefix is chosen instead.
	q := New(470, Meter, 1)
	assert.Equal(t, Kilo, q.Prefix())
	assert.InDelta(t, 0.47, q.Value(), 1e-9)
}

func TestSetPrefixRaisesButAdjusts(t *testing.T) {
	q := New(12, Volt, 2)

	var rec fault.Record
	fault.GuardCapture(func() {
		q.SetPrefix(Milli)
	}, func(fault.Record) {}, &rec)

	assert.Equal(t, fault.PrecisionViolated, rec.Code)
	// The quantity was still adjusted, so catching the fault bypasses
	// the precision check.
	assert.Equal(t, Milli, q.Prefix())
	assert.InDelta(t, 12000.0, q.Value(), 1e-6)
}

func TestRemovePrefix(t *testing.T) {
	q := New(4700, Volt, 2)
	assert.Equal(t, Kilo, q.Prefix())
	q.RemovePrefix()
	assert.Equal(t, NoPrefix, q.Prefix())
	assert.InDelta(t, 4700.0, q.Value(), 1e-6)
}

func TestConvertGramKilogram(t *testing.T) {
	q := Convert(New(1.5, Kilogram, 2), Gram)
	assert.Equal(t, Gram, q.Unit())
	// 1500 g auto-prefixes back to 1.5 kg worth of grams.
	assert.Equal(t, Kilo, q.Prefix())
	assert.InDelta(t, 1.5, q.Value(), 1e-9)
	assert.Equal(t, "1.5 kg", q.Format())

	back := Convert(q, Kilogram)
	assert.Equal(t, Kilogram, back.Unit())
	assert.InDelta(t, 1.5, back.Value(), 1e-9)
}

func TestConvertDecibels(t *testing.T) {
	q := Convert(New(100, Dimensionless, 3), Decibels)
	assert.Equal(t, Decibels, q.Unit())
	assert.InDelta(t, 20.0, q.Value(), 1e-9)

	back := Convert(q, Dimensionless)
	assert.Equal(t, Dimensionless, back.Unit())
	assert.InDelta(t, 100.0, back.Value(), 1e-6)
}

func TestConvertIncompatibleUnitsRaises(t *testing.T) {
	var rec fault.Record
	fault.GuardCapture(func() {
		Convert(New(5, Meter, 2), Volt)
	}, func(fault.Record) {}, &rec)
	assert.Equal(t, fault.InvalidUnit, rec.Code)
}

func TestConvertDecibelsFromWrongUnitRaises(t *testing.T) {
	var rec fault.Record
	fault.GuardCapture(func() {
		Convert(New(5, Meter, 2), Decibels)
	}, func(fault.Record) {}, &rec)
	assert.Equal(t, fault.InvalidUnit, rec.Code)
}

func TestFormatNonPrefixableUnit(t *testing.T) {
	q := New(20, Decibels, 2)
	assert.Equal(t, "20 dB", q.Format())
}

func TestFormatPrecisionPadding(t *testing.T) {
	tests := []struct {
		value     float64
		unit      *Unit
		precision uint8
		expected  string
	}{
		{4700, Volt, 2, "4.7 kV"},
		{4700, Volt, 3, "4.70 kV"},
		{0.25, Ampere, 3, "250 mA"},
		{0.25, Ampere, 2, "0.25 A"},
		{12, Second, 2, "12 s"},
	}
	for _, tt := range tests {
		q := New(tt.value, tt.unit, tt.precision)
		assert.Equal(t, tt.expected, q.Format())
	}
}
