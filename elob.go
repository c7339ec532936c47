// Package elob is the board support library for the ELO-Board: it wires
// the peripheral drivers, the fault runtime and the status outputs into
// one board object.
package elob

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/ds1307"
	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/i2c"
	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/uart"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
	"github.com/gheinzer/zlv-mint-elob-gplib/term"
)

// ClockHz is the board clock frequency of 16 MHz.
const ClockHz = 16000000

// Port register addresses.
const (
	regDDRA  hw.Reg = 0x21 // LED port direction
	regPORTA hw.Reg = 0x22 // LED outputs
	regDDRB  hw.Reg = 0x24
	regPORTB hw.Reg = 0x25 // RGB status LED on bits 5..7
	regPINC  hw.Reg = 0x26 // switch inputs
	regDDRC  hw.Reg = 0x27
	regDDRJ  hw.Reg = 0x104 // button port direction
)

// RGB status LED bit positions on PORTB.
const (
	bitLEDRed   = 5
	bitLEDGreen = 6
	bitLEDBlue  = 7
)

// Board is the assembled ELO-Board: register bus, serial-over-USB link,
// two-wire master and real-time clock.
type Board struct {
	bus  hw.Bus
	irq  hw.IRQController
	diag io.Writer
	log  zerolog.Logger

	// USB is the serial-over-USB link on UART1.
	USB *uart.UART
	// I2C is the two-wire bus master.
	I2C *i2c.Master
	// RTC is the real-time clock on the two-wire bus.
	RTC *ds1307.RTC
}

// Option configures a Board.
type Option func(*Board)

// WithIRQ sets the global interrupt controller.
func WithIRQ(irq hw.IRQController) Option {
	return func(b *Board) { b.irq = irq }
}

// WithDiagnostics sets the writer fatal fault diagnostics go to. The
// default is standard error; on hardware this is the USB terminal link.
func WithDiagnostics(w io.Writer) Option {
	return func(b *Board) { b.diag = w }
}

// WithLogger attaches a logger passed down to the peripheral drivers.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// New assembles a board on the given register bus.
func New(bus hw.Bus, opts ...Option) *Board {
	b := &Board{
		bus:  bus,
		irq:  nopIRQ{},
		diag: os.Stderr,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.USB = uart.New(bus, uart.RegistersFor(uart.UART1),
		uart.WithClock(ClockHz),
		uart.WithLogger(b.log.With().Str("driver", "uart").Logger()),
	)
	b.I2C = i2c.New(bus, i2c.DefaultRegisters(),
		i2c.WithClock(ClockHz),
		i2c.WithLogger(b.log.With().Str("driver", "i2c").Logger()),
	)
	b.RTC = ds1307.New(b.I2C,
		ds1307.WithLogger(b.log.With().Str("driver", "ds1307").Logger()),
	)
	return b
}

// Init sets up the port directions, enables interrupt delivery and
// installs the fault runtime with the board's diagnostic reporter and
// the red status LED as fault indicator. It must run exactly once,
// before any guard or raise. Additional fault options (for example a
// custom halt hook) are passed through.
func (b *Board) Init(faultOpts ...fault.Option) error {
	b.bus.Write8(regDDRA, 0xFF) // LEDs
	b.bus.Write8(regDDRC, 0x00) // Switches
	b.bus.Write8(regDDRJ, 0x00) // Buttons

	// RGB LED pins as outputs
	hw.SetBit(b.bus, regDDRB, bitLEDRed)
	hw.SetBit(b.bus, regDDRB, bitLEDGreen)
	hw.SetBit(b.bus, regDDRB, bitLEDBlue)

	b.irq.EnableInterrupts()

	opts := []fault.Option{
		fault.WithSink(term.NewReporter(b.diag)),
		fault.WithIndicator(faultLED{bus: b.bus}),
		fault.WithInterruptMasker(b.irq),
	}
	opts = append(opts, faultOpts...)
	return fault.Init(opts...)
}

// SetLED switches one of the eight user LEDs.
func (b *Board) SetLED(index uint8, on bool) {
	if index > 7 {
		fault.Raisef(fault.OutOfRange, "led index %d is out of range", index)
	}
	hw.WriteBit(b.bus, regPORTA, index, on)
}

// LEDs returns the current state of the eight user LEDs as a bitmask.
func (b *Board) LEDs() byte {
	return b.bus.Read8(regPORTA)
}

// Switches returns the state of the switch inputs.
func (b *Board) Switches() byte {
	return b.bus.Read8(regPINC)
}

// SelfTest probes each peripheral under its own guard and aggregates
// the faults of the failing ones into a single error.
func (b *Board) SelfTest() error {
	probes := []struct {
		name string
		fn   func()
	}{
		{"usb-uart", func() { b.USB.SetBaudrate(115200) }},
		{"i2c", func() { b.I2C.SetBitrate(100000) }},
		{"rtc", func() { _ = b.RTC.Register(ds1307.RegControl) }},
	}

	var result *multierror.Error
	for _, probe := range probes {
		var rec fault.Record
		failed := false
		fault.GuardCapture(probe.fn, func(fault.Record) {
			failed = true
		}, &rec)
		if failed {
			result = multierror.Append(result, fmt.Errorf("%s: %s", probe.name, rec.String()))
			b.log.Warn().Str("probe", probe.name).Str("fault", rec.Name).Msg("selftest probe failed")
		}
	}
	return result.ErrorOrNil()
}

// faultLED turns the RGB status LED red, the irreversible fault
// indication of the terminal handler.
type faultLED struct {
	bus hw.Bus
}

func (l faultLED) SetFault() {
	hw.SetBit(l.bus, regPORTB, bitLEDRed)
	hw.ClearBit(l.bus, regPORTB, bitLEDGreen)
	hw.ClearBit(l.bus, regPORTB, bitLEDBlue)
}

type nopIRQ struct{}

func (nopIRQ) EnableInterrupts()  {}
func (nopIRQ) DisableInterrupts() {}
