// Package uart drives the four asynchronous serial interfaces of the
// board. Received bytes are queued by the interrupt path into a FIFO
// buffer; configuration problems are reported through the fault runtime.
package uart

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/gheinzer/zlv-mint-elob-gplib/buffer"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
)

// Interface selects one of the available UART interfaces.
type Interface int

const (
	UART0 Interface = 0
	UART1 Interface = 1
	UART2 Interface = 2
	UART3 Interface = 3
)

// Parity is the parity mode of the interface.
type Parity byte

const (
	ParityDisabled Parity = 0
	ParityEven     Parity = 2
	ParityOdd      Parity = 3
)

// StopBits is the stop bit mode of the interface.
type StopBits byte

const (
	Stop1Bit StopBits = 0
	Stop2Bit StopBits = 1
)

// ClockPolarity is the synchronous-mode clock polarity.
type ClockPolarity byte

const (
	SampleOnFalling ClockPolarity = 0
	SampleOnRising  ClockPolarity = 1
)

// Registers is the register block of one UART interface.
type Registers struct {
	Data  hw.Reg
	CtrlA hw.Reg
	CtrlB hw.Reg
	CtrlC hw.Reg
	BaudL hw.Reg
	BaudH hw.Reg
}

// RegistersFor returns the canonical register block of an interface.
func RegistersFor(iface Interface) Registers {
	base := map[Interface]hw.Reg{
		UART0: 0xC0,
		UART1: 0xC8,
		UART2: 0xD0,
		UART3: 0x130,
	}[iface]
	return Registers{
		CtrlA: base + 0,
		CtrlB: base + 1,
		CtrlC: base + 2,
		BaudL: base + 4,
		BaudH: base + 5,
		Data:  base + 6,
	}
}

// Control register bit positions.
const (
	bitU2X  = 1 // CtrlA: double speed mode
	bitUDRE = 5 // CtrlA: data register empty

	bitUCSZ2 = 2 // CtrlB
	bitTXEN  = 3 // CtrlB
	bitRXEN  = 4 // CtrlB
	bitUDRIE = 5 // CtrlB
	bitTXCIE = 6 // CtrlB
	bitRXCIE = 7 // CtrlB

	bitUCPOL  = 0 // CtrlC
	bitUCSZ0  = 1 // CtrlC
	bitUCSZ1  = 2 // CtrlC
	bitUSBS   = 3 // CtrlC
	bitUPM0   = 4 // CtrlC
	bitUPM1   = 5 // CtrlC
	bitUMSEL0 = 6 // CtrlC
	bitUMSEL1 = 7 // CtrlC
)

// maxDivisor is the largest value the 12-bit baud rate divisor can hold.
const maxDivisor = 2047

// Config holds the line parameters of an interface.
type Config struct {
	Baud          uint32
	Parity        Parity
	StopBits      StopBits
	ClockPolarity ClockPolarity
}

// UART drives a single serial interface.
type UART struct {
	bus      hw.Bus
	regs     Registers
	rx       *buffer.Buffer
	clockHz  uint32
	maxWrite int
	overruns uint64
	log      zerolog.Logger
}

// Option configures a UART.
type Option func(*UART)

// WithClock sets the peripheral clock frequency. The board clock of
// 16 MHz is the default.
func WithClock(hz uint32) Option {
	return func(u *UART) { u.clockHz = hz }
}

// WithBufferSize sets the receive buffer capacity (default 64 bytes).
func WithBufferSize(n int) Option {
	return func(u *UART) { u.rx = buffer.New(n) }
}

// WithMaxWrite sets the longest string SendString accepts (default 255).
func WithMaxWrite(n int) Option {
	return func(u *UART) { u.maxWrite = n }
}

// WithLogger attaches a logger for configuration and overrun events.
func WithLogger(log zerolog.Logger) Option {
	return func(u *UART) { u.log = log }
}

// New returns a driver for the interface described by regs.
func New(bus hw.Bus, regs Registers, opts ...Option) *UART {
	u := &UART{
		bus:      bus,
		regs:     regs,
		rx:       buffer.New(64),
		clockHz:  16000000,
		maxWrite: 255,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Init configures the interface: baud rate, receive interrupt, 8-bit
// frames in asynchronous mode, and the requested parity, stop bit and
// polarity settings.
func (u *UART) Init(cfg Config) {
	u.SetBaudrate(cfg.Baud)

	// Receive interrupt only
	hw.SetBit(u.bus, u.regs.CtrlB, bitRXCIE)
	hw.ClearBit(u.bus, u.regs.CtrlB, bitTXCIE)
	hw.ClearBit(u.bus, u.regs.CtrlB, bitUDRIE)

	// Enable the receiver and transmitter
	hw.SetBit(u.bus, u.regs.CtrlB, bitRXEN)
	hw.SetBit(u.bus, u.regs.CtrlB, bitTXEN)

	// 8-bit character size
	hw.SetBit(u.bus, u.regs.CtrlC, bitUCSZ0)
	hw.SetBit(u.bus, u.regs.CtrlC, bitUCSZ1)
	hw.ClearBit(u.bus, u.regs.CtrlB, bitUCSZ2)

	// Asynchronous mode
	hw.ClearBit(u.bus, u.regs.CtrlC, bitUMSEL0)
	hw.ClearBit(u.bus, u.regs.CtrlC, bitUMSEL1)

	hw.WriteBit(u.bus, u.regs.CtrlC, bitUSBS, cfg.StopBits == Stop2Bit)
	hw.WriteBit(u.bus, u.regs.CtrlC, bitUCPOL, cfg.ClockPolarity == SampleOnRising)
	hw.WriteBit(u.bus, u.regs.CtrlC, bitUPM0, cfg.Parity&1 != 0)
	hw.WriteBit(u.bus, u.regs.CtrlC, bitUPM1, cfg.Parity&2 != 0)

	u.log.Debug().Uint32("baud", cfg.Baud).Msg("uart initialized")
}

// SetBaudrate programs the baud rate divisor, preferring double speed
// mode when it approximates the requested rate better. A rate too low
// for the 12-bit divisor raises ERR_BITRATE_TOO_LOW.
func (u *UART) SetBaudrate(baud uint32) {
	clock := float64(u.clockHz)
	rate := float64(baud)
	divisor2x := clock/(8.0*rate) - 1
	divisor1x := clock/(16.0*rate) - 1

	if divisor1x > maxDivisor {
		fault.Raisef(fault.BitrateTooLow, "baudrate %d is too low for the divisor range", baud)
	}

	diff2x := math.Abs(clock/(8.0*(math.Round(divisor2x)+1)) - rate)
	diff1x := math.Abs(clock/(16.0*(math.Round(divisor1x)+1)) - rate)

	doubleSpeed := diff2x < diff1x && divisor2x < maxDivisor
	divisor := uint16(math.Round(divisor1x))
	if doubleSpeed {
		divisor = uint16(math.Round(divisor2x))
	}

	hw.WriteBit(u.bus, u.regs.CtrlA, bitU2X, doubleSpeed)
	u.bus.Write8(u.regs.BaudL, byte(divisor&0xFF))
	u.bus.Write8(u.regs.BaudH, byte(divisor>>8))
}

// Available reports whether received data is queued.
func (u *UART) Available() bool {
	return !u.rx.Empty()
}

// SendByte writes a single byte, waiting for the data register to drain
// first.
func (u *UART) SendByte(data byte) {
	for !hw.CheckBit(u.bus, u.regs.CtrlA, bitUDRE) {
	}
	u.bus.Write8(u.regs.Data, data)
}

// SendString writes a string byte by byte. Strings longer than the
// configured maximum raise ERR_STR_TOO_LONG.
func (u *UART) SendString(s string) {
	if len(s) > u.maxWrite {
		fault.Raisef(fault.StrTooLong, "string of %d bytes exceeds limit of %d", len(s), u.maxWrite)
	}
	for i := 0; i < len(s); i++ {
		u.SendByte(s[i])
	}
}

// ReadByte returns the oldest received byte, blocking until one is
// available.
func (u *UART) ReadByte() byte {
	for !u.Available() {
	}
	return u.rx.Get()
}

// OnRecv is the receive-interrupt entry point. It runs preemptively and
// therefore must never raise: when the queue is full the byte is dropped
// and counted instead.
func (u *UART) OnRecv(data byte) {
	if !u.rx.TryPut(data) {
		u.overruns++
	}
}

// Overruns returns the number of received bytes dropped because the
// queue was full.
func (u *UART) Overruns() uint64 {
	return u.overruns
}
