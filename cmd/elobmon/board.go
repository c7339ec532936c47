package main

import (
	"os"
	"time"

	elob "github.com/gheinzer/zlv-mint-elob-gplib"
	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/i2c"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
	"github.com/gheinzer/zlv-mint-elob-gplib/internal/bcd"
)

// newSimBoard assembles a board on an in-memory register bus and
// installs the fault runtime. A fatal fault prints its diagnostic and
// exits instead of halting forever.
func newSimBoard() (*elob.Board, *hw.SimBus) {
	bus := hw.NewSim()
	board := elob.New(bus, elob.WithLogger(log))
	if err := board.Init(fault.WithHalt(func() { os.Exit(1) })); err != nil {
		fatal(err)
	}
	return board, bus
}

// ensureFault installs the fault runtime for commands that raise or
// guard without assembling a whole board. The error is ignored so a
// board set up earlier in the same process wins.
func ensureFault() {
	_ = fault.Init(fault.WithHalt(func() { os.Exit(1) }))
}

// stubRTCRead scripts the two-wire status handshake for one register
// read frame: start, SLA+W ack, data ack, repeated start, SLA+R ack,
// final byte nack.
func stubRTCRead(bus *hw.SimBus) {
	bus.Stub(i2c.DefaultRegisters().Status, 0x08, 0x18, 0x28, 0x10, 0x40, 0x58)
}

// simDevice emulates the DS1307 register file behind the frame-level
// bus interface: a write frame first sets the memory pointer, further
// bytes fill registers, and read frames stream from the pointer on.
type simDevice struct {
	registers    [8]byte
	pointer      int
	wantsPointer bool
}

// newSimDevice returns a simulated clock chip ticking at the given
// time, in 24-hour mode with the square-wave output enabled.
func newSimDevice(t time.Time) *simDevice {
	t = t.UTC()
	d := &simDevice{}
	d.registers = [8]byte{
		bcd.Encode(byte(t.Second())),
		bcd.Encode(byte(t.Minute())),
		bcd.Encode(byte(t.Hour())),
		bcd.Encode(byte(t.Weekday()) + 1),
		bcd.Encode(byte(t.Day())),
		bcd.Encode(byte(t.Month())),
		bcd.Encode(byte(t.Year() - 2000)),
		0x10, // SQWE, 1 Hz
	}
	return d
}

func (d *simDevice) StartFrame(addr byte, dir i2c.Direction) {
	d.wantsPointer = dir == i2c.Write
}

func (d *simDevice) SendByte(data byte) {
	if d.wantsPointer {
		d.pointer = int(data)
		d.wantsPointer = false
		return
	}
	d.registers[d.pointer%len(d.registers)] = data
	d.pointer++
}

func (d *simDevice) ReadByte(i2c.Ack) byte {
	value := d.registers[d.pointer%len(d.registers)]
	d.pointer++
	return value
}

func (d *simDevice) EndFrame() {}
