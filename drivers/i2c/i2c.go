// Package i2c drives the two-wire bus interface in master mode. Bus and
// transmission errors are reported through the fault runtime with the
// ERR_BUS_TRANSMISSION condition.
package i2c

import (
	"github.com/rs/zerolog"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
)

// Status is a status code supplied by the hardware two-wire interface.
type Status byte

const (
	// Status codes for both modes
	StatusStartTransmitted         Status = 0x08
	StatusRepeatedStartTransmitted Status = 0x10

	// Status codes for master transmitter mode
	StatusSLAWAck         Status = 0x18
	StatusSLAWNack        Status = 0x20
	StatusDataSentAck     Status = 0x28
	StatusDataSentNack    Status = 0x30
	StatusArbitrationLost Status = 0x38

	// Status codes for master receiver mode
	StatusSLARAck          Status = 0x40
	StatusSLARNack         Status = 0x48
	StatusDataReceivedAck  Status = 0x50
	StatusDataReceivedNack Status = 0x58

	// Generic status codes
	StatusNone     Status = 0xF8
	StatusBusError Status = 0x00
)

// Direction is the transfer direction of a frame, matching the R/W bit.
type Direction byte

const (
	Write Direction = 0
	Read  Direction = 1
)

// Ack selects the acknowledgement sent after a received byte.
type Ack byte

const (
	Nack Ack = 0
	AckB Ack = 1
)

// Registers is the register block of the two-wire interface.
type Registers struct {
	Bitrate hw.Reg // TWBR
	Status  hw.Reg // TWSR, prescaler bits in the low nibble
	Data    hw.Reg // TWDR
	Control hw.Reg // TWCR
}

// DefaultRegisters returns the canonical two-wire register block.
func DefaultRegisters() Registers {
	return Registers{Bitrate: 0xB8, Status: 0xB9, Data: 0xBB, Control: 0xBC}
}

// Control register bit positions.
const (
	bitTWIE  = 0
	bitTWEN  = 2
	bitTWWC  = 3
	bitTWSTO = 4
	bitTWSTA = 5
	bitTWEA  = 6
	bitTWINT = 7
)

// statusMask strips the prescaler bits from the status register.
const statusMask = 0xF8

// FrameBus is the frame-level surface of the master, implemented by
// Master and consumed by device drivers such as the real-time clock.
type FrameBus interface {
	StartFrame(slaveAddress byte, dir Direction)
	SendByte(data byte)
	ReadByte(ack Ack) byte
	EndFrame()
}

// Master drives the two-wire interface in master mode.
type Master struct {
	bus     hw.Bus
	regs    Registers
	clockHz uint32
	log     zerolog.Logger
}

// Option configures a Master.
type Option func(*Master)

// WithClock sets the peripheral clock frequency (default 16 MHz).
func WithClock(hz uint32) Option {
	return func(m *Master) { m.clockHz = hz }
}

// WithLogger attaches a logger for frame-level events.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Master) { m.log = log }
}

// New returns a master for the given register block.
func New(bus hw.Bus, regs Registers, opts ...Option) *Master {
	m := &Master{
		bus:     bus,
		regs:    regs,
		clockHz: 16000000,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// SetBitrate programs the bitrate divider, choosing the smallest
// prescaler that fits. A bitrate too low for the largest prescaler
// raises ERR_BITRATE_TOO_LOW.
func (m *Master) SetBitrate(bitrate uint32) {
	prescalers := []uint32{1, 4, 16, 64}
	for id, prescaler := range prescalers {
		divider := (float64(m.clockHz)/float64(bitrate) - 16.0) / (2.0 * float64(prescaler))
		if divider <= 255 {
			if divider < 0 {
				divider = 0
			}
			m.bus.Write8(m.regs.Bitrate, byte(divider))
			m.bus.Write8(m.regs.Status, byte(id)&0x03)
			m.log.Debug().Uint32("bitrate", bitrate).Int("prescaler", int(prescaler)).Msg("i2c bitrate configured")
			return
		}
	}
	fault.Raisef(fault.BitrateTooLow, "bitrate %d is too low for the prescaler range", bitrate)
}

// Enable activates the two-wire interface with interrupts disabled; the
// driver polls the interrupt flag instead.
func (m *Master) Enable() {
	hw.SetBit(m.bus, m.regs.Control, bitTWEN)
	hw.SetBit(m.bus, m.regs.Control, bitTWEA)
	hw.ClearBit(m.bus, m.regs.Control, bitTWIE)
}

// Disable deactivates the two-wire interface.
func (m *Master) Disable() {
	hw.ClearBit(m.bus, m.regs.Control, bitTWEN)
}

// CheckStatus returns the current hardware status code. A bus error or
// write collision raises ERR_BUS_TRANSMISSION.
func (m *Master) CheckStatus() Status {
	status := Status(m.bus.Read8(m.regs.Status) & statusMask)
	if status == StatusBusError {
		fault.Raisef(fault.BusTransmission, "bus error reported")
	}
	if hw.CheckBit(m.bus, m.regs.Control, bitTWWC) {
		fault.Raisef(fault.BusTransmission, "write collision detected")
	}
	return status
}

// StartFrame sends a (repeated) start condition followed by the slave
// address and direction bit. Any unexpected status raises
// ERR_BUS_TRANSMISSION.
func (m *Master) StartFrame(slaveAddress byte, dir Direction) {
	hw.SetBit(m.bus, m.regs.Control, bitTWSTA)
	m.strobe()

	status := m.CheckStatus()
	if status != StatusStartTransmitted && status != StatusRepeatedStartTransmitted {
		fault.Raisef(fault.BusTransmission, "failed to generate start condition (status 0x%02X)", byte(status))
	}

	m.bus.Write8(m.regs.Data, slaveAddress<<1|byte(dir))
	hw.ClearBit(m.bus, m.regs.Control, bitTWSTA)
	m.strobe()

	status = m.CheckStatus()
	if status != StatusSLARAck && status != StatusSLAWAck {
		fault.Raisef(fault.BusTransmission, "no ACK for SLA+R/W to 0x%02X (status 0x%02X)", slaveAddress, byte(status))
	}
}

// SendByte transmits one byte inside a started frame.
func (m *Master) SendByte(data byte) {
	m.bus.Write8(m.regs.Data, data)
	m.strobe()

	status := m.CheckStatus()
	if status != StatusDataSentAck {
		if status == StatusDataSentNack {
			fault.Raisef(fault.BusTransmission, "data sent, NACK received")
		}
		fault.Raisef(fault.BusTransmission, "data sent, unexpected status 0x%02X", byte(status))
	}
}

// ReadByte receives one byte inside a started frame, acknowledging it as
// requested.
func (m *Master) ReadByte(ack Ack) byte {
	hw.WriteBit(m.bus, m.regs.Control, bitTWEA, ack == AckB)
	m.strobe()
	data := m.bus.Read8(m.regs.Data)

	status := m.CheckStatus()
	if status != StatusDataReceivedAck && status != StatusDataReceivedNack {
		fault.Raisef(fault.BusTransmission, "receive failed, unexpected status 0x%02X", byte(status))
	}
	return data
}

// EndFrame sends a stop condition.
func (m *Master) EndFrame() {
	hw.SetBit(m.bus, m.regs.Control, bitTWSTO)
}

// strobe clears the interrupt flag to start the pending bus operation
// and busy-waits until the hardware sets it again.
func (m *Master) strobe() {
	hw.SetBit(m.bus, m.regs.Control, bitTWINT)
	for !hw.CheckBit(m.bus, m.regs.Control, bitTWINT) {
	}
}
