// Package ds1307 drives the DS1307 real-time clock over the two-wire
// bus.
package ds1307

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/i2c"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/internal/bcd"
)

// Register is an internal register address of the DS1307.
type Register byte

const (
	RegSecond  Register = 0x00
	RegMinute  Register = 0x01
	RegHour    Register = 0x02
	RegWeekday Register = 0x03
	RegDate    Register = 0x04
	RegMonth   Register = 0x05
	RegYear    Register = 0x06
	RegControl Register = 0x07
)

// registerCount is the size of the DS1307 register file.
const registerCount = 8

// slaveAddress is the fixed bus address of the DS1307.
const slaveAddress = 0b1101000

// bitrate is the bus speed the DS1307 requires.
const bitrate = 10000

// Hour register flag bits.
const (
	bit12HourMode = 6
	bitPM         = 5
)

// bitrater is implemented by masters whose bus speed can be configured,
// which the simulated test bus does not need.
type bitrater interface {
	SetBitrate(uint32)
	Enable()
}

// RTC drives one DS1307 device.
type RTC struct {
	bus i2c.FrameBus
	log zerolog.Logger
}

// Option configures an RTC.
type Option func(*RTC)

// WithLogger attaches a logger for register-level events.
func WithLogger(log zerolog.Logger) Option {
	return func(r *RTC) { r.log = log }
}

// New returns a driver talking to the DS1307 through the given frame
// bus.
func New(bus i2c.FrameBus, opts ...Option) *RTC {
	r := &RTC{bus: bus, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Init prepares the bus for communicating with the DS1307, configuring
// its required bitrate where the master supports that.
func (r *RTC) Init() {
	if m, ok := r.bus.(bitrater); ok {
		m.SetBitrate(bitrate)
		m.Enable()
	}
}

// Register reads a single register.
func (r *RTC) Register(reg Register) byte {
	r.bus.StartFrame(slaveAddress, i2c.Write)
	r.bus.SendByte(byte(reg)) // set the internal memory pointer
	r.bus.StartFrame(slaveAddress, i2c.Read)
	value := r.bus.ReadByte(i2c.Nack)
	r.bus.EndFrame()
	return value
}

// SetRegister writes a single register.
func (r *RTC) SetRegister(reg Register, data byte) {
	r.bus.StartFrame(slaveAddress, i2c.Write)
	r.bus.SendByte(byte(reg))
	r.bus.SendByte(data)
	r.bus.EndFrame()
}

// ReadAll reads the whole register file in one frame. The returned
// array is indexed by register address.
func (r *RTC) ReadAll() [registerCount]byte {
	var registers [registerCount]byte
	r.bus.StartFrame(slaveAddress, i2c.Write)
	r.bus.SendByte(0) // reset the internal memory pointer
	r.bus.StartFrame(slaveAddress, i2c.Read)
	for addr := 0; addr < registerCount; addr++ {
		ack := i2c.AckB
		if addr == registerCount-1 {
			ack = i2c.Nack
		}
		registers[addr] = r.bus.ReadByte(ack)
	}
	r.bus.EndFrame()
	return registers
}

// WriteAll writes the whole register file in one frame.
func (r *RTC) WriteAll(registers [registerCount]byte) {
	r.bus.StartFrame(slaveAddress, i2c.Write)
	r.bus.SendByte(0)
	for _, value := range registers {
		r.bus.SendByte(value)
	}
	r.bus.EndFrame()
}

// Time reads the current time from the DS1307. The clock counts years
// 2000 through 2099; both 12-hour and 24-hour register modes are
// understood.
func (r *RTC) Time() time.Time {
	registers := r.ReadAll()

	second := int(bcd.Decode(registers[RegSecond] & 0x7F))
	minute := int(bcd.Decode(registers[RegMinute] & 0x7F))

	var hour int
	if registers[RegHour]&(1<<bit12HourMode) != 0 {
		hour = int(bcd.Decode(registers[RegHour] & 0x1F))
		if registers[RegHour]&(1<<bitPM) != 0 {
			hour += 12
		}
	} else {
		hour = int(bcd.Decode(registers[RegHour] & 0x3F))
	}

	day := int(bcd.Decode(registers[RegDate] & 0x3F))
	month := time.Month(bcd.Decode(registers[RegMonth] & 0x1F))
	year := 2000 + int(bcd.Decode(registers[RegYear]))

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

// SetTime writes the given time to the DS1307 in 24-hour mode. The
// control register is preserved. Years outside the 2000-2099 range the
// BCD year register can express raise ERR_OUT_OF_RANGE.
func (r *RTC) SetTime(t time.Time) {
	t = t.UTC()
	if t.Year() < 2000 || t.Year() > 2099 {
		fault.Raisef(fault.OutOfRange, "year %d is outside the 2000-2099 clock range", t.Year())
	}

	var registers [registerCount]byte
	registers[RegSecond] = bcd.Encode(byte(t.Second())) & 0x7F
	registers[RegMinute] = bcd.Encode(byte(t.Minute())) & 0x7F
	// Encoding the hour with bit 6 clear keeps the clock in 24-hour mode.
	registers[RegHour] = bcd.Encode(byte(t.Hour())) & 0x3F
	registers[RegDate] = bcd.Encode(byte(t.Day())) & 0x3F
	registers[RegWeekday] = bcd.Encode(byte(t.Weekday())+1) & 0x3F
	registers[RegMonth] = bcd.Encode(byte(t.Month())) & 0x3F
	registers[RegYear] = bcd.Encode(byte(t.Year() - 2000))
	registers[RegControl] = r.Register(RegControl)

	r.WriteAll(registers)
	r.log.Debug().Time("time", t).Msg("rtc time set")
}
