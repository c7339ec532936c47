package ds1307

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/i2c"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

func TestMain(m *testing.M) {
	fault.Init(fault.WithHalt(func() { runtime.Goexit() }))
	m.Run()
}

// fakeDevice emulates the DS1307 register file behind the frame-level
// bus interface: a write frame first sets the memory pointer, further
// bytes fill registers, and read frames stream from the pointer on.
type fakeDevice struct {
	registers    [8]byte
	pointer      int
	addr         byte
	wantsPointer bool
}

func (d *fakeDevice) StartFrame(addr byte, dir i2c.Direction) {
	d.addr = addr
	d.wantsPointer = dir == i2c.Write
}

func (d *fakeDevice) SendByte(data byte) {
	if d.wantsPointer {
		d.pointer = int(data)
		d.wantsPointer = false
		return
	}
	d.registers[d.pointer%len(d.registers)] = data
	d.pointer++
}

func (d *fakeDevice) ReadByte(i2c.Ack) byte {
	value := d.registers[d.pointer%len(d.registers)]
	d.pointer++
	return value
}

func (d *fakeDevice) EndFrame() {}

func TestRegisterAccess(t *testing.T) {
	dev := &fakeDevice{}
	rtc := New(dev)

	rtc.SetRegister(RegControl, 0x10)
	assert.Equal(t, byte(0x10), dev.registers[RegControl])
	assert.Equal(t, byte(0x10), rtc.Register(RegControl))
	assert.Equal(t, byte(slaveAddress), dev.addr)
}

func TestReadAllWriteAll(t *testing.T) {
	dev := &fakeDevice{}
	rtc := New(dev)

	want := [8]byte{0x30, 0x45, 0x13, 0x02, 0x15, 0x07, 0x24, 0x00}
	rtc.WriteAll(want)
	assert.Equal(t, want, dev.registers)
	assert.Equal(t, want, rtc.ReadAll())
}

func TestTime24HourMode(t *testing.T) {
	dev := &fakeDevice{}
	// 2024-07-15 13:45:30 in BCD, 24-hour mode.
	dev.registers = [8]byte{0x30, 0x45, 0x13, 0x02, 0x15, 0x07, 0x24, 0x00}
	rtc := New(dev)

	got := rtc.Time()
	assert.Equal(t, time.Date(2024, time.July, 15, 13, 45, 30, 0, time.UTC), got)
}

func TestTime12HourMode(t *testing.T) {
	dev := &fakeDevice{}
	// 1 PM in 12-hour mode: mode bit 6, PM bit 5, hour 1.
	dev.registers = [8]byte{0x00, 0x00, 1<<6 | 1<<5 | 0x01, 0x01, 0x01, 0x01, 0x24, 0x00}
	rtc := New(dev)

	assert.Equal(t, 13, rtc.Time().Hour())
}

func TestSetTimeRoundTrip(t *testing.T) {
	dev := &fakeDevice{}
	dev.registers[RegControl] = 0xAA
	rtc := New(dev)

	want := time.Date(2024, time.July, 15, 13, 45, 30, 0, time.UTC)
	rtc.SetTime(want)

	assert.Equal(t, byte(0x30), dev.registers[RegSecond])
	assert.Equal(t, byte(0x45), dev.registers[RegMinute])
	// 24-hour mode: bit 6 clear.
	assert.Equal(t, byte(0x13), dev.registers[RegHour])
	assert.Equal(t, byte(0x15), dev.registers[RegDate])
	// July 15 2024 is a Monday; register weekdays start at 1.
	assert.Equal(t, byte(0x02), dev.registers[RegWeekday])
	assert.Equal(t, byte(0x07), dev.registers[RegMonth])
	assert.Equal(t, byte(0x24), dev.registers[RegYear])
	// The control register is preserved.
	assert.Equal(t, byte(0xAA), dev.registers[RegControl])

	assert.Equal(t, want, rtc.Time())
}

func TestSetTimeYearOutOfRangeRaises(t *testing.T) {
	dev := &fakeDevice{}
	rtc := New(dev)

	for _, year := range []int{1999, 2100} {
		var rec fault.Record
		fault.GuardCapture(func() {
			rtc.SetTime(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}, func(fault.Record) {}, &rec)
		require.Equal(t, fault.OutOfRange, rec.Code, "year %d", year)
	}
}
