package uart

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
)

func TestMain(m *testing.M) {
	fault.Init(fault.WithHalt(func() { runtime.Goexit() }))
	m.Run()
}

func TestRegistersFor(t *testing.T) {
	regs := RegistersFor(UART0)
	assert.Equal(t, hw.Reg(0xC0), regs.CtrlA)
	assert.Equal(t, hw.Reg(0xC6), regs.Data)
	assert.Equal(t, hw.Reg(0xC8), RegistersFor(UART1).CtrlA)
	assert.Equal(t, hw.Reg(0x130), RegistersFor(UART3).CtrlA)
}

func TestSetBaudrate9600(t *testing.T) {
	sim := hw.NewSim()
	u := New(sim, RegistersFor(UART0))
	u.SetBaudrate(9600)

	// 16 MHz / (16 * 9600) - 1 rounds to 103, normal speed mode.
	assert.Equal(t, byte(103), sim.Read8(RegistersFor(UART0).BaudL))
	assert.Equal(t, byte(0), sim.Read8(RegistersFor(UART0).BaudH))
	assert.False(t, hw.CheckBit(sim, RegistersFor(UART0).CtrlA, bitU2X))
}

func TestSetBaudrateWideDivisor(t *testing.T) {
	sim := hw.NewSim()
	u := New(sim, RegistersFor(UART0))
	u.SetBaudrate(600)

	// 16 MHz / (16 * 600) - 1 rounds to 1666 = 0x682.
	assert.Equal(t, byte(0x82), sim.Read8(RegistersFor(UART0).BaudL))
	assert.Equal(t, byte(0x06), sim.Read8(RegistersFor(UART0).BaudH))
}

func TestSetBaudrateTooLowRaises(t *testing.T) {
	sim := hw.NewSim()
	u := New(sim, RegistersFor(UART0))

	var rec fault.Record
	fault.GuardCapture(func() {
		u.SetBaudrate(400)
	}, func(fault.Record) {}, &rec)
	assert.Equal(t, fault.BitrateTooLow, rec.Code)
	msg, ok := rec.Message()
	require.True(t, ok)
	assert.Contains(t, msg, "400")
}

func TestInitConfiguresControlRegisters(t *testing.T) {
	sim := hw.NewSim()
	regs := RegistersFor(UART1)
	u := New(sim, regs)
	u.Init(Config{
		Baud:          19200,
		Parity:        ParityEven,
		StopBits:      Stop2Bit,
		ClockPolarity: SampleOnFalling,
	})

	assert.True(t, hw.CheckBit(sim, regs.CtrlB, bitRXCIE))
	assert.False(t, hw.CheckBit(sim, regs.CtrlB, bitTXCIE))
	assert.True(t, hw.CheckBit(sim, regs.CtrlB, bitRXEN))
	assert.True(t, hw.CheckBit(sim, regs.CtrlB, bitTXEN))

	// 8-bit frames, asynchronous mode
	assert.True(t, hw.CheckBit(sim, regs.CtrlC, bitUCSZ0))
	assert.True(t, hw.CheckBit(sim, regs.CtrlC, bitUCSZ1))
	assert.False(t, hw.CheckBit(sim, regs.CtrlB, bitUCSZ2))
	assert.False(t, hw.CheckBit(sim, regs.CtrlC, bitUMSEL0))
	assert.False(t, hw.CheckBit(sim, regs.CtrlC, bitUMSEL1))

	assert.True(t, hw.CheckBit(sim, regs.CtrlC, bitUSBS))
	assert.False(t, hw.CheckBit(sim, regs.CtrlC, bitUCPOL))
	// Even parity: UPM1 set, UPM0 clear
	assert.False(t, hw.CheckBit(sim, regs.CtrlC, bitUPM0))
	assert.True(t, hw.CheckBit(sim, regs.CtrlC, bitUPM1))
}

func TestSendByteWaitsForDataRegisterEmpty(t *testing.T) {
	sim := hw.NewSim()
	regs := RegistersFor(UART0)
	// Busy twice, then ready.
	sim.Stub(regs.CtrlA, 0x00, 0x00, 1<<bitUDRE)
	u := New(sim, regs)
	u.SendByte('x')
	assert.Equal(t, []byte{'x'}, sim.WritesTo(regs.Data))
}

func TestSendString(t *testing.T) {
	sim := hw.NewSim()
	regs := RegistersFor(UART0)
	sim.Stub(regs.CtrlA, 1<<bitUDRE)
	u := New(sim, regs)
	u.SendString("ok\r\n")
	assert.Equal(t, []byte("ok\r\n"), sim.WritesTo(regs.Data))
}

func TestSendStringTooLongRaises(t *testing.T) {
	sim := hw.NewSim()
	regs := RegistersFor(UART0)
	sim.Stub(regs.CtrlA, 1<<bitUDRE)
	u := New(sim, regs, WithMaxWrite(4))

	var rec fault.Record
	fault.GuardCapture(func() {
		u.SendString("hello")
	}, func(fault.Record) {}, &rec)
	assert.Equal(t, fault.StrTooLong, rec.Code)
	// Nothing was transmitted.
	assert.Empty(t, sim.WritesTo(regs.Data))
}

func TestReceivePath(t *testing.T) {
	u := New(hw.NewSim(), RegistersFor(UART0), WithBufferSize(2))
	assert.False(t, u.Available())

	u.OnRecv('a')
	u.OnRecv('b')
	// Queue full: the interrupt path drops instead of raising.
	u.OnRecv('c')

	assert.True(t, u.Available())
	assert.Equal(t, byte('a'), u.ReadByte())
	assert.Equal(t, byte('b'), u.ReadByte())
	assert.False(t, u.Available())
	assert.Equal(t, uint64(1), u.Overruns())
}
