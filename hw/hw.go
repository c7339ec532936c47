// Package hw abstracts register-level hardware access. Drivers are
// written against the Bus interface; platform ports provide a concrete
// implementation, and SimBus backs tests and the demo tooling.
package hw

// Reg is a peripheral register address.
type Reg uint16

// Bus provides 8-bit register access to the peripheral address space.
type Bus interface {
	Read8(reg Reg) byte
	Write8(reg Reg, value byte)
}

// IRQController controls global asynchronous interrupt delivery.
type IRQController interface {
	EnableInterrupts()
	DisableInterrupts()
}

// CheckBit reports whether the given bit of a register is set.
func CheckBit(bus Bus, reg Reg, bit uint8) bool {
	return bus.Read8(reg)&(1<<bit) != 0
}

// SetBit sets a single bit of a register, leaving the rest untouched.
func SetBit(bus Bus, reg Reg, bit uint8) {
	bus.Write8(reg, bus.Read8(reg)|1<<bit)
}

// ClearBit clears a single bit of a register, leaving the rest untouched.
func ClearBit(bus Bus, reg Reg, bit uint8) {
	bus.Write8(reg, bus.Read8(reg)&^(1<<bit))
}

// WriteBit sets or clears a single bit of a register.
func WriteBit(bus Bus, reg Reg, bit uint8, value bool) {
	if value {
		SetBit(bus, reg, bit)
	} else {
		ClearBit(bus, reg, bit)
	}
}
