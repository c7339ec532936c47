// Package bcd converts between binary and binary-coded-decimal bytes as
// used by real-time-clock register files.
package bcd

// Encode converts a binary value (0-99) to its BCD representation.
func Encode(value byte) byte {
	return value/10<<4 | value%10
}

// Decode converts a BCD byte to its binary value.
func Decode(value byte) byte {
	return value>>4*10 + value&0x0F
}
