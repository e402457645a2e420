// Package register implements the DMG register file: seven byte registers,
// the packed flag register, and the two free-standing 16-bit counters (SP,
// PC), plus the virtual pair views (AF, BC, DE, HL) instructions address.
package register

import (
	"dmgcore/mask"
)

// A RegisterId identifies one of the seven byte-addressable registers.
type RegisterId int

const (
	A RegisterId = iota
	B
	C
	D
	E
	H
	L
)

func (r RegisterId) String() string {
	return [...]string{"A", "B", "C", "D", "E", "H", "L"}[r]
}

// A Pair identifies one of the virtual 16-bit views over the register
// file. BC, DE, HL alias two byte slots each; AF aliases A and the packed
// flag register; SP and PC are genuine 16-bit counters, not aliases.
type Pair int

const (
	BC Pair = iota
	DE
	HL
	AF
	SP
	PC
)

// A ConditionCode is a predicate over the current flags, consumed by
// conditional jumps, calls, and returns.
type ConditionCode int

const (
	CondZ ConditionCode = iota
	CondNZ
	CondC
	CondNC
)

// Flags holds the four DMG status flags. They pack into the high nibble of
// a byte in bit order Z=7, N=6, H=5, C=4; the low nibble is always zero on
// read-back.
type Flags struct {
	Z bool
	N bool
	H bool
	C bool
}

// Packed returns the flags as a byte, high nibble only.
func (f Flags) Packed() byte {
	var b byte
	b = mask.Set(b, mask.I1, boolBit(f.Z))
	b = mask.Set(b, mask.I2, boolBit(f.N))
	b = mask.Set(b, mask.I3, boolBit(f.H))
	b = mask.Set(b, mask.I4, boolBit(f.C))
	return b
}

// Unpack loads the flags from a byte. Bits 3..0 of v are ignored, matching
// real hardware (F always reads back with a zero low nibble).
func Unpack(v byte) Flags {
	return Flags{
		Z: mask.IsSet(v, mask.I1),
		N: mask.IsSet(v, mask.I2),
		H: mask.IsSet(v, mask.I3),
		C: mask.IsSet(v, mask.I4),
	}
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// File is the DMG register file: A,B,C,D,E,H,L, the flag register, and the
// SP/PC counters. SP and PC are plain fields rather than members of the
// byte slice -- they are never reachable through the byte-register
// indexing path, only through the word interface (SP/SetSP, PC/SetPC,
// ReadPair/WritePair).
type File struct {
	bytes [7]byte
	Flags Flags
	sp    uint16
	pc    uint16
}

// New returns a register file in its post-boot-ROM reset state.
func New() *File {
	f := &File{}
	f.bytes[A] = 0x01
	f.bytes[B] = 0x00
	f.bytes[C] = 0x13
	f.bytes[D] = 0x00
	f.bytes[E] = 0xD8
	f.bytes[H] = 0x01
	f.bytes[L] = 0x4D
	f.sp = 0xFFFE
	f.pc = 0x0100
	f.Flags = Flags{Z: true, N: false, H: true, C: true}
	return f
}

// ReadByte returns the value of one of the seven byte registers.
func (f *File) ReadByte(id RegisterId) byte { return f.bytes[id] }

// WriteByte sets one of the seven byte registers.
func (f *File) WriteByte(id RegisterId, v byte) { f.bytes[id] = v }

// SP returns the stack pointer.
func (f *File) SP() uint16 { return f.sp }

// SetSP sets the stack pointer.
func (f *File) SetSP(v uint16) { f.sp = v }

// PC returns the program counter.
func (f *File) PC() uint16 { return f.pc }

// SetPC sets the program counter.
func (f *File) SetPC(v uint16) { f.pc = v }

// pairParts returns the (hi, lo) register ids aliased by a Double pair.
// AF, SP, and PC are not Double pairs and must not be passed here.
func pairParts(p Pair) (hi, lo RegisterId) {
	switch p {
	case BC:
		return B, C
	case DE:
		return D, E
	case HL:
		return H, L
	default:
		panic("register: pairParts called with a non-aliased pair")
	}
}

// ReadPair returns the current 16-bit value of a virtual pair.
func (f *File) ReadPair(p Pair) uint16 {
	switch p {
	case BC, DE, HL:
		hi, lo := pairParts(p)
		return uint16(f.bytes[hi])<<8 | uint16(f.bytes[lo])
	case AF:
		return uint16(f.bytes[A])<<8 | uint16(f.Flags.Packed())
	case SP:
		return f.sp
	case PC:
		return f.pc
	}
	panic("register: unknown pair")
}

// WritePair sets a virtual pair to value, writing the low byte first and
// the high byte second.
func (f *File) WritePair(p Pair, value uint16) {
	lo := byte(value)
	hi := byte(value >> 8)
	switch p {
	case BC, DE, HL:
		_, loID := pairParts(p)
		f.bytes[loID] = lo
		hiID, _ := pairParts(p)
		f.bytes[hiID] = hi
	case AF:
		f.Flags = Unpack(lo)
		f.bytes[A] = hi
	case SP:
		f.sp = value
	case PC:
		f.pc = value
	default:
		panic("register: unknown pair")
	}
}

// CC evaluates a condition code against the current flags.
func (f *File) CC(cc ConditionCode) bool {
	switch cc {
	case CondZ:
		return f.Flags.Z
	case CondNZ:
		return !f.Flags.Z
	case CondC:
		return f.Flags.C
	case CondNC:
		return !f.Flags.C
	}
	panic("register: unknown condition code")
}
