package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dmgcore/ppu"
)

func TestPowerOnRegisters(t *testing.T) {
	b := New(nil)
	assert.Equal(t, byte(0x91), b.Peek(0xFF40)) // LCDC
	assert.Equal(t, byte(0xFC), b.Peek(0xFF47)) // BGP
	assert.Equal(t, byte(0x3F), b.Peek(NR21))
	assert.Equal(t, byte(0xFF), b.Peek(0xFF00)) // P1, nothing pressed
}

func TestROMWritesAreDropped(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x10] = 0xAA
	b := New(rom)
	b.Write(0x10, 0xFF)
	assert.Equal(t, byte(0xAA), b.Peek(0x10))
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	b := New(nil)
	b.Write(0xC010, 0x42)
	assert.Equal(t, byte(0x42), b.Peek(0xE010))
	b.Write(0xE020, 0x77)
	assert.Equal(t, byte(0x77), b.Peek(0xC020))
}

func TestUnusedRangeReadsFFAndAbsorbsWrites(t *testing.T) {
	b := New(nil)
	b.Write(0xFEA5, 0x99)
	assert.Equal(t, byte(0xFF), b.Peek(0xFEA5))
}

func TestHighPageAddressing(t *testing.T) {
	b := New(nil)
	b.WriteHigh(0x47, 0x12) // BGP via the high-page entry point
	assert.Equal(t, byte(0x12), b.Peek(0xFF47))
	assert.Equal(t, byte(0x12), b.ReadHigh(0x47))
}

func TestDMACopiesOverSuccessiveCycles(t *testing.T) {
	rom := make([]byte, 0x8000)
	for i := range 0xA0 {
		rom[0x1000+i] = byte(i + 1)
	}
	b := New(rom)
	b.Write(0xFF46, 0x10) // source = 0x1000

	for i := 0; i < 0xA0+4; i++ {
		b.Cycle()
	}
	assert.Equal(t, ppu.DMAInactive, b.PPU().DMAState())
	assert.Equal(t, byte(1), b.Peek(0xFE00))
	assert.Equal(t, byte(0xA0), b.Peek(0xFE9F))
}

func TestCyclesCounterAdvancesOncePerAccess(t *testing.T) {
	b := New(nil)
	start := b.Cycles
	b.Read(0x0000)
	assert.Equal(t, start+1, b.Cycles)
	b.Write(0xC000, 1)
	assert.Equal(t, start+2, b.Cycles)
}
