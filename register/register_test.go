package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetState(t *testing.T) {
	f := New()
	assert.Equal(t, uint16(0x01B0), f.ReadPair(AF))
	assert.Equal(t, uint16(0x0013), f.ReadPair(BC))
	assert.Equal(t, uint16(0x00D8), f.ReadPair(DE))
	assert.Equal(t, uint16(0x014D), f.ReadPair(HL))
	assert.Equal(t, uint16(0xFFFE), f.SP())
	assert.Equal(t, uint16(0x0100), f.PC())
}

func TestByteRoundTrip(t *testing.T) {
	f := New()
	for _, id := range []RegisterId{A, B, C, D, E, H, L} {
		f.WriteByte(id, 0x42)
		assert.Equal(t, byte(0x42), f.ReadByte(id))
	}
}

func TestFlagNibbleZeroing(t *testing.T) {
	f := New()
	f.WritePair(AF, 0x00FF)
	assert.Equal(t, uint16(0x00F0), f.ReadPair(AF))
}

func TestFlagPackRoundTrip(t *testing.T) {
	for _, flags := range []Flags{
		{},
		{Z: true},
		{N: true, C: true},
		{Z: true, N: true, H: true, C: true},
	} {
		packed := flags.Packed()
		assert.Equal(t, byte(0), packed&0x0F)
		assert.Equal(t, flags, Unpack(packed))
	}
}

func TestWritePairRoundTrip(t *testing.T) {
	f := New()
	for _, p := range []Pair{BC, DE, HL, SP, PC} {
		f.WritePair(p, 0x1234)
		assert.Equal(t, uint16(0x1234), f.ReadPair(p))
	}
}

func TestConditionCodes(t *testing.T) {
	f := New()
	f.Flags = Flags{Z: true, C: false}
	assert.True(t, f.CC(CondZ))
	assert.False(t, f.CC(CondNZ))
	assert.False(t, f.CC(CondC))
	assert.True(t, f.CC(CondNC))
}
