package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteClaim(t *testing.T) {
	c := New()
	_, ok := c.Read(0x1234)
	assert.False(t, ok)

	ok = c.Write(0xFFFF, 0x1F)
	assert.True(t, ok)
	v, ok := c.Read(0xFFFF)
	assert.True(t, ok)
	assert.Equal(t, byte(0x1F), v)
}

func TestRequestAndPending(t *testing.T) {
	c := New()
	c.Write(addrIE, 0xFF)
	c.Request(VBlank, Timer)
	assert.Equal(t, []Id{VBlank, Timer}, c.Pending())
}

func TestPendingRequiresEnable(t *testing.T) {
	c := New()
	c.Request(Joypad)
	assert.Empty(t, c.Pending())
	c.Write(addrIE, 1<<4)
	assert.Equal(t, []Id{Joypad}, c.Pending())
}

func TestAck(t *testing.T) {
	c := New()
	c.Write(addrIE, 0xFF)
	c.Request(Stat)
	c.Ack(Stat)
	assert.Empty(t, c.Pending())
}

func TestIFUnusedBitsReadAsSet(t *testing.T) {
	c := New()
	v, _ := c.Read(addrIF)
	assert.Equal(t, byte(0xE0), v)
}
