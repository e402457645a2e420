package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerOnRegisters(t *testing.T) {
	p := New()
	lcdc, ok := p.Read(addrLCDC)
	assert.True(t, ok)
	assert.Equal(t, byte(0x91), lcdc)

	bgp, _ := p.Read(addrBGP)
	assert.Equal(t, byte(0xFC), bgp)
}

func TestDMALifecycle(t *testing.T) {
	p := New()
	p.Write(addrDMA, 0xC0)
	assert.Equal(t, DMAStarting, p.DMAState())
	assert.Equal(t, byte(0xC0), p.DMAOffset())

	p.MachineCycle() // Starting -> Active, progress still 0
	assert.Equal(t, DMAActive, p.DMAState())
	assert.Equal(t, 0, p.DMAProgress())

	p.MachineCycle() // Active, progress advances
	assert.Equal(t, 1, p.DMAProgress())

	for range 0xA0 - 1 {
		p.MachineCycle()
	}
	assert.Equal(t, DMAInactive, p.DMAState())
}

func TestOAMReadsFFDuringDMA(t *testing.T) {
	p := New()
	p.Write(0xFE00, 0x77)
	v, _ := p.Read(0xFE00)
	assert.Equal(t, byte(0x77), v)

	p.Write(addrDMA, 0x00)
	v, _ = p.Read(0xFE00)
	assert.Equal(t, byte(0xFF), v)
}

func TestModeCyclesIntoVBlank(t *testing.T) {
	p := New()
	sawVBlankEntry := false
	for range 70000 {
		rc := p.MachineCycle()
		if rc.ModeChanged && rc.Change.To == VBlank {
			sawVBlankEntry = true
			break
		}
	}
	assert.True(t, sawVBlankEntry)
}

func TestLYCStatTrigger(t *testing.T) {
	p := New()
	p.Write(addrLYC, 0)
	p.Write(addrSTAT, 1<<6) // enable LYC=LY interrupt source
	// LY starts at 0 and LYC is 0, but the coincidence edge requires a
	// prior mismatch; drive LY forward once around to re-arm it.
	for range cyclesPerLine * totalLines {
		p.MachineCycle()
	}
	triggered := false
	for range cyclesPerLine * totalLines {
		if p.MachineCycle().StatTrigger {
			triggered = true
			break
		}
	}
	assert.True(t, triggered)
}
