// Package ppu implements the register window, OAM/VRAM storage, and mode
// state machine of the DMG pixel-processing unit. The pixel renderer that
// turns this state into a framebuffer is an external collaborator and is
// not implemented here.
package ppu

import "dmgcore/mask"

// Mode is one of the four PPU modes, reflected in STAT bits 1-0.
type Mode int

const (
	HBlank Mode = iota
	VBlank
	OamSearch
	Transfer
)

// Durations, in machine cycles, of each mode within a single scanline.
const (
	oamSearchCycles = 20
	transferCycles  = 43
	hblankCycles    = 51
	cyclesPerLine   = oamSearchCycles + transferCycles + hblankCycles // 114
	visibleLines    = 144
	totalLines      = 154
)

// DMAState is the OAM DMA engine's own lifecycle, independent of the
// bus-level byte-copy progress counter.
type DMAState int

const (
	DMAInactive DMAState = iota
	DMAStarting           // triggered this cycle; copying has not yet begun
	DMAActive
)

// OamCorruptionCause enumerates the hardware OAM-corruption triggers.
// Game Boy hardware corrupts OAM on INC/DEC of HL while it holds an
// OAM-range address during OamSearch; this core recognizes the category
// but, per the open question in the design notes, does not act on it for
// DMA-initiated reads. The enum exists so the gap is visible, not to be
// exercised.
type OamCorruptionCause int

const (
	IncDec OamCorruptionCause = iota
	Read
	Write
	ReadWrite
)

// StateChange describes a PPU mode transition.
type StateChange struct {
	From Mode
	To   Mode
}

// RenderCycle is the result of one PPU MachineCycle call.
type RenderCycle struct {
	ModeChanged bool
	Change      StateChange
	StatTrigger bool
}

const (
	addrLCDC = 0xFF40
	addrSTAT = 0xFF41
	addrSCY  = 0xFF42
	addrSCX  = 0xFF43
	addrLY   = 0xFF44
	addrLYC  = 0xFF45
	addrDMA  = 0xFF46
	addrBGP  = 0xFF47
	addrOBP0 = 0xFF48
	addrOBP1 = 0xFF49
	addrWY   = 0xFF4A
	addrWX   = 0xFF4B
)

// PPU owns VRAM, OAM, the LCDC/STAT/scroll/palette register window, and
// the OAM DMA engine's lifecycle.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx byte

	mode        Mode
	dotsInMode  int

	dmaState    DMAState
	dmaOffset   byte
	dmaProgress int
}

// New returns a PPU with the power-on register values and the mode
// machine parked in OamSearch at line 0.
func New() *PPU {
	p := &PPU{
		lcdc: 0x91,
		bgp:  0xFC,
		obp0: 0xFF,
		obp1: 0xFF,
		mode: OamSearch,
	}
	return p
}

// Read returns the byte at addr if this subsystem owns it.
func (p *PPU) Read(addr uint16) (byte, bool) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram[addr-0x8000], true
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if p.dmaState != DMAInactive {
			return 0xFF, true
		}
		return p.oam[addr-0xFE00], true
	case addr == addrLCDC:
		return p.lcdc, true
	case addr == addrSTAT:
		return 0x80 | p.stat | p.coincidenceAndModeBits(), true
	case addr == addrSCY:
		return p.scy, true
	case addr == addrSCX:
		return p.scx, true
	case addr == addrLY:
		return p.ly, true
	case addr == addrLYC:
		return p.lyc, true
	case addr == addrDMA:
		return p.dmaOffset, true
	case addr == addrBGP:
		return p.bgp, true
	case addr == addrOBP0:
		return p.obp0, true
	case addr == addrOBP1:
		return p.obp1, true
	case addr == addrWY:
		return p.wy, true
	case addr == addrWX:
		return p.wx, true
	}
	return 0, false
}

// coincidenceAndModeBits computes STAT bits 2 (LYC=LY) and 1-0 (mode).
func (p *PPU) coincidenceAndModeBits() byte {
	var b byte
	if p.ly == p.lyc {
		b = mask.Set(b, mask.I6, 1)
	}
	return b | byte(p.mode)&0x03
}

// Write stores value at addr if this subsystem owns it.
func (p *PPU) Write(addr uint16, value byte) bool {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		p.vram[addr-0x8000] = value
		return true
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if p.dmaState == DMAInactive {
			p.oam[addr-0xFE00] = value
		}
		return true
	case addr == addrLCDC:
		p.lcdc = value
		return true
	case addr == addrSTAT:
		p.stat = value & 0x78 // bits 6-3 are the interrupt-source enables
		return true
	case addr == addrSCY:
		p.scy = value
		return true
	case addr == addrSCX:
		p.scx = value
		return true
	case addr == addrLY:
		return true // read-only; writes are absorbed, not stored
	case addr == addrLYC:
		p.lyc = value
		return true
	case addr == addrDMA:
		p.dmaOffset = value
		p.dmaState = DMAStarting
		p.dmaProgress = 0
		return true
	case addr == addrBGP:
		p.bgp = value
		return true
	case addr == addrOBP0:
		p.obp0 = value
		return true
	case addr == addrOBP1:
		p.obp1 = value
		return true
	case addr == addrWY:
		p.wy = value
		return true
	case addr == addrWX:
		p.wx = value
		return true
	}
	return false
}

// DMAState reports the OAM DMA engine's lifecycle state.
func (p *PPU) DMAState() DMAState { return p.dmaState }

// DMAOffset reports the high byte of the DMA source address (source is
// DMAOffset()*0x100).
func (p *PPU) DMAOffset() byte { return p.dmaOffset }

// DMAProgress reports how many of the 0xA0 OAM bytes this DMA transfer has
// made available to be copied.
func (p *PPU) DMAProgress() int { return p.dmaProgress }

// CopyIntoOAM is how the bus's DMA copy loop deposits a source byte into
// OAM slot i, bypassing the DMA-active write guard placed on ordinary CPU
// writes.
func (p *PPU) CopyIntoOAM(i int, value byte) { p.oam[i] = value }

// statEnabled reports whether the STAT interrupt source for mode m is
// enabled (bits 3-5 of STAT; bit 6, the LYC source, is lycEnabled).
func (p *PPU) statEnabled(m Mode) bool {
	switch m {
	case HBlank:
		return p.stat&(1<<3) != 0
	case VBlank:
		return p.stat&(1<<4) != 0
	case OamSearch:
		return p.stat&(1<<5) != 0
	}
	return false
}

func (p *PPU) lycEnabled() bool { return p.stat&(1<<6) != 0 }

// MachineCycle advances the PPU (render mode machine and OAM DMA
// lifecycle) by one machine cycle.
func (p *PPU) MachineCycle() RenderCycle {
	p.advanceDMA()
	return p.advanceMode()
}

func (p *PPU) advanceDMA() {
	switch p.dmaState {
	case DMAStarting:
		p.dmaState = DMAActive
	case DMAActive:
		if p.dmaProgress < len(p.oam) {
			p.dmaProgress++
		}
		if p.dmaProgress == len(p.oam) {
			p.dmaState = DMAInactive
			p.dmaProgress = 0
		}
	}
}

func (p *PPU) advanceMode() RenderCycle {
	if p.lcdc&0x80 == 0 { // LCD disabled: mode machine is frozen
		return RenderCycle{}
	}

	p.dotsInMode++
	from := p.mode
	lycWas := p.ly == p.lyc

	switch p.mode {
	case OamSearch:
		if p.dotsInMode >= oamSearchCycles {
			p.mode, p.dotsInMode = Transfer, 0
		}
	case Transfer:
		if p.dotsInMode >= transferCycles {
			p.mode, p.dotsInMode = HBlank, 0
		}
	case HBlank:
		if p.dotsInMode >= hblankCycles {
			p.dotsInMode = 0
			p.ly++
			if p.ly >= visibleLines {
				p.mode = VBlank
			} else {
				p.mode = OamSearch
			}
		}
	case VBlank:
		if p.dotsInMode >= cyclesPerLine {
			p.dotsInMode = 0
			p.ly++
			if p.ly >= totalLines {
				p.ly = 0
				p.mode = OamSearch
			}
		}
	}

	lycTrigger := lycEdge(lycWas, p.ly == p.lyc) && p.lycEnabled()
	modeChanged := p.mode != from
	statTrigger := lycTrigger || (modeChanged && p.statEnabled(p.mode))

	return RenderCycle{
		ModeChanged: modeChanged,
		Change:      StateChange{From: from, To: p.mode},
		StatTrigger: statTrigger,
	}
}

func lycEdge(was, is bool) bool { return !was && is }
