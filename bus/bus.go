// Package bus implements the DMG memory bus: it dispatches 16-bit
// addressed 8-bit reads and writes to the owning subsystem or to flat
// RAM, and invokes the cycle tick on every access.
package bus

import (
	"dmgcore/interrupt"
	"dmgcore/joypad"
	"dmgcore/ppu"
	"dmgcore/timer"
)

// Address constants for the regions this package dispatches directly
// (subsystem windows are documented on their own packages). Sound
// registers are named here even though the APU itself is out of scope --
// the bus's flat fall-through still needs to reset them correctly at
// power-on.
const (
	echoStart   = 0xE000
	echoEnd     = 0xFDFF
	echoShift   = 0x2000
	unusedStart = 0xFEA0
	unusedEnd   = 0xFEFF

	NR10 = 0xFF10
	NR11 = 0xFF11
	NR12 = 0xFF12
	NR14 = 0xFF14
	NR21 = 0xFF16
	NR22 = 0xFF17
	NR24 = 0xFF19
	NR30 = 0xFF1A
	NR31 = 0xFF1B
	NR32 = 0xFF1C
	NR34 = 0xFF1E
	NR41 = 0xFF20
	NR42 = 0xFF21
	NR43 = 0xFF22
	NR44 = 0xFF23
	NR50 = 0xFF24
	NR51 = 0xFF25
	NR52 = 0xFF26
)

// Bus owns flat RAM plus the PPU, timer, joypad, and interrupt controller
// subsystems, and is the sole serialization point for their state
// machines: every access ticks them, in the fixed order DMA -> PPU ->
// Timer -> Joypad -> Interrupts.
type Bus struct {
	memory [0x10000]byte

	ppu        *ppu.PPU
	timer      *timer.Timer
	joypad     *joypad.Joypad
	interrupts *interrupt.Controller

	romSize   int
	Cycles    uint16
	dmaCopied int
}

// New returns a bus with rom mapped at address 0 and all MMIO registers
// set to their documented power-on values.
func New(rom []byte) *Bus {
	b := &Bus{
		ppu:        ppu.New(),
		timer:      timer.New(),
		joypad:     joypad.New(),
		interrupts: interrupt.New(),
	}
	copy(b.memory[:], rom)
	b.romSize = len(rom)
	b.initIORegisters()
	return b
}

// PPU exposes the PPU subsystem for callers that need render-side access
// (the renderer itself is out of scope for this core).
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Timer exposes the timer subsystem.
func (b *Bus) Timer() *timer.Timer { return b.timer }

// Joypad exposes the joypad subsystem, e.g. for a front-end to report
// button state.
func (b *Bus) Joypad() *joypad.Joypad { return b.joypad }

// Interrupts exposes the interrupt controller for the executor to query
// and acknowledge pending interrupts.
func (b *Bus) Interrupts() *interrupt.Controller { return b.interrupts }

func (b *Bus) initIORegisters() {
	for _, kv := range [][2]uint16{
		{0xFF05, 0}, {0xFF06, 0}, {0xFF07, 0},
		{NR10, 0x80}, {NR11, 0xBF}, {NR12, 0xF3}, {NR14, 0xBF},
		{NR21, 0x3F}, {NR22, 0}, {NR24, 0xBF},
		{NR30, 0x7F}, {NR31, 0xFF}, {NR32, 0x9F}, {NR34, 0xFF},
		{NR41, 0xFF}, {NR42, 0}, {NR43, 0}, {NR44, 0xBF},
		{NR50, 0x77}, {NR51, 0xF3}, {NR52, 0xF1},
		{0xFF40, 0x91}, {0xFF42, 0}, {0xFF43, 0}, {0xFF45, 0},
		{0xFF47, 0xFC}, {0xFF48, 0xFF}, {0xFF49, 0xFF}, {0xFF4A, 0}, {0xFF4B, 0},
		{0xFF00, 0xFF},
	} {
		b.writeWithoutTick(kv[0], byte(kv[1]))
	}
}

// Read performs a ticking 16-bit-addressed read.
func (b *Bus) Read(addr uint16) byte {
	v := b.readWithoutTick(addr)
	b.Cycle()
	return v
}

// Write performs a ticking 16-bit-addressed write.
func (b *Bus) Write(addr uint16, value byte) {
	b.writeWithoutTick(addr, value)
	b.Cycle()
}

// Peek reads addr without ticking the world, for inspection by a debugger
// or test harness.
func (b *Bus) Peek(addr uint16) byte { return b.readWithoutTick(addr) }

// ReadHigh performs a ticking read at 0xFF00+offset.
func (b *Bus) ReadHigh(offset byte) byte { return b.Read(0xFF00 + uint16(offset)) }

// WriteHigh performs a ticking write at 0xFF00+offset.
func (b *Bus) WriteHigh(offset byte, value byte) { b.Write(0xFF00+uint16(offset), value) }

// readWithoutTick performs the dispatch without advancing the cycle tick.
// It exists for power-on initialization and for the DMA copy loop, which
// must not recursively re-enter the tick.
func (b *Bus) readWithoutTick(addr uint16) byte {
	if v, ok := b.ppu.Read(addr); ok {
		return v
	}
	if v, ok := b.interrupts.Read(addr); ok {
		return v
	}
	if v, ok := b.timer.Read(addr); ok {
		return v
	}
	if v, ok := b.joypad.Read(addr); ok {
		return v
	}
	if addr >= unusedStart && addr <= unusedEnd {
		return 0xFF
	}
	if addr >= echoStart && addr <= echoEnd {
		return b.memory[addr-echoShift]
	}
	return b.memory[addr]
}

// writeWithoutTick performs the dispatch without advancing the cycle
// tick. See readWithoutTick.
func (b *Bus) writeWithoutTick(addr uint16, value byte) {
	if b.ppu.Write(addr, value) {
		return
	}
	if b.interrupts.Write(addr, value) {
		return
	}
	if b.timer.Write(addr, value) {
		return
	}
	if b.joypad.Write(addr, value) {
		return
	}
	if addr >= unusedStart && addr <= unusedEnd {
		return
	}
	if addr >= echoStart && addr <= echoEnd {
		target := addr - echoShift
		if int(target) >= b.romSize {
			b.memory[target] = value
		}
		return
	}
	if int(addr) < b.romSize {
		return // ROM: writes silently dropped
	}
	b.memory[addr] = value
}

// Cycle advances the world by one machine cycle: DMA progress, then PPU,
// Timer, and Joypad, unioning any interrupts they raise into IF.
func (b *Bus) Cycle() {
	b.Cycles++
	b.dmaTransfer()

	var requests []interrupt.Id

	rc := b.ppu.MachineCycle()
	switch {
	case rc.ModeChanged && rc.Change.To == ppu.VBlank:
		requests = append(requests, interrupt.VBlank)
		if rc.StatTrigger {
			requests = append(requests, interrupt.Stat)
		}
	case rc.StatTrigger:
		requests = append(requests, interrupt.Stat)
	}

	if b.timer.MachineCycle() {
		requests = append(requests, interrupt.Timer)
	}
	if b.joypad.MachineCycle() {
		requests = append(requests, interrupt.Joypad)
	}

	b.interrupts.Request(requests...)
}

// dmaTransfer advances OAM DMA progress to match the PPU's reported
// position, copying each byte from dmaOffset*0x100+i into OAM slot i via
// the no-tick read path. DMA started during the just-completed machine
// cycle does not yet copy: the PPU only reports a non-zero position once
// its own MachineCycle has run for an Active transfer. The PPU goes
// Inactive (and clears its progress) on the cycle its progress reaches
// 0xA0, so the remaining bytes are copied on the following tick.
func (b *Bus) dmaTransfer() {
	target := 0
	switch b.ppu.DMAState() {
	case ppu.DMAStarting:
		b.dmaCopied = 0
		return
	case ppu.DMAActive:
		target = b.ppu.DMAProgress()
	case ppu.DMAInactive:
		if b.dmaCopied == 0 {
			return
		}
		target = 0xA0
	}
	for b.dmaCopied < target {
		src := uint16(b.ppu.DMAOffset())*0x100 + uint16(b.dmaCopied)
		b.ppu.CopyIntoOAM(b.dmaCopied, b.readWithoutTick(src))
		b.dmaCopied++
	}
	if b.dmaCopied == 0xA0 {
		b.dmaCopied = 0
	}
}
