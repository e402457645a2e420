package cpu

import (
	"dmgcore/bus"
	"dmgcore/interrupt"
	"dmgcore/register"
)

// Cpu ties a register file to a bus and drives the fetch/decode/execute
// loop plus interrupt dispatch. It carries no state of its own beyond the
// interrupt master enable (with its pending EI delay) and the halted flag
// -- everything else lives in Regs or on the bus.
type Cpu struct {
	Regs *register.File
	Bus  *bus.Bus

	IME       bool
	eiPending int // EI takes effect after the instruction following it
	Halted    bool
}

// New returns a Cpu with a freshly reset register file.
func New(b *bus.Bus) *Cpu {
	return &Cpu{Regs: register.New(), Bus: b}
}

// Step runs one iteration of the fetch/decode/execute loop, servicing a
// pending interrupt first if one is both requested and enabled.
func (c *Cpu) Step() {
	if c.serviceInterrupt() {
		return
	}

	if c.Halted {
		c.Bus.Cycle() // parked, but the rest of the world keeps ticking
		return
	}

	start := c.Bus.Cycles
	opcode := c.Bus.Read(c.Regs.PC())
	c.Regs.SetPC(c.Regs.PC() + 1)

	cmd := Decode(opcode, c.fetch8, c.fetch16)
	branch := c.execute(cmd)

	if c.eiPending > 0 {
		c.eiPending--
		if c.eiPending == 0 {
			c.IME = true
		}
	}

	spent := c.Bus.Cycles - start
	for spent < uint16(cmd.cycles(branch)) {
		c.Bus.Cycle()
		spent++
	}
}

// fetch8 reads the byte at PC and advances PC. It is passed to Decode as
// its immediate-byte source.
func (c *Cpu) fetch8() byte {
	v := c.Bus.Read(c.Regs.PC())
	c.Regs.SetPC(c.Regs.PC() + 1)
	return v
}

// fetch16 reads the little-endian word at PC and advances PC by two.
func (c *Cpu) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func interruptVector(id interrupt.Id) uint16 {
	switch id {
	case interrupt.VBlank:
		return 0x0040
	case interrupt.Stat:
		return 0x0048
	case interrupt.Timer:
		return 0x0050
	case interrupt.Joypad:
		return 0x0060
	}
	panic("cpu: unknown interrupt id")
}

// serviceInterrupt dispatches the highest-priority pending interrupt if
// IME is set, and unconditionally clears Halted when any interrupt is
// pending (a HALT'd CPU wakes on a pending source even with IME cleared,
// it simply doesn't jump to the handler in that case).
func (c *Cpu) serviceInterrupt() bool {
	pending := c.Bus.Interrupts().Pending()
	if len(pending) == 0 {
		return false
	}
	c.Halted = false
	if !c.IME {
		return false
	}

	id := pending[0]
	c.IME = false
	c.Bus.Interrupts().Ack(id)

	c.Bus.Cycle()
	c.Bus.Cycle()
	c.push(c.Regs.PC())
	c.Regs.SetPC(interruptVector(id))
	return true
}
