package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"dmgcore/register"
)

type model struct {
	cpu    *Cpu
	offset uint16 // PC when the debugger started; pageTable centres on the current PC instead

	prevPC uint16
	steps  int
}

// Init is the first function called; there is no initial command.
func (m model) Init() tea.Cmd { return nil }

// Update steps the emulated CPU one instruction per space/j keypress.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.Regs.PC()
			m.cpu.Step()
			m.steps++
		}
	}
	return m, nil
}

// renderPage renders one 16-byte row of the bus's address space, with the
// byte at PC (if any) bracketed.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.cpu.Bus.Peek(addr)
		if addr == m.cpu.Regs.PC() {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	r := m.cpu.Regs
	flags := "ZNHC\n"
	for _, f := range []bool{r.Flags.Z, r.Flags.N, r.Flags.H, r.Flags.C} {
		if f {
			flags += "1"
		} else {
			flags += "0"
		}
	}
	return fmt.Sprintf(`
PC: %04x (was %04x)
SP: %04x
AF: %04x  BC: %04x
DE: %04x  HL: %04x
IME: %v  HALT: %v  steps: %d
%s
`,
		r.PC(), m.prevPC,
		r.SP(),
		r.ReadPair(register.AF), r.ReadPair(register.BC),
		r.ReadPair(register.DE), r.ReadPair(register.HL),
		m.cpu.IME, m.cpu.Halted, m.steps,
		flags,
	)
}

func (m model) pageTable() string {
	header := "addr | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{header}
	base := m.cpu.Regs.PC() &^ 0x0F
	for i := -2; i <= 2; i++ {
		rows = append(rows, m.renderPage(uint16(int32(base)+int32(i)*16)))
	}
	return strings.Join(rows, "\n")
}

// View renders the debugger UI: a window of memory around PC, the register
// file, and a dump of the currently-decoded instruction.
func (m model) View() string {
	opcode := m.cpu.Bus.Peek(m.cpu.Regs.PC())
	cursor := m.cpu.Regs.PC() + 1
	peek8 := func() byte {
		v := m.cpu.Bus.Peek(cursor)
		cursor++
		return v
	}
	peek16 := func() uint16 {
		lo := peek8()
		hi := peek8()
		return uint16(hi)<<8 | uint16(lo)
	}
	cmd := Decode(opcode, peek8, peek16)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(cmd),
	)
}

// Debug starts an interactive TUI over an already-initialized Cpu,
// stepping one instruction per keypress.
func (c *Cpu) Debug() {
	_, err := tea.NewProgram(model{cpu: c, offset: c.Regs.PC()}).Run()
	if err != nil {
		panic(err)
	}
}
