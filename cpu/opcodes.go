package cpu

import "dmgcore/register"

// r8 maps a 3-bit opcode field to a register, in the standard DMG encoding
// order. Index 6 ((HL)) is never looked up directly through this table --
// callers branch on index==6 first.
var r8 = [8]register.RegisterId{register.B, register.C, register.D, register.E, register.H, register.L, 0, register.A}

var r16sp = [4]register.Pair{register.BC, register.DE, register.HL, register.SP}
var r16af = [4]register.Pair{register.BC, register.DE, register.HL, register.AF}
var ccTable = [4]register.ConditionCode{register.CondNZ, register.CondZ, register.CondNC, register.CondC}
var aluOps = [8]Op{ADD_A, ADC_A, SUB_A, SBC_A, AND_A, XOR_A, OR_A, CP_A}

func operandAt(i byte) Operand {
	if i == 6 {
		return HLOperand
	}
	return RegOperand(r8[i])
}

// Decode reads one instruction starting at opcode, pulling any further
// immediate bytes it needs via fetch8/fetch16. fetch8/fetch16 are expected
// to read from the program counter and advance it, exactly once per call,
// in program order.
func Decode(opcode byte, fetch8 func() byte, fetch16 func() uint16) Command {
	if opcode == 0xCB {
		return decodeCB(fetch8())
	}

	// 0x40-0x7F: LD r8,r8 (0x76 is HALT, excluded here and handled by the
	// literal cases below).
	if opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76 {
		dst := (opcode >> 3) & 0x07
		src := opcode & 0x07
		switch {
		case dst == 6:
			return Command{Op: LD_HL_R8, Reg: r8[src]}
		case src == 6:
			return Command{Op: LD_R8_HL, Reg: r8[dst]}
		default:
			return Command{Op: LD_R8_R8, Reg: r8[dst], Reg2: r8[src]}
		}
	}

	// 0x80-0xBF: ALU A,operand.
	if opcode >= 0x80 && opcode <= 0xBF {
		op := aluOps[(opcode>>3)&0x07]
		return Command{Op: op, Operand: operandAt(opcode & 0x07)}
	}

	switch opcode {
	case 0x00:
		return Command{Op: NOP}
	case 0x76:
		return Command{Op: HALT}
	case 0x10:
		fetch8() // STOP's second byte is always 0x00 and carries no data
		return Command{Op: STOP}
	case 0x07:
		return Command{Op: RLC, Operand: RegOperand(register.A), Small: true}
	case 0x0F:
		return Command{Op: RRC, Operand: RegOperand(register.A), Small: true}
	case 0x17:
		return Command{Op: RL, Operand: RegOperand(register.A), Small: true}
	case 0x1F:
		return Command{Op: RR, Operand: RegOperand(register.A), Small: true}
	case 0x27:
		return Command{Op: DAA}
	case 0x2F:
		return Command{Op: CPL}
	case 0x37:
		return Command{Op: SCF}
	case 0x3F:
		return Command{Op: CCF}
	case 0x3E:
		return Command{Op: LD_A_U8, Imm8: fetch8()}
	case 0x18:
		return Command{Op: JR_I8, Signed8: int8(fetch8())}
	case 0x08:
		return Command{Op: LD_U16_SP, Imm16: fetch16()}
	case 0xE8:
		return Command{Op: ADD_SP_I8, Signed8: int8(fetch8())}
	case 0xF8:
		return Command{Op: LD_HL_SP_I8, Signed8: int8(fetch8())}
	case 0xF9:
		return Command{Op: LD_SP_HL}
	case 0xE9:
		return Command{Op: JP_HL}
	case 0xC3:
		return Command{Op: JP_U16, Imm16: fetch16()}
	case 0xCD:
		return Command{Op: CALL_U16, Imm16: fetch16()}
	case 0xC9:
		return Command{Op: RET}
	case 0xD9:
		return Command{Op: RETI}
	case 0xF3:
		return Command{Op: DI}
	case 0xFB:
		return Command{Op: EI}
	case 0xE0:
		return Command{Op: LDH_U8_A, Imm8: fetch8()}
	case 0xF0:
		return Command{Op: LDH_A_U8, Imm8: fetch8()}
	case 0xE2:
		return Command{Op: LDH_C_A}
	case 0xF2:
		return Command{Op: LDH_A_C}
	case 0xEA:
		return Command{Op: LDH_U16_A, Imm16: fetch16()}
	case 0xFA:
		return Command{Op: LDH_A_U16, Imm16: fetch16()}
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		panic("cpu: illegal opcode")
	}

	// Remaining blocks are keyed by the 2-bit register/condition index in
	// bits 5-4, shared by four opcodes each.
	idx := (opcode >> 4) & 0x03

	switch opcode & 0xCF {
	case 0x01:
		return Command{Op: LD_R16_U16, Pair: r16sp[idx], Imm16: fetch16()}
	case 0x03:
		return Command{Op: INC_R16, Pair: r16sp[idx]}
	case 0x0B:
		return Command{Op: DEC_R16, Pair: r16sp[idx]}
	case 0x09:
		return Command{Op: ADD_HL_R16, Pair: r16sp[idx]}
	case 0x0A:
		switch idx {
		case 0:
			return Command{Op: LD_A_R16, Pair: register.BC}
		case 1:
			return Command{Op: LD_A_R16, Pair: register.DE}
		case 2:
			return Command{Op: LD_A_HLI}
		default:
			return Command{Op: LD_A_HLD}
		}
	case 0x02:
		switch idx {
		case 0:
			return Command{Op: LD_R16_A, Pair: register.BC}
		case 1:
			return Command{Op: LD_R16_A, Pair: register.DE}
		case 2:
			return Command{Op: LD_HLI_A}
		default:
			return Command{Op: LD_HLD_A}
		}
	case 0xC1:
		return Command{Op: POP_R16, Pair: r16af[idx]}
	case 0xC5:
		if idx == 3 {
			return Command{Op: PUSH_AF}
		}
		return Command{Op: PUSH_R16, Pair: r16af[idx]}
	}

	switch opcode & 0xC7 {
	case 0x04:
		if (opcode>>3)&0x07 == 6 {
			return Command{Op: INCH_HL}
		}
		return Command{Op: INC_R8, Reg: r8[(opcode>>3)&0x07]}
	case 0x05:
		if (opcode>>3)&0x07 == 6 {
			return Command{Op: DECH_HL}
		}
		return Command{Op: DEC_R8, Reg: r8[(opcode>>3)&0x07]}
	case 0x06:
		reg := (opcode >> 3) & 0x07
		imm := fetch8()
		if reg == 6 {
			return Command{Op: LDH_HL_U8, Imm8: imm}
		}
		return Command{Op: LD_R8_U8, Reg: r8[reg], Imm8: imm}
	case 0xC6:
		return Command{Op: aluOps[(opcode>>3)&0x07], Operand: ImmOperand(fetch8())}
	case 0xC7:
		return Command{Op: RST, RstVec: RstVec((opcode >> 3) & 0x07 * 8)}
	}

	// The four JR cc,i8 / JP cc,u16 / CALL cc,u16 / RET cc opcodes for each
	// condition live at fixed rows, keyed by bits 4-3 -- a different 2-bit
	// field than the register index above, which lives in bits 5-4.
	cc := ccTable[(opcode>>3)&0x03]
	switch {
	case opcode >= 0x20 && opcode <= 0x38 && opcode&0x07 == 0:
		return Command{Op: JR_CC_I8, CC: cc, Signed8: int8(fetch8())}
	case opcode >= 0xC0 && opcode <= 0xD8 && opcode&0x07 == 0:
		return Command{Op: RET_CC, CC: cc}
	case opcode >= 0xC2 && opcode <= 0xDA && opcode&0x07 == 2:
		return Command{Op: JP_CC_U16, CC: cc, Imm16: fetch16()}
	case opcode >= 0xC4 && opcode <= 0xDC && opcode&0x07 == 4:
		return Command{Op: CALL_CC_U16, CC: cc, Imm16: fetch16()}
	}

	panic("cpu: unhandled opcode")
}

// decodeCB decodes the 2-byte CB-prefixed space. Every one of the 256
// values is a legal instruction, unlike the unprefixed table.
func decodeCB(cb byte) Command {
	row := cb >> 3
	col := cb & 0x07
	bit := Bit(row & 0x07)

	switch {
	case row < 8:
		ops := [8]Op{RLC, RRC, RL, RR, SLA, SRA, 0, SRL}
		if row == 6 {
			if col == 6 {
				return Command{Op: SWAP_HL}
			}
			return Command{Op: SWAP_R8, Reg: r8[col]}
		}
		return Command{Op: ops[row], Operand: operandAt(col)}
	case row < 16:
		return Command{Op: BIT_U3, Bit: bit, Operand: operandAt(col)}
	case row < 24:
		if col == 6 {
			return Command{Op: RES_U3_HL, Bit: bit}
		}
		return Command{Op: RES_U3_R8, Bit: bit, Reg: r8[col]}
	default:
		if col == 6 {
			return Command{Op: SET_U3_HL, Bit: bit}
		}
		return Command{Op: SET_U3_R8, Bit: bit, Reg: r8[col]}
	}
}
