package vm

import "fmt"

type word uint16

type opcode word

// opcodes
const (
	OP_BR opcode = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES
	OP_LEA
	OP_TRAP
)

var opcodeNames = [...]string{
	OP_BR:   "BR",
	OP_ADD:  "ADD",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_JSR:  "JSR",
	OP_AND:  "AND",
	OP_LDR:  "LDR",
	OP_STR:  "STR",
	OP_RTI:  "RTI",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_STI:  "STI",
	OP_JMP:  "JMP",
	OP_RES:  "RES",
	OP_LEA:  "LEA",
	OP_TRAP: "TRAP",
}

func (op opcode) String() string {
	return opcodeNames[op&0xF]
}

// instruction is a raw 16-bit instruction word. Every bit pattern decodes.
type instruction word

func (in instruction) opcode() opcode {
	return opcode(in >> 12)
}

// dr is bits 11..9: the destination register, the source register of
// the stores, or the nzp mask of BR.
func (in instruction) dr() word {
	return word(in>>9) & 0b111
}

// sr1 is bits 8..6: the first source register or the base register.
func (in instruction) sr1() word {
	return word(in>>6) & 0b111
}

// sr2 is bits 2..0.
func (in instruction) sr2() word {
	return word(in) & 0b111
}

// immediate reports whether ADD/AND use imm5 instead of sr2.
func (in instruction) immediate() bool {
	return (in>>5)&0b1 == 1
}

// long reports whether JSR uses pcoffset11 instead of a base register.
func (in instruction) long() bool {
	return (in>>11)&0b1 == 1
}

func (in instruction) imm5() word {
	return sext(word(in)&0x1F, 5)
}

func (in instruction) offset6() word {
	return sext(word(in)&0x3F, 6)
}

func (in instruction) pcoffset9() word {
	return sext(word(in)&0x1FF, 9)
}

func (in instruction) pcoffset11() word {
	return sext(word(in)&0x7FF, 11)
}

func (in instruction) trapvect8() word {
	return word(in) & 0xFF
}

// sext sign extends the low bitCount bits of x to a full word.
func sext(x word, bitCount uint) word {
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}

// String disassembles the instruction.
func (in instruction) String() string {
	op := in.opcode()

	switch op {
	case OP_ADD, OP_AND:
		if in.immediate() {
			return fmt.Sprintf("%v R%d, R%d, #%d", op, in.dr(), in.sr1(), int16(in.imm5()))
		}
		return fmt.Sprintf("%v R%d, R%d, R%d", op, in.dr(), in.sr1(), in.sr2())
	case OP_NOT:
		return fmt.Sprintf("NOT R%d, R%d", in.dr(), in.sr1())
	case OP_BR:
		nzp := Flag(in.dr())
		if nzp == 0 {
			return "NOP"
		}
		mnemonic := "BR"
		if nzp&FLAG_NEG != 0 {
			mnemonic += "n"
		}
		if nzp&FLAG_ZRO != 0 {
			mnemonic += "z"
		}
		if nzp&FLAG_POS != 0 {
			mnemonic += "p"
		}
		return fmt.Sprintf("%v #%d", mnemonic, int16(in.pcoffset9()))
	case OP_JMP:
		if in.sr1() == R7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", in.sr1())
	case OP_JSR:
		if in.long() {
			return fmt.Sprintf("JSR #%d", int16(in.pcoffset11()))
		}
		return fmt.Sprintf("JSRR R%d", in.sr1())
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		return fmt.Sprintf("%v R%d, #%d", op, in.dr(), int16(in.pcoffset9()))
	case OP_LDR, OP_STR:
		return fmt.Sprintf("%v R%d, R%d, #%d", op, in.dr(), in.sr1(), int16(in.offset6()))
	case OP_TRAP:
		if name, ok := trapNames[in.trapvect8()]; ok {
			return name
		}
		return fmt.Sprintf("TRAP x%02X", uint16(in.trapvect8()))
	default:
		return op.String()
	}
}
