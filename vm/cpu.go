package vm

import (
	"context"
	"log"
)

// Flag is the condition code: exactly one of FLAG_POS, FLAG_ZRO or FLAG_NEG.
type Flag uint16

// general purpose registers
const (
	R0 = 0b000
	R1 = 0b001
	R2 = 0b010
	R3 = 0b011
	R4 = 0b100
	R5 = 0b101
	R6 = 0b110
	R7 = 0b111
)

// flags
const (
	FLAG_POS Flag = 0b001
	FLAG_ZRO Flag = 0b010
	FLAG_NEG Flag = 0b100
)

func (fl Flag) String() string {
	switch fl {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return "?"
}

type cpu struct {
	running           bool
	halted            bool
	verbose           bool
	memory            *memory
	internalRegisters struct {
		pc   word
		cond Flag
	}
	generalPurposeRegisters [8]word
	console                 Console
}

// start runs the fetch-decode-execute loop until HALT, a trap error or
// ctx is done. A halted cpu stays halted until reset.
func (cpu *cpu) start(ctx context.Context) error {
	if cpu.halted {
		return ErrHalted
	}
	cpu.running = true

	for cpu.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cpu.step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (cpu *cpu) stop() {
	cpu.running = false
}

func (cpu *cpu) halt() {
	cpu.halted = true
	cpu.stop()
}

func (cpu *cpu) step(ctx context.Context) error {
	instr := instruction(cpu.memory.read(cpu.internalRegisters.pc))
	if cpu.verbose {
		log.Printf("0x%04x %v", uint16(cpu.internalRegisters.pc), instr)
	}
	cpu.internalRegisters.pc++
	return cpu.execute(ctx, instr)
}

func (cpu *cpu) execute(ctx context.Context, instr instruction) error {
	reg := &cpu.generalPurposeRegisters
	pc := &cpu.internalRegisters.pc

	switch instr.opcode() {
	case OP_ADD:
		dr := instr.dr()
		if instr.immediate() {
			reg[dr] = reg[instr.sr1()] + instr.imm5()
		} else {
			reg[dr] = reg[instr.sr1()] + reg[instr.sr2()]
		}
		cpu.updateFlags(dr)

	case OP_AND:
		dr := instr.dr()
		if instr.immediate() {
			reg[dr] = reg[instr.sr1()] & instr.imm5()
		} else {
			reg[dr] = reg[instr.sr1()] & reg[instr.sr2()]
		}
		cpu.updateFlags(dr)

	case OP_NOT:
		dr := instr.dr()
		reg[dr] = ^reg[instr.sr1()]
		cpu.updateFlags(dr)

	case OP_BR:
		nzp := Flag(instr.dr())
		if nzp&cpu.internalRegisters.cond != 0 {
			*pc += instr.pcoffset9()
		}

	case OP_JMP:
		*pc = reg[instr.sr1()]

	case OP_JSR:
		reg[R7] = *pc
		if instr.long() {
			*pc += instr.pcoffset11()
		} else {
			*pc = reg[instr.sr1()]
		}

	case OP_LD:
		dr := instr.dr()
		reg[dr] = cpu.memory.read(*pc + instr.pcoffset9())
		cpu.updateFlags(dr)

	case OP_LDI:
		dr := instr.dr()
		reg[dr] = cpu.memory.read(cpu.memory.read(*pc + instr.pcoffset9()))
		cpu.updateFlags(dr)

	case OP_LDR:
		dr := instr.dr()
		reg[dr] = cpu.memory.read(reg[instr.sr1()] + instr.offset6())
		cpu.updateFlags(dr)

	case OP_LEA:
		dr := instr.dr()
		reg[dr] = *pc + instr.pcoffset9()
		cpu.updateFlags(dr)

	case OP_ST:
		cpu.memory.write(*pc+instr.pcoffset9(), reg[instr.dr()])

	case OP_STI:
		cpu.memory.write(cpu.memory.read(*pc+instr.pcoffset9()), reg[instr.dr()])

	case OP_STR:
		cpu.memory.write(reg[instr.sr1()]+instr.offset6(), reg[instr.dr()])

	case OP_TRAP:
		reg[R7] = *pc
		return cpu.trap(ctx, instr.trapvect8())

	case OP_RTI, OP_RES:
		// no supervisor mode
	}

	return nil
}

func (cpu *cpu) updateFlags(r word) {
	value := cpu.generalPurposeRegisters[r]
	if value == 0 {
		cpu.internalRegisters.cond = FLAG_ZRO
	} else if value>>15 != 0 {
		cpu.internalRegisters.cond = FLAG_NEG
	} else {
		cpu.internalRegisters.cond = FLAG_POS
	}
}

func (cpu *cpu) reset() {
	cpu.running = false
	cpu.halted = false
	cpu.generalPurposeRegisters = [8]word{}
	cpu.internalRegisters.pc = UserSpaceStart
	cpu.internalRegisters.cond = FLAG_ZRO
}

func newCpu(memory *memory, console Console) cpu {
	cpu := cpu{
		memory:  memory,
		console: console,
	}
	cpu.reset()
	return cpu
}
