package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSext(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		x        word
		bits     uint
		expected word
	}){
		{"imm5_minus_one", 0b11111, 5, 0xFFFF},
		{"imm5_one", 0b00001, 5, 0x0001},
		{"imm5_min", 0b10000, 5, 0xFFF0},
		{"imm5_max", 0b01111, 5, 0x000F},
		{"offset6_min", 0x20, 6, 0xFFE0},
		{"offset9_minus_one", 0x1FF, 9, 0xFFFF},
		{"offset9_max", 0x0FF, 9, 0x00FF},
		{"offset11_min", 0x400, 11, 0xFC00},
		{"zero", 0, 9, 0},
	}

	for _, entry := range table {
		got := sext(entry.x, entry.bits)
		assert.Equal(entry.expected, got, entry.name)
		// extending again from the same width changes nothing
		assert.Equal(got, sext(got&(1<<entry.bits-1), entry.bits), entry.name)
	}
}

func FuzzSext(f *testing.F) {
	f.Add(uint16(0), uint8(5))
	f.Add(uint16(0xFFFF), uint8(9))

	f.Fuzz(func(t *testing.T, x uint16, n uint8) {
		bits := uint(n%15) + 1
		field := word(x) & (1<<bits - 1)
		got := sext(field, bits)

		expected := int16(field<<(16-bits)) >> (16 - bits)
		assert.Equal(t, uint16(expected), uint16(got))
	})
}

func TestDecodeFields(t *testing.T) {
	assert := assert.New(t)

	// ADD R3, R5, #-2
	in := instruction(opADDi(R3, R5, -2))
	assert.Equal(OP_ADD, in.opcode())
	assert.Equal(word(R3), in.dr())
	assert.Equal(word(R5), in.sr1())
	assert.True(in.immediate())
	assert.Equal(word(0xFFFE), in.imm5())

	// ADD R1, R2, R6
	in = instruction(opADD(R1, R2, R6))
	assert.False(in.immediate())
	assert.Equal(word(R6), in.sr2())

	in = instruction(opJSR(-1))
	assert.Equal(OP_JSR, in.opcode())
	assert.True(in.long())
	assert.Equal(word(0xFFFF), in.pcoffset11())

	in = instruction(opJSRR(R4))
	assert.False(in.long())
	assert.Equal(word(R4), in.sr1())

	in = instruction(opLDR(R2, R6, -32))
	assert.Equal(word(0xFFE0), in.offset6())

	in = instruction(opLD(R0, 255))
	assert.Equal(word(0x00FF), in.pcoffset9())

	in = instruction(opTRAP(TRAP_HALT))
	assert.Equal(OP_TRAP, in.opcode())
	assert.Equal(TRAP_HALT, in.trapvect8())
}

func TestDecodeAllOpcodes(t *testing.T) {
	assert := assert.New(t)

	for op := 0; op < 16; op++ {
		in := instruction(word(op) << 12)
		assert.Equal(opcode(op), in.opcode())
		assert.NotEmpty(in.String())
	}
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code     word
		expected string
	}){
		{opADDi(R0, R0, 5), "ADD R0, R0, #5"},
		{opADD(R1, R2, R3), "ADD R1, R2, R3"},
		{opANDi(R2, R2, 0), "AND R2, R2, #0"},
		{opNOT(R4, R5), "NOT R4, R5"},
		{opBR(FLAG_NEG|FLAG_POS, -3), "BRnp #-3"},
		{opBR(FLAG_NEG|FLAG_ZRO|FLAG_POS, 0), "BRnzp #0"},
		{opBR(0, 7), "NOP"},
		{opJMP(R3), "JMP R3"},
		{opJMP(R7), "RET"},
		{opJSR(16), "JSR #16"},
		{opJSRR(R2), "JSRR R2"},
		{opLD(R1, -1), "LD R1, #-1"},
		{opLDI(R1, 2), "LDI R1, #2"},
		{opLDR(R1, R6, 3), "LDR R1, R6, #3"},
		{opLEA(R0, 2), "LEA R0, #2"},
		{opST(R3, 4), "ST R3, #4"},
		{opSTI(R3, -4), "STI R3, #-4"},
		{opSTR(R3, R5, -1), "STR R3, R5, #-1"},
		{opTRAP(TRAP_PUTS), "PUTS"},
		{opTRAP(0x7F), "TRAP x7F"},
		{0x8000, "RTI"},
		{0xD123, "RES"},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, instruction(entry.code).String())
	}
}
