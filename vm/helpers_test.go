package vm

import (
	"bytes"
	"context"
	"errors"
	goIO "io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testConsole is a Console fed from a byte slice.
type testConsole struct {
	input    []byte
	output   bytes.Buffer
	writeErr error
	polls    int
}

func (tc *testConsole) KeyAvailable() bool {
	tc.polls++
	return len(tc.input) > 0
}

func (tc *testConsole) ReadKey(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(tc.input) == 0 {
		return 0, goIO.EOF
	}
	c := tc.input[0]
	tc.input = tc.input[1:]
	return c, nil
}

func (tc *testConsole) WriteByte(c byte) error {
	if tc.writeErr != nil {
		return tc.writeErr
	}
	return tc.output.WriteByte(c)
}

var errBrokenPipe = errors.New("broken pipe")

// Instruction encoders.

func opADD(dr, sr1, sr2 word) word {
	return 0x1000 | dr<<9 | sr1<<6 | sr2
}

func opADDi(dr, sr1 word, imm int) word {
	return 0x1000 | dr<<9 | sr1<<6 | 1<<5 | word(imm)&0x1F
}

func opAND(dr, sr1, sr2 word) word {
	return 0x5000 | dr<<9 | sr1<<6 | sr2
}

func opANDi(dr, sr1 word, imm int) word {
	return 0x5000 | dr<<9 | sr1<<6 | 1<<5 | word(imm)&0x1F
}

func opNOT(dr, sr word) word {
	return 0x9000 | dr<<9 | sr<<6 | 0x3F
}

func opBR(nzp Flag, off int) word {
	return word(nzp)<<9 | word(off)&0x1FF
}

func opJMP(base word) word {
	return 0xC000 | base<<6
}

func opJSR(off int) word {
	return 0x4800 | word(off)&0x7FF
}

func opJSRR(base word) word {
	return 0x4000 | base<<6
}

func opLD(dr word, off int) word {
	return 0x2000 | dr<<9 | word(off)&0x1FF
}

func opLDI(dr word, off int) word {
	return 0xA000 | dr<<9 | word(off)&0x1FF
}

func opLDR(dr, base word, off int) word {
	return 0x6000 | dr<<9 | base<<6 | word(off)&0x3F
}

func opLEA(dr word, off int) word {
	return 0xE000 | dr<<9 | word(off)&0x1FF
}

func opST(sr word, off int) word {
	return 0x3000 | sr<<9 | word(off)&0x1FF
}

func opSTI(sr word, off int) word {
	return 0xB000 | sr<<9 | word(off)&0x1FF
}

func opSTR(sr, base word, off int) word {
	return 0x7000 | sr<<9 | base<<6 | word(off)&0x3F
}

func opTRAP(vector word) word {
	return 0xF000 | vector&0xFF
}

// newTestVM returns a VM with program placed at 0x3000.
func newTestVM(input string, program ...word) (*VM, *testConsole) {
	console := &testConsole{input: []byte(input)}
	vm := NewVM(console)
	for n, code := range program {
		vm.memory.write(UserSpaceStart+word(n), code)
	}
	return vm, console
}

// image encodes an origin and words as a big endian image file.
func image(origin word, words ...word) []byte {
	buf := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range words {
		buf = append(buf, byte(w>>8), byte(w))
	}
	return buf
}

func stepN(t *testing.T, vm *VM, n int) {
	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step(context.Background()))
	}
}
