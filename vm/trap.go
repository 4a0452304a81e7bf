package vm

import "context"

const (
	TRAP_GETC  word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   word = 0x21 /* output a character */
	TRAP_PUTS  word = 0x22 /* output a word string */
	TRAP_IN    word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP word = 0x24 /* output a byte string */
	TRAP_HALT  word = 0x25 /* halt the program */
)

var trapNames = map[word]string{
	TRAP_GETC:  "GETC",
	TRAP_OUT:   "OUT",
	TRAP_PUTS:  "PUTS",
	TRAP_IN:    "IN",
	TRAP_PUTSP: "PUTSP",
	TRAP_HALT:  "HALT",
}

// trap runs the service routine for vector. Unknown vectors do nothing.
func (cpu *cpu) trap(ctx context.Context, vector word) (err error) {
	defer func() {
		if err != nil {
			err = &ErrTrap{Vector: uint16(vector), Err: err}
		}
	}()

	switch vector {
	case TRAP_GETC:
		return cpu.getc(ctx, false)

	case TRAP_OUT:
		return cpu.console.WriteByte(byte(cpu.generalPurposeRegisters[R0]))

	case TRAP_PUTS:
		for addr := cpu.generalPurposeRegisters[R0]; ; addr++ {
			c := cpu.memory.read(addr)
			if c == 0 {
				return nil
			}
			if err := cpu.console.WriteByte(byte(c)); err != nil {
				return err
			}
		}

	case TRAP_IN:
		if err := cpu.writeString(f("Enter a character: ")); err != nil {
			return err
		}
		return cpu.getc(ctx, true)

	case TRAP_PUTSP:
		for addr := cpu.generalPurposeRegisters[R0]; ; addr++ {
			pair := cpu.memory.read(addr)
			if pair == 0 {
				return nil
			}
			if err := cpu.console.WriteByte(byte(pair)); err != nil {
				return err
			}
			if hi := byte(pair >> 8); hi != 0 {
				if err := cpu.console.WriteByte(hi); err != nil {
					return err
				}
			}
		}

	case TRAP_HALT:
		cpu.halt()
		return cpu.writeString(f("HALT") + "\n")
	}

	return nil
}

// getc blocks for one key, stores it in R0 and optionally echoes it.
func (cpu *cpu) getc(ctx context.Context, echo bool) error {
	c, err := cpu.console.ReadKey(ctx)
	if err != nil {
		return err
	}
	cpu.generalPurposeRegisters[R0] = word(c)
	cpu.updateFlags(R0)
	if echo {
		return cpu.console.WriteByte(c)
	}
	return nil
}

func (cpu *cpu) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := cpu.console.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}
