package vm

import "context"

const MemorySize = 1 << 16

const (
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

// set in KBSR while KBDR holds an unread key
const keyReady word = 0x8000

type memory struct {
	ram      [MemorySize]word
	keyboard Console
}

// read returns the cell at addr. Reading KBSR polls the keyboard and
// refreshes KBSR and KBDR before the status is returned.
func (mem *memory) read(addr word) word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

func (mem *memory) write(addr, value word) {
	mem.ram[addr] = value
}

// peek reads a cell without any device side effect.
func (mem *memory) peek(addr word) word {
	return mem.ram[addr]
}

func (mem *memory) pollKeyboard() {
	if mem.keyboard != nil && mem.keyboard.KeyAvailable() {
		c, err := mem.keyboard.ReadKey(context.Background())
		if err == nil {
			mem.ram[KBSR] = keyReady
			mem.ram[KBDR] = word(c)
			return
		}
	}
	mem.ram[KBSR] = 0
}

func (mem *memory) clear() {
	mem.ram = [MemorySize]word{}
}

func newMemory(keyboard Console) *memory {
	return &memory{keyboard: keyboard}
}
