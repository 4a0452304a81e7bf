package vm

import (
	"bytes"
	"context"
	"encoding/binary"
	goIO "io"
	"log"
	"os"
)

// VM is an LC-3 machine: memory, the register file and a console.
type VM struct {
	Verbose bool // If set, every executed instruction is logged.

	memory *memory
	cpu    cpu
}

// Registers is a snapshot of the register file.
type Registers struct {
	R    [8]uint16
	PC   uint16
	Cond Flag
}

func NewVM(console Console) *VM {
	mem := newMemory(console)
	return &VM{
		memory: mem,
		cpu:    newCpu(mem, console),
	}
}

// Run executes from the current PC until HALT. A trap failure or ctx
// being done stops the machine early and is returned. Once halted, Run
// and Step return ErrHalted until Reset.
func (vm *VM) Run(ctx context.Context) error {
	vm.cpu.verbose = vm.Verbose
	return vm.cpu.start(ctx)
}

// Step executes a single instruction.
func (vm *VM) Step(ctx context.Context) error {
	if vm.cpu.halted {
		return ErrHalted
	}
	vm.cpu.verbose = vm.Verbose
	vm.cpu.running = true
	return vm.cpu.step(ctx)
}

// Halted reports whether the machine stopped on HALT.
func (vm *VM) Halted() bool {
	return vm.cpu.halted
}

// Reset clears memory and registers back to the power on state.
func (vm *VM) Reset() {
	vm.memory.clear()
	vm.cpu.reset()
}

func (vm *VM) Registers() Registers {
	regs := Registers{
		PC:   uint16(vm.cpu.internalRegisters.pc),
		Cond: vm.cpu.internalRegisters.cond,
	}
	for n, r := range vm.cpu.generalPurposeRegisters {
		regs.R[n] = uint16(r)
	}
	return regs
}

// Peek returns a memory cell without polling the keyboard.
func (vm *VM) Peek(addr uint16) uint16 {
	return uint16(vm.memory.peek(word(addr)))
}

// LoadFile reads an image file into memory.
func (vm *VM) LoadFile(path string) error {
	file, err := os.ReadFile(path)
	if err == nil {
		err = vm.readProgramFile(file)
	}
	if err != nil {
		return &ErrLoad{Path: path, Err: err}
	}
	return nil
}

// LoadImage reads an image from r into memory.
func (vm *VM) LoadImage(r goIO.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	return vm.readProgramFile(buf.Bytes())
}

// readProgramFile places a big endian image at the origin held in its
// first word. Nothing is written unless the whole image fits.
func (vm *VM) readProgramFile(file []byte) error {
	if len(file) < 2 {
		return ErrImageShort
	}

	origin := int(binary.BigEndian.Uint16(file))
	// a trailing odd byte is not a whole word
	body := file[2 : len(file)&^1]
	if origin+len(body)/2 > MemorySize {
		return ErrImageOverflow
	}
	log.Printf("Size: %0.2f KB, origin 0x%04x", float32(len(file))/1024, origin)

	for i := 0; i < len(body); i += 2 {
		vm.memory.write(word(origin+i/2), word(binary.BigEndian.Uint16(body[i:])))
	}
	return nil
}
