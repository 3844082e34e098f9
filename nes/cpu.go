package nes

import (
	"log"

	"github.com/pkg/errors"
)

type Cpu6502 struct {
	Pc     uint16 // Program Counter
	Sp     byte   // Stack Pointer: low 8 bits of next free location on stack.
	A      byte   // Accumulator Register
	X      byte   // X Register
	Y      byte   // Y Register
	Status byte   // Processor Status Flags

	bus *Bus // Communication Bus

	// Internal variables
	Opcode     byte   // Opcode of the instruction being executed
	CycleCount uint64 // Total # of cycles executed by the CPU, see Instruction.Cycles

	halted      bool // Set by BRK, cleared by Reset
	pcMoved     bool // Whether the current instruction loaded the program counter itself
	pageCross   bool // Set by addressing mode resolution when indexing crossed a page
	extraCycles int  // Cycles added by a taken branch

	Logger *log.Logger // CPU logging
}

const (
	stackBase uint16 = 0x0100
	stackInit byte   = 0xFD

	nmiVectAddr   uint16 = 0xFFFA
	resetVectAddr uint16 = 0xFFFC
)

func NewCpu6502() *Cpu6502 {
	return &Cpu6502{
		Sp:     stackInit,
		Logger: Config{}.logger(),
	}
}

// Connect the CPU to a 16-bit address bus.
func (cpu *Cpu6502) ConnectBus(b *Bus) { cpu.bus = b }

// Read from the attached bus.
func (cpu *Cpu6502) read(addr uint16) byte {
	return cpu.bus.Read(addr)
}

// Write to the attached bus.
func (cpu *Cpu6502) write(addr uint16, data byte) {
	cpu.bus.Write(addr, data)
}

// Read a word from memory (little endian order).
func (cpu *Cpu6502) readWord(addr uint16) uint16 {
	return cpu.bus.ReadWord(addr)
}

// Functions to push and pop from the stack.
func (cpu *Cpu6502) stackPush(data byte) {
	cpu.write(stackBase|uint16(cpu.Sp), data)
	cpu.Sp--
}

func (cpu *Cpu6502) stackPop() byte {
	cpu.Sp++
	return cpu.read(stackBase | uint16(cpu.Sp))
}

// High byte first, so the word sits in little endian order on the stack.
func (cpu *Cpu6502) stackPushWord(data uint16) {
	cpu.stackPush(hiByte(data))
	cpu.stackPush(loByte(data))
}

func (cpu *Cpu6502) stackPopWord() uint16 {
	lo := cpu.stackPop()
	hi := cpu.stackPop()
	return makeWord(lo, hi)
}

// Load the program counter from within an instruction. The run loop will not
// advance past the operand of an instruction that did this.
func (cpu *Cpu6502) jump(addr uint16) {
	cpu.Pc = addr
	cpu.pcMoved = true
}

////////////////////////////////////////////////////////////////
// Interrupts

// Reset clears the registers and loads the program counter from the reset
// vector. Memory is left as it is.
func (cpu *Cpu6502) Reset() {
	cpu.A = 0x00
	cpu.X = 0x00
	cpu.Y = 0x00
	cpu.Status = 0x00
	cpu.Sp = stackInit

	cpu.Pc = cpu.readWord(resetVectAddr)

	cpu.halted = false
	cpu.pcMoved = false
	cpu.pageCross = false
	cpu.extraCycles = 0
	cpu.bus.takeFault()

	// Spend time on reset
	cpu.CycleCount = 7
}

// Nmi services a non-maskable interrupt: the program counter and status are
// pushed and execution continues at the address in the NMI vector.
func (cpu *Cpu6502) Nmi() {
	cpu.stackPushWord(cpu.Pc)

	// Hardware interrupts push the status with B clear.
	cpu.stackPush((cpu.Status &^ byte(StatusFlagB)) | byte(StatusFlagU))
	cpu.setFlag(StatusFlagI, true)

	cpu.Pc = cpu.readWord(nmiVectAddr)
	cpu.CycleCount += 7
}

// Halted reports whether the CPU has executed a BRK since its last reset.
func (cpu *Cpu6502) Halted() bool { return cpu.halted }

////////////////////////////////////////////////////////////////
// Execution

// Step executes a single instruction. Stepping a halted CPU does nothing.
func (cpu *Cpu6502) Step() error {
	if cpu.halted {
		return nil
	}

	opAddr := cpu.Pc

	// Get the next opcode by reading from the bus at the location of the
	// current program counter.
	cpu.Opcode = cpu.read(cpu.Pc)

	inst := instLookup[cpu.Opcode]
	if inst == nil {
		err := &ExecutionError{Pc: opAddr, Opcode: cpu.Opcode, Err: ErrUnimplementedOpcode}
		cpu.Logger.Print(err)
		return err
	}

	cpu.Pc++

	if err := cpu.execute(inst); err != nil {
		err = &ExecutionError{Pc: opAddr, Opcode: cpu.Opcode, Err: err}
		cpu.Logger.Print(err)
		return err
	}

	if cpu.halted {
		cpu.Logger.Printf("cpu: halted by BRK at $%04X", opAddr)
	}

	return nil
}

// execute runs inst with the program counter on its first operand byte, then
// moves the program counter past the operand unless the instruction loaded it.
func (cpu *Cpu6502) execute(inst *Instruction) (err error) {
	cpu.pcMoved = false
	cpu.pageCross = false
	cpu.extraCycles = 0

	// Only faults raised by this instruction are reported.
	cpu.bus.takeFault()

	defer func() {
		if r := recover(); r != nil {
			m, ok := r.(invalidModeError)
			if !ok {
				panic(r)
			}
			err = errors.Wrapf(ErrInvalidAddressingMode, "%s with mode %s", inst.Name, m.mode)
		}
	}()

	inst.exec(cpu, inst.Mode)

	if !cpu.pcMoved {
		cpu.Pc += uint16(inst.Length - 1)
	}

	cpu.CycleCount += uint64(inst.Cycles + cpu.extraCycles)
	if inst.PagePenalty && cpu.pageCross {
		cpu.CycleCount++
	}

	return cpu.bus.takeFault()
}

// Run executes instructions until a BRK halts the CPU or an instruction fails.
func (cpu *Cpu6502) Run() error {
	return cpu.RunWithObserver(nil)
}

// RunWithObserver is Run, calling obs with a snapshot of the CPU before each
// instruction executes. The snapshot is a copy: the observer cannot alter the
// CPU or the bus through it.
func (cpu *Cpu6502) RunWithObserver(obs func(CpuState)) error {
	for !cpu.halted {
		if obs != nil {
			obs(cpu.State())
		}

		if err := cpu.Step(); err != nil {
			return err
		}
	}

	return nil
}
