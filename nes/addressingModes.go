package nes

import (
	"fmt"
)

type AddressingMode int

const (
	IMP AddressingMode = iota // Implied, or accumulator. Has no operand address.
	IMM
	REL
	ZP0
	ZPX
	ZPY
	ABS
	ABX
	ABY
	IND
	IZX
	IZY
)

var addressingModeNames = [...]string{
	IMP: "IMP", IMM: "IMM", REL: "REL", ZP0: "ZP0", ZPX: "ZPX", ZPY: "ZPY",
	ABS: "ABS", ABX: "ABX", ABY: "ABY", IND: "IND", IZX: "IZX", IZY: "IZY",
}

func (m AddressingMode) String() string {
	if m < 0 || int(m) >= len(addressingModeNames) {
		return fmt.Sprintf("AddressingMode(%d)", int(m))
	}
	return addressingModeNames[m]
}

// Number of operand bytes following the opcode.
func (m AddressingMode) operandLength() int {
	switch m {
	case IMP:
		return 0
	case ABS, ABX, ABY, IND:
		return 2
	}
	return 1
}

// invalidModeError is raised as a panic by operandAddress and recovered by
// Step, which turns it into an ExecutionError.
type invalidModeError struct {
	mode AddressingMode
}

// //////////////////////////////////////////////////////////////
// Addressing Modes

// operandAddress resolves the effective address of the current instruction's
// operand. The program counter must point at the first operand byte, and is
// left untouched: the run loop advances past the operand afterwards.
func (cpu *Cpu6502) operandAddress(mode AddressingMode) uint16 {
	pc := cpu.Pc

	switch mode {
	case IMM:
		// The second byte of the instruction contains the operand.
		return pc

	case ZP0:
		return uint16(cpu.read(pc))

	case ZPX:
		// Indexing wraps within page zero.
		return uint16(cpu.read(pc) + cpu.X)

	case ZPY:
		return uint16(cpu.read(pc) + cpu.Y)

	case ABS:
		return cpu.readWord(pc)

	case ABX:
		base := cpu.readWord(pc)
		addr := base + uint16(cpu.X)
		cpu.pageCross = pageCrossed(base, addr)
		return addr

	case ABY:
		base := cpu.readWord(pc)
		addr := base + uint16(cpu.Y)
		cpu.pageCross = pageCrossed(base, addr)
		return addr

	case IZX:
		// Add X to the zero page pointer. Both bytes of the effective address
		// are fetched from page zero.
		ptr := cpu.read(pc) + cpu.X
		return cpu.readZeroPageWord(ptr)

	case IZY:
		// The zero page pointer is dereferenced as is, then Y is added to the
		// resulting address.
		base := cpu.readZeroPageWord(cpu.read(pc))
		addr := base + uint16(cpu.Y)
		cpu.pageCross = pageCrossed(base, addr)
		return addr

	case REL:
		// Signed displacement from the address following the operand.
		offset := int8(cpu.read(pc))
		next := pc + 1
		addr := next + uint16(offset)
		cpu.pageCross = pageCrossed(next, addr)
		return addr

	case IND:
		// Only used by JMP. The 6502 does not carry into the high byte when
		// fetching the pointer, so a pointer at $xxFF reads its high byte from
		// $xx00.
		ptr := cpu.readWord(pc)
		lo := cpu.read(ptr)
		hi := cpu.read((ptr & 0xFF00) | uint16(loByte(ptr)+1))
		return makeWord(lo, hi)
	}

	panic(invalidModeError{mode})
}

// Read a word from page zero, wrapping the high byte's address within the page.
func (cpu *Cpu6502) readZeroPageWord(ptr byte) uint16 {
	lo := cpu.read(uint16(ptr))
	hi := cpu.read(uint16(ptr + 1))
	return makeWord(lo, hi)
}
