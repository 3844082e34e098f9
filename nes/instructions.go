package nes

// CPU instructions. Each instruction receives the addressing mode it was
// decoded with and resolves its own operand.

// Read the operand byte for the given addressing mode.
func (cpu *Cpu6502) fetch(mode AddressingMode) byte {
	return cpu.read(cpu.operandAddress(mode))
}

// Read-modify-write helper used by the shift, rotate, increment and decrement
// instructions. The implied mode operates on the accumulator.
func (cpu *Cpu6502) modify(mode AddressingMode, f func(byte) byte) byte {
	if mode == IMP {
		cpu.A = f(cpu.A)
		return cpu.A
	}

	addr := cpu.operandAddress(mode)
	result := f(cpu.read(addr))
	cpu.write(addr, result)

	return result
}

// Take the branch if cond holds. A taken branch costs one more cycle, two if
// it lands on another page.
func (cpu *Cpu6502) branch(mode AddressingMode, cond bool) {
	addr := cpu.operandAddress(mode)
	if !cond {
		return
	}

	cpu.extraCycles++
	if cpu.pageCross {
		cpu.extraCycles++
	}

	cpu.jump(addr)
}

// Add value and the carry to the accumulator. Decimal mode is ignored, the
// NES CPU has no BCD support.
func (cpu *Cpu6502) addWithCarry(value byte) {
	// 16-bit to keep any carry.
	sum := uint16(cpu.A) + uint16(value) + uint16(cpu.carry())
	result := byte(sum)

	cpu.setFlag(StatusFlagC, sum > 0xFF)

	// Overflow when both inputs share a sign that differs from the result.
	cpu.setFlag(StatusFlagV, (cpu.A^result)&(value^result)&0x80 != 0)

	cpu.A = result
	cpu.updateZeroAndNegative(cpu.A)
}

func (cpu *Cpu6502) compare(reg byte, mode AddressingMode) {
	value := cpu.fetch(mode)

	cpu.setFlag(StatusFlagC, reg >= value)
	cpu.updateZeroAndNegative(reg - value)
}

// ADC - Add with Carry
func (cpu *Cpu6502) opADC(mode AddressingMode) {
	cpu.addWithCarry(cpu.fetch(mode))
}

// AND - Logical AND
func (cpu *Cpu6502) opAND(mode AddressingMode) {
	cpu.A &= cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.A)
}

// ASL - Arithmetic Shift Left
func (cpu *Cpu6502) opASL(mode AddressingMode) {
	result := cpu.modify(mode, func(v byte) byte {
		// Set carry flag to old bit 7.
		cpu.setFlag(StatusFlagC, bitSet(v, 7))
		return v << 1
	})
	cpu.updateZeroAndNegative(result)
}

// BCC - Branch if Carry Clear
func (cpu *Cpu6502) opBCC(mode AddressingMode) { cpu.branch(mode, !cpu.hasFlag(StatusFlagC)) }

// BCS - Branch if Carry Set
func (cpu *Cpu6502) opBCS(mode AddressingMode) { cpu.branch(mode, cpu.hasFlag(StatusFlagC)) }

// BEQ - Branch if Equal
func (cpu *Cpu6502) opBEQ(mode AddressingMode) { cpu.branch(mode, cpu.hasFlag(StatusFlagZ)) }

// BMI - Branch if Minus
func (cpu *Cpu6502) opBMI(mode AddressingMode) { cpu.branch(mode, cpu.hasFlag(StatusFlagN)) }

// BNE - Branch if Not Equal
func (cpu *Cpu6502) opBNE(mode AddressingMode) { cpu.branch(mode, !cpu.hasFlag(StatusFlagZ)) }

// BPL - Branch if Positive
func (cpu *Cpu6502) opBPL(mode AddressingMode) { cpu.branch(mode, !cpu.hasFlag(StatusFlagN)) }

// BVC - Branch if Overflow Clear
func (cpu *Cpu6502) opBVC(mode AddressingMode) { cpu.branch(mode, !cpu.hasFlag(StatusFlagV)) }

// BVS - Branch if Overflow Set
func (cpu *Cpu6502) opBVS(mode AddressingMode) { cpu.branch(mode, cpu.hasFlag(StatusFlagV)) }

// BIT - Bit Test
func (cpu *Cpu6502) opBIT(mode AddressingMode) {
	value := cpu.fetch(mode)

	cpu.setFlag(StatusFlagZ, value&cpu.A == 0)

	// V and N are copied from bits 6 and 7 of memory.
	cpu.setFlag(StatusFlagV, bitSet(value, 6))
	cpu.setFlag(StatusFlagN, bitSet(value, 7))
}

// BRK - Force Interrupt. Halts the run loop.
func (cpu *Cpu6502) opBRK(mode AddressingMode) {
	cpu.halted = true
}

// CLC - Clear Carry Flag
func (cpu *Cpu6502) opCLC(mode AddressingMode) { cpu.setFlag(StatusFlagC, false) }

// CLD - Clear Decimal Mode
func (cpu *Cpu6502) opCLD(mode AddressingMode) { cpu.setFlag(StatusFlagD, false) }

// CLI - Clear Interrupt Disable
func (cpu *Cpu6502) opCLI(mode AddressingMode) { cpu.setFlag(StatusFlagI, false) }

// CLV - Clear Overflow Flag
func (cpu *Cpu6502) opCLV(mode AddressingMode) { cpu.setFlag(StatusFlagV, false) }

// CMP - Compare (Accumulator)
func (cpu *Cpu6502) opCMP(mode AddressingMode) { cpu.compare(cpu.A, mode) }

// CPX - Compare X Register
func (cpu *Cpu6502) opCPX(mode AddressingMode) { cpu.compare(cpu.X, mode) }

// CPY - Compare Y Register
func (cpu *Cpu6502) opCPY(mode AddressingMode) { cpu.compare(cpu.Y, mode) }

// DEC - Decrement Memory
func (cpu *Cpu6502) opDEC(mode AddressingMode) {
	result := cpu.modify(mode, func(v byte) byte { return v - 1 })
	cpu.updateZeroAndNegative(result)
}

// DEX - Decrement X Register
func (cpu *Cpu6502) opDEX(mode AddressingMode) {
	cpu.X--
	cpu.updateZeroAndNegative(cpu.X)
}

// DEY - Decrement Y Register
func (cpu *Cpu6502) opDEY(mode AddressingMode) {
	cpu.Y--
	cpu.updateZeroAndNegative(cpu.Y)
}

// EOR - Exclusive OR
func (cpu *Cpu6502) opEOR(mode AddressingMode) {
	cpu.A ^= cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.A)
}

// INC - Increment Memory
func (cpu *Cpu6502) opINC(mode AddressingMode) {
	result := cpu.modify(mode, func(v byte) byte { return v + 1 })
	cpu.updateZeroAndNegative(result)
}

// INX - Increment X Register
func (cpu *Cpu6502) opINX(mode AddressingMode) {
	cpu.X++
	cpu.updateZeroAndNegative(cpu.X)
}

// INY - Increment Y Register
func (cpu *Cpu6502) opINY(mode AddressingMode) {
	cpu.Y++
	cpu.updateZeroAndNegative(cpu.Y)
}

// JMP - Jump
func (cpu *Cpu6502) opJMP(mode AddressingMode) {
	cpu.jump(cpu.operandAddress(mode))
}

// JSR - Jump to Subroutine
func (cpu *Cpu6502) opJSR(mode AddressingMode) {
	target := cpu.operandAddress(mode)

	// Push the address of the last byte of this instruction. RTS adds one.
	cpu.stackPushWord(cpu.Pc + 1)

	cpu.jump(target)
}

// LDA - Load Accumulator
func (cpu *Cpu6502) opLDA(mode AddressingMode) {
	cpu.A = cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.A)
}

// LDX - Load X Register
func (cpu *Cpu6502) opLDX(mode AddressingMode) {
	cpu.X = cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.X)
}

// LDY - Load Y Register
func (cpu *Cpu6502) opLDY(mode AddressingMode) {
	cpu.Y = cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.Y)
}

// LSR - Logical Shift Right
func (cpu *Cpu6502) opLSR(mode AddressingMode) {
	result := cpu.modify(mode, func(v byte) byte {
		// Set carry flag to old bit 0.
		cpu.setFlag(StatusFlagC, bitSet(v, 0))
		return v >> 1
	})
	cpu.updateZeroAndNegative(result)
}

// NOP - No Operation
func (cpu *Cpu6502) opNOP(mode AddressingMode) {}

// ORA - Logical Inclusive OR
func (cpu *Cpu6502) opORA(mode AddressingMode) {
	cpu.A |= cpu.fetch(mode)
	cpu.updateZeroAndNegative(cpu.A)
}

// PHA - Push Accumulator
func (cpu *Cpu6502) opPHA(mode AddressingMode) {
	cpu.stackPush(cpu.A)
}

// PHP - Push Processor Status
func (cpu *Cpu6502) opPHP(mode AddressingMode) {
	// Set B flag according to: http://visual6502.org/wiki/index.php?title=6502_BRK_and_B_bit
	cpu.stackPush(cpu.Status | byte(StatusFlagB) | byte(StatusFlagU))
}

// PLA - Pull Accumulator
func (cpu *Cpu6502) opPLA(mode AddressingMode) {
	cpu.A = cpu.stackPop()
	cpu.updateZeroAndNegative(cpu.A)
}

// PLP - Pull Processor Status
func (cpu *Cpu6502) opPLP(mode AddressingMode) {
	cpu.pullStatus()
}

// B only exists on the stack copy of the status. U always reads back as set.
func (cpu *Cpu6502) pullStatus() {
	cpu.Status = cpu.stackPop()
	cpu.setFlag(StatusFlagB, false)
	cpu.setFlag(StatusFlagU, true)
}

// ROL - Rotate Left
func (cpu *Cpu6502) opROL(mode AddressingMode) {
	carry := cpu.carry()
	result := cpu.modify(mode, func(v byte) byte {
		// Set carry flag to bit 7 of old value.
		cpu.setFlag(StatusFlagC, bitSet(v, 7))
		return v<<1 | carry
	})
	cpu.updateZeroAndNegative(result)
}

// ROR - Rotate Right
func (cpu *Cpu6502) opROR(mode AddressingMode) {
	carry := cpu.carry()
	result := cpu.modify(mode, func(v byte) byte {
		// Set carry flag to bit 0 of old value.
		cpu.setFlag(StatusFlagC, bitSet(v, 0))
		return v>>1 | carry<<7
	})
	cpu.updateZeroAndNegative(result)
}

// RTI - Return from Interrupt
func (cpu *Cpu6502) opRTI(mode AddressingMode) {
	cpu.pullStatus()
	cpu.jump(cpu.stackPopWord())
}

// RTS - Return from Subroutine
func (cpu *Cpu6502) opRTS(mode AddressingMode) {
	cpu.jump(cpu.stackPopWord() + 1)
}

// SBC - Subtract with Carry
func (cpu *Cpu6502) opSBC(mode AddressingMode) {
	// A - M - (1 - C) is A + ^M + C.
	cpu.addWithCarry(^cpu.fetch(mode))
}

// SEC - Set Carry Flag
func (cpu *Cpu6502) opSEC(mode AddressingMode) { cpu.setFlag(StatusFlagC, true) }

// SED - Set Decimal Flag
func (cpu *Cpu6502) opSED(mode AddressingMode) { cpu.setFlag(StatusFlagD, true) }

// SEI - Set Interrupt Disable
func (cpu *Cpu6502) opSEI(mode AddressingMode) { cpu.setFlag(StatusFlagI, true) }

// STA - Store Accumulator
func (cpu *Cpu6502) opSTA(mode AddressingMode) {
	cpu.write(cpu.operandAddress(mode), cpu.A)
}

// STX - Store X Register
func (cpu *Cpu6502) opSTX(mode AddressingMode) {
	cpu.write(cpu.operandAddress(mode), cpu.X)
}

// STY - Store Y Register
func (cpu *Cpu6502) opSTY(mode AddressingMode) {
	cpu.write(cpu.operandAddress(mode), cpu.Y)
}

// TAX - Transfer Accumulator to X
func (cpu *Cpu6502) opTAX(mode AddressingMode) {
	cpu.X = cpu.A
	cpu.updateZeroAndNegative(cpu.X)
}

// TAY - Transfer Accumulator to Y
func (cpu *Cpu6502) opTAY(mode AddressingMode) {
	cpu.Y = cpu.A
	cpu.updateZeroAndNegative(cpu.Y)
}

// TSX - Transfer Stack Pointer to X
func (cpu *Cpu6502) opTSX(mode AddressingMode) {
	cpu.X = cpu.Sp
	cpu.updateZeroAndNegative(cpu.X)
}

// TXA - Transfer X to Accumulator
func (cpu *Cpu6502) opTXA(mode AddressingMode) {
	cpu.A = cpu.X
	cpu.updateZeroAndNegative(cpu.A)
}

// TXS - Transfer X to Stack Pointer
func (cpu *Cpu6502) opTXS(mode AddressingMode) {
	cpu.Sp = cpu.X
}

// TYA - Transfer Y to Accumulator
func (cpu *Cpu6502) opTYA(mode AddressingMode) {
	cpu.A = cpu.Y
	cpu.updateZeroAndNegative(cpu.A)
}
