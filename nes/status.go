package nes

// //////////////////////////////////////////////////////////////
// Status Flags
type StatusFlag byte // 6502 Status Flag

const (
	StatusFlagC StatusFlag = 1 << iota // Carry
	StatusFlagZ                        // Zero
	StatusFlagI                        // Interrupt Disable
	StatusFlagD                        // Decimal Mode (not used on NES)
	StatusFlagB                        // Break Command
	StatusFlagU                        // UNUSED
	StatusFlagV                        // Overflow
	StatusFlagN                        // Negative
)

// Convenience functions used to get and set CPU status flags.
func (cpu *Cpu6502) getFlag(f StatusFlag) byte {
	return cpu.Status & byte(f)
}

func (cpu *Cpu6502) hasFlag(f StatusFlag) bool {
	return cpu.getFlag(f) != 0
}

func (cpu *Cpu6502) setFlag(f StatusFlag, b bool) {
	if b {
		cpu.Status |= byte(f)
	} else {
		cpu.Status &^= byte(f)
	}
}

// updateZeroAndNegative sets Z when result is zero and N when bit 7 of result
// is set. No other flag is touched.
func (cpu *Cpu6502) updateZeroAndNegative(result byte) {
	cpu.setFlag(StatusFlagZ, result == 0)
	cpu.setFlag(StatusFlagN, bitSet(result, 7))
}

// carry returns the carry flag as 0 or 1, ready for arithmetic.
func (cpu *Cpu6502) carry() byte {
	if cpu.hasFlag(StatusFlagC) {
		return 1
	}
	return 0
}
