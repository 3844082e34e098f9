package nes

// CpuState is a copy of the CPU registers and the instruction about to run.
type CpuState struct {
	Pc     uint16
	Sp     byte
	A      byte
	X      byte
	Y      byte
	Status byte

	Opcode  byte
	Name    string // "???" for an opcode with no instruction
	Mode    AddressingMode
	Operand []byte // Operand bytes following the opcode

	CycleCount uint64
}

// State captures the CPU before the instruction at Pc executes. Memory is
// read with Bus.Peek, so taking a snapshot has no side effects.
func (cpu *Cpu6502) State() CpuState {
	s := CpuState{
		Pc:         cpu.Pc,
		Sp:         cpu.Sp,
		A:          cpu.A,
		X:          cpu.X,
		Y:          cpu.Y,
		Status:     cpu.Status,
		Opcode:     cpu.bus.Peek(cpu.Pc),
		Name:       "???",
		CycleCount: cpu.CycleCount,
	}

	inst := instLookup[s.Opcode]
	if inst == nil {
		return s
	}

	s.Name = inst.Name
	s.Mode = inst.Mode
	for i := 1; i < inst.Length; i++ {
		s.Operand = append(s.Operand, cpu.bus.Peek(cpu.Pc+uint16(i)))
	}

	return s
}

// HasFlag reports whether the snapshot's status has f set.
func (s CpuState) HasFlag(f StatusFlag) bool {
	return s.Status&byte(f) != 0
}
