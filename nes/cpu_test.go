package nes

import (
	"testing"

	"github.com/pkg/errors"
)

type check struct {
	got  interface{}
	want interface{}
}

func runChecks(t *testing.T, tests []check) {
	t.Helper()
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("got %v, want %v\n", test.got, test.want)
		}
	}
}

// Create a bus with program loaded at 0x8000 and the CPU reset to it.
func newTestBus(t *testing.T, program ...byte) *Bus {
	t.Helper()

	nes := NewBus(Config{})
	if err := nes.Load(program); err != nil {
		t.Fatalf("load: %v", err)
	}
	nes.Reset()

	return nes
}

// Load program, run it until BRK and return the CPU.
func runProgram(t *testing.T, program ...byte) *Cpu6502 {
	t.Helper()

	nes := newTestBus(t, program...)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	return nes.Cpu
}

////////////////////////////////////////////////////////////////
// End to end

func TestLoadImmediate(t *testing.T) {
	cpu := runProgram(t, 0xA9, 0x05, 0x00)

	runChecks(t, []check{
		{cpu.A, byte(0x05)},
		{cpu.hasFlag(StatusFlagZ), false},
		{cpu.hasFlag(StatusFlagN), false},
		{cpu.Halted(), true},
	})
}

func TestLoadImmediateZero(t *testing.T) {
	cpu := runProgram(t, 0xA9, 0x00, 0x00)

	runChecks(t, []check{
		{cpu.A, byte(0x00)},
		{cpu.hasFlag(StatusFlagZ), true},
		{cpu.hasFlag(StatusFlagN), false},
	})
}

func TestIncrementWraps(t *testing.T) {
	cpu := runProgram(t, 0xA9, 0xFF, 0xAA, 0xE8, 0xE8, 0x00)

	runChecks(t, []check{
		{cpu.A, byte(0xFF)},
		{cpu.X, byte(0x01)},
		{cpu.hasFlag(StatusFlagZ), false},
		{cpu.hasFlag(StatusFlagN), false},
	})
}

func TestStoreLoadRoundTrip(t *testing.T) {
	nes := newTestBus(t, 0xA9, 0x55, 0x85, 0x10, 0xA5, 0x10, 0x00)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{nes.Cpu.A, byte(0x55)},
		{nes.Read(0x0010), byte(0x55)},
	})
}

func TestReset(t *testing.T) {
	nes := newTestBus(t, 0xA9, 0x80, 0xAA, 0xA8, 0x00)
	cpu := nes.Cpu
	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}
	nes.Write(0x0100, 0x42)

	cpu.Reset()

	runChecks(t, []check{
		{cpu.A, byte(0)},
		{cpu.X, byte(0)},
		{cpu.Y, byte(0)},
		{cpu.Status, byte(0)},
		{cpu.Sp, byte(0xFD)},
		{cpu.Pc, uint16(0x8000)},
		{cpu.Halted(), false},
		{nes.Read(0x0100), byte(0x42)}, // memory kept
	})
}

func TestCycleCount(t *testing.T) {
	cpu := runProgram(t, 0xA9, 0x05, 0x00)

	// Reset 7, LDA 2, BRK 7.
	runChecks(t, []check{
		{cpu.CycleCount, uint64(16)},
	})
}

////////////////////////////////////////////////////////////////
// Status flags

func TestUpdateZeroAndNegative(t *testing.T) {
	cpu := NewCpu6502()
	zn := byte(StatusFlagZ | StatusFlagN)

	for _, seed := range []byte{0x00, 0xFF, 0x65, 0x9A} {
		for v := 0; v <= 0xFF; v++ {
			cpu.Status = seed
			cpu.updateZeroAndNegative(byte(v))

			if got, want := cpu.Status&^zn, seed&^zn; got != want {
				t.Errorf("value %#02x seed %#02x: other flags got %#02x, want %#02x", v, seed, got, want)
			}
			if got, want := cpu.hasFlag(StatusFlagZ), v == 0; got != want {
				t.Errorf("value %#02x: Z got %v, want %v", v, got, want)
			}
			if got, want := cpu.hasFlag(StatusFlagN), v&0x80 != 0; got != want {
				t.Errorf("value %#02x: N got %v, want %v", v, got, want)
			}
		}
	}
}

////////////////////////////////////////////////////////////////
// Addressing Modes

// Place operand bytes in RAM at pc and point the CPU at them.
func newAddressingCpu(pc uint16, operand ...byte) *Cpu6502 {
	nes := NewBus(Config{})
	for i, b := range operand {
		nes.Write(pc+uint16(i), b)
	}
	nes.Cpu.Pc = pc
	return nes.Cpu
}

func TestAmIMP(t *testing.T) {
	cpu := newAddressingCpu(0x0200)

	err := cpu.execute(&Instruction{Name: "LDA", Mode: IMP, Length: 1, exec: (*Cpu6502).opLDA})

	runChecks(t, []check{
		{errors.Cause(err), ErrInvalidAddressingMode},
		{cpu.Pc, uint16(0x0200)},
	})
}

func TestAmIMM(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x42)

	runChecks(t, []check{
		{cpu.operandAddress(IMM), uint16(0x0200)},
		{cpu.read(cpu.operandAddress(IMM)), byte(0x42)},
	})
}

func TestAmREL(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x10)
	forward := cpu.operandAddress(REL)
	forwardCross := cpu.pageCross

	cpu = newAddressingCpu(0x0200, 0xFC)
	backward := cpu.operandAddress(REL)
	backwardCross := cpu.pageCross

	runChecks(t, []check{
		{forward, uint16(0x0211)},
		{forwardCross, false},
		{backward, uint16(0x01FD)},
		{backwardCross, true},
	})
}

func TestAmZP0(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x42)

	runChecks(t, []check{
		{cpu.operandAddress(ZP0), uint16(0x0042)},
	})
}

func TestAmZPX(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0xFF)
	cpu.X = 2

	runChecks(t, []check{
		{cpu.operandAddress(ZPX), uint16(0x0001)}, // wraps within page zero
	})
}

func TestAmZPY(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x80)
	cpu.Y = 0x90

	runChecks(t, []check{
		{cpu.operandAddress(ZPY), uint16(0x0010)},
	})
}

func TestAmABS(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x34, 0x12)

	runChecks(t, []check{
		{cpu.operandAddress(ABS), uint16(0x1234)},
		{cpu.Pc, uint16(0x0200)},
	})
}

func TestAmABX(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0xFF, 0x12)
	cpu.X = 1

	runChecks(t, []check{
		{cpu.operandAddress(ABX), uint16(0x1300)},
		{cpu.pageCross, true},
	})
}

func TestAmABY(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x00, 0x12)
	cpu.Y = 5
	addr := cpu.operandAddress(ABY)

	cpu2 := newAddressingCpu(0x0200, 0xFF, 0xFF)
	cpu2.Y = 2
	wrapped := cpu2.operandAddress(ABY)

	runChecks(t, []check{
		{addr, uint16(0x1205)},
		{cpu.pageCross, false},
		{wrapped, uint16(0x0001)},
	})
}

func TestAmIND(t *testing.T) {
	cpu := newAddressingCpu(0x0300, 0xFF, 0x02)
	cpu.write(0x02FF, 0x34)
	cpu.write(0x0200, 0x12) // high byte read from the start of the page
	cpu.write(0x0300, 0xFF)

	runChecks(t, []check{
		{cpu.operandAddress(IND), uint16(0x1234)},
	})
}

func TestAmIZX(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0xFE)
	cpu.X = 1
	cpu.write(0x00FF, 0x34)
	cpu.write(0x0000, 0x12)

	runChecks(t, []check{
		{cpu.operandAddress(IZX), uint16(0x1234)},
	})
}

func TestAmIZY(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0x10)
	cpu.Y = 0x20
	cpu.write(0x0010, 0xF0)
	cpu.write(0x0011, 0x12)

	runChecks(t, []check{
		{cpu.operandAddress(IZY), uint16(0x1310)},
		{cpu.pageCross, true},
	})
}

func TestAmIZYPointerWraps(t *testing.T) {
	cpu := newAddressingCpu(0x0200, 0xFF)
	cpu.write(0x00FF, 0x00)
	cpu.write(0x0000, 0x03)

	runChecks(t, []check{
		{cpu.operandAddress(IZY), uint16(0x0300)},
	})
}

////////////////////////////////////////////////////////////////
// Instructions

func TestOpADC(t *testing.T) {
	tests := []struct {
		a, m          byte
		carryIn       bool
		want          byte
		carry, overfl bool
	}{
		{0x50, 0x10, false, 0x60, false, false},
		{0x50, 0x50, false, 0xA0, false, true},
		{0xFF, 0x01, false, 0x00, true, false},
		{0xD0, 0x90, false, 0x60, true, true},
		{0x01, 0x01, true, 0x03, false, false},
	}

	for _, test := range tests {
		setCarry := byte(0x18) // CLC
		if test.carryIn {
			setCarry = 0x38 // SEC
		}
		cpu := runProgram(t, setCarry, 0xA9, test.a, 0x69, test.m, 0x00)

		runChecks(t, []check{
			{cpu.A, test.want},
			{cpu.hasFlag(StatusFlagC), test.carry},
			{cpu.hasFlag(StatusFlagV), test.overfl},
			{cpu.hasFlag(StatusFlagZ), test.want == 0},
			{cpu.hasFlag(StatusFlagN), test.want&0x80 != 0},
		})
	}
}

func TestOpSBC(t *testing.T) {
	tests := []struct {
		a, m          byte
		carryIn       bool
		want          byte
		carry, overfl bool
	}{
		{0x50, 0xF0, true, 0x60, false, false},
		{0x50, 0xB0, true, 0xA0, false, true},
		{0x05, 0x03, true, 0x02, true, false},
		{0x05, 0x03, false, 0x01, true, false},
		{0x05, 0x05, true, 0x00, true, false},
	}

	for _, test := range tests {
		setCarry := byte(0x18)
		if test.carryIn {
			setCarry = 0x38
		}
		cpu := runProgram(t, setCarry, 0xA9, test.a, 0xE9, test.m, 0x00)

		runChecks(t, []check{
			{cpu.A, test.want},
			{cpu.hasFlag(StatusFlagC), test.carry},
			{cpu.hasFlag(StatusFlagV), test.overfl},
			{cpu.hasFlag(StatusFlagZ), test.want == 0},
		})
	}
}

func TestOpLogical(t *testing.T) {
	and := runProgram(t, 0xA9, 0xF0, 0x29, 0x3C, 0x00)
	ora := runProgram(t, 0xA9, 0x30, 0x09, 0x0F, 0x00)
	eor := runProgram(t, 0xA9, 0x3F, 0x49, 0xFF, 0x00)
	zero := runProgram(t, 0xA9, 0xF0, 0x29, 0x0F, 0x00)

	runChecks(t, []check{
		{and.A, byte(0x30)},
		{ora.A, byte(0x3F)},
		{eor.A, byte(0xC0)},
		{eor.hasFlag(StatusFlagN), true},
		{zero.A, byte(0x00)},
		{zero.hasFlag(StatusFlagZ), true},
	})
}

func TestOpASL(t *testing.T) {
	// Accumulator
	acc := runProgram(t, 0xA9, 0x81, 0x0A, 0x00)

	// Memory, Z comes from the shifted value and not A.
	nes := newTestBus(t, 0xA9, 0x80, 0x85, 0x10, 0xA9, 0x01, 0x06, 0x10, 0x00)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{acc.A, byte(0x02)},
		{acc.hasFlag(StatusFlagC), true},
		{acc.hasFlag(StatusFlagZ), false},
		{acc.hasFlag(StatusFlagN), false},

		{nes.Read(0x0010), byte(0x00)},
		{nes.Cpu.A, byte(0x01)},
		{nes.Cpu.hasFlag(StatusFlagC), true},
		{nes.Cpu.hasFlag(StatusFlagZ), true},
	})
}

func TestOpLSR(t *testing.T) {
	cpu := runProgram(t, 0xA9, 0x01, 0x4A, 0x00)

	runChecks(t, []check{
		{cpu.A, byte(0x00)},
		{cpu.hasFlag(StatusFlagC), true},
		{cpu.hasFlag(StatusFlagZ), true},
		{cpu.hasFlag(StatusFlagN), false},
	})
}

func TestOpROL(t *testing.T) {
	cpu := runProgram(t, 0x38, 0xA9, 0x80, 0x2A, 0x00)

	nes := newTestBus(t, 0x18, 0xA9, 0x40, 0x85, 0x20, 0x26, 0x20, 0x00)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{cpu.A, byte(0x01)},
		{cpu.hasFlag(StatusFlagC), true},
		{nes.Read(0x0020), byte(0x80)},
		{nes.Cpu.hasFlag(StatusFlagC), false},
		{nes.Cpu.hasFlag(StatusFlagN), true},
	})
}

func TestOpROR(t *testing.T) {
	cpu := runProgram(t, 0x38, 0xA9, 0x01, 0x6A, 0x00)

	runChecks(t, []check{
		{cpu.A, byte(0x80)},
		{cpu.hasFlag(StatusFlagC), true},
		{cpu.hasFlag(StatusFlagN), true},
	})
}

func TestOpINCDEC(t *testing.T) {
	nes := newTestBus(t,
		0xA9, 0xFF, // LDA #$FF
		0x85, 0x20, // STA $20
		0xE6, 0x20, // INC $20
		0xC6, 0x21, // DEC $21
		0x00)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{nes.Read(0x0020), byte(0x00)},
		{nes.Read(0x0021), byte(0xFF)},
		{nes.Cpu.hasFlag(StatusFlagN), true},
		{nes.Cpu.hasFlag(StatusFlagZ), false},
	})
}

func TestOpINYDEY(t *testing.T) {
	dey := runProgram(t, 0xA0, 0x00, 0x88, 0x00)
	iny := runProgram(t, 0xA0, 0xFF, 0xC8, 0x00)
	dex := runProgram(t, 0xA2, 0x01, 0xCA, 0x00)

	runChecks(t, []check{
		{dey.Y, byte(0xFF)},
		{dey.hasFlag(StatusFlagN), true},
		{iny.Y, byte(0x00)},
		{iny.hasFlag(StatusFlagZ), true},
		{dex.X, byte(0x00)},
		{dex.hasFlag(StatusFlagZ), true},
	})
}

func TestOpCompare(t *testing.T) {
	tests := []struct {
		program []byte
		c, z, n bool
	}{
		{[]byte{0xA9, 0x10, 0xC9, 0x10, 0x00}, true, true, false},  // CMP equal
		{[]byte{0xA9, 0x10, 0xC9, 0x20, 0x00}, false, false, true}, // CMP less
		{[]byte{0xA9, 0x10, 0xC9, 0x05, 0x00}, true, false, false}, // CMP greater
		{[]byte{0xA2, 0x40, 0xE0, 0x40, 0x00}, true, true, false},  // CPX equal
		{[]byte{0xA0, 0x01, 0xC0, 0x02, 0x00}, false, false, true}, // CPY less
	}

	for _, test := range tests {
		cpu := runProgram(t, test.program...)

		runChecks(t, []check{
			{cpu.hasFlag(StatusFlagC), test.c},
			{cpu.hasFlag(StatusFlagZ), test.z},
			{cpu.hasFlag(StatusFlagN), test.n},
		})
	}
}

func TestOpBIT(t *testing.T) {
	cpu := runProgram(t,
		0xA9, 0xC0, // LDA #$C0
		0x85, 0x10, // STA $10
		0xA9, 0x01, // LDA #$01
		0x24, 0x10, // BIT $10
		0x00)

	runChecks(t, []check{
		{cpu.A, byte(0x01)},
		{cpu.hasFlag(StatusFlagZ), true},
		{cpu.hasFlag(StatusFlagV), true},
		{cpu.hasFlag(StatusFlagN), true},
	})
}

func TestOpBranchLoop(t *testing.T) {
	cpu := runProgram(t,
		0xA2, 0x03, // LDX #3
		0xCA,       // DEX
		0xD0, 0xFD, // BNE -3
		0x00)

	runChecks(t, []check{
		{cpu.X, byte(0x00)},
		{cpu.hasFlag(StatusFlagZ), true},
		{cpu.Pc, uint16(0x8006)}, // past the BRK
	})
}

func TestOpBranchCycles(t *testing.T) {
	nes := newTestBus(t,
		0xA2, 0x01, // LDX #1
		0xF0, 0x10, // BEQ +16, not taken
		0xD0, 0x00, // BNE +0, taken
		0x00)
	cpu := nes.Cpu

	var spent []uint64
	for i := 0; i < 3; i++ {
		before := cpu.CycleCount
		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
		spent = append(spent, cpu.CycleCount-before)
	}

	runChecks(t, []check{
		{spent[1], uint64(2)},
		{spent[2], uint64(3)},
		{cpu.Pc, uint16(0x8006)},
	})
}

func TestOpBranchFlags(t *testing.T) {
	tests := []struct {
		setup  byte // flag instruction run first
		branch byte
		taken  bool
	}{
		{0x38, 0xB0, true},  // SEC, BCS
		{0x38, 0x90, false}, // SEC, BCC
		{0x18, 0x90, true},  // CLC, BCC
		{0xB8, 0x50, true},  // CLV, BVC
		{0xB8, 0x70, false}, // CLV, BVS
	}

	for _, test := range tests {
		// Taken branches skip the LDA and land on BRK.
		cpu := runProgram(t, test.setup, test.branch, 0x02, 0xA9, 0x01, 0x00)

		want := byte(0x01)
		if test.taken {
			want = 0x00
		}
		runChecks(t, []check{
			{cpu.A, want},
		})
	}
}

func TestOpBranchSign(t *testing.T) {
	minus := runProgram(t, 0xA9, 0x80, 0x30, 0x02, 0xA2, 0x01, 0x00) // BMI taken
	plus := runProgram(t, 0xA9, 0x80, 0x10, 0x02, 0xA2, 0x01, 0x00)  // BPL not taken

	runChecks(t, []check{
		{minus.X, byte(0x00)},
		{plus.X, byte(0x01)},
	})
}

func TestOpJMP(t *testing.T) {
	cpu := runProgram(t,
		0x4C, 0x05, 0x80, // JMP $8005
		0xA2, 0x01, // LDX #1, skipped
		0xA0, 0x02, // LDY #2
		0x00)

	runChecks(t, []check{
		{cpu.X, byte(0x00)},
		{cpu.Y, byte(0x02)},
	})
}

func TestOpJMPIndirectPageBug(t *testing.T) {
	nes := newTestBus(t,
		0x6C, 0xFF, 0x02, // JMP ($02FF)
		0x00, 0x00,
		0xA9, 0x09, // LDA #9
		0x00)
	nes.Write(0x02FF, 0x05)
	nes.Write(0x0200, 0x80)
	nes.Write(0x0300, 0xEE)

	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{nes.Cpu.A, byte(0x09)},
	})
}

func TestOpJSRRTS(t *testing.T) {
	nes := newTestBus(t,
		0x20, 0x06, 0x80, // JSR $8006
		0xE8, // INX
		0x00, // BRK
		0x00,
		0xA9, 0x07, // LDA #7
		0x60) // RTS
	cpu := nes.Cpu

	// Step the JSR alone to look at the stack.
	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}
	pc, sp := cpu.Pc, cpu.Sp
	ret := nes.ReadWord(0x01FC)

	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{pc, uint16(0x8006)},
		{sp, byte(0xFB)},
		{ret, uint16(0x8002)},
		{cpu.A, byte(0x07)},
		{cpu.X, byte(0x01)},
		{cpu.Sp, byte(0xFD)},
	})
}

func TestOpStack(t *testing.T) {
	pha := newTestBus(t, 0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68, 0x00) // PHA, PLA
	if err := pha.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	php := runProgram(t, 0x38, 0x08, 0x68, 0x00)       // SEC, PHP, PLA
	plp := runProgram(t, 0xA9, 0xFF, 0x48, 0x28, 0x00) // PHA $FF, PLP
	plaZero := runProgram(t, 0xA9, 0x00, 0x48, 0xA9, 0x01, 0x68, 0x00)

	runChecks(t, []check{
		{pha.Cpu.A, byte(0x42)},
		{pha.Cpu.Sp, byte(0xFD)},
		{pha.Read(0x01FD), byte(0x42)},

		{php.A, byte(StatusFlagC | StatusFlagB | StatusFlagU)},
		{plp.Status, byte(0xFF) &^ byte(StatusFlagB)},
		{plaZero.hasFlag(StatusFlagZ), true},
	})
}

func TestOpFlags(t *testing.T) {
	set := runProgram(t, 0x38, 0xF8, 0x78, 0x00)
	clear := runProgram(t, 0x38, 0xF8, 0x78, 0x18, 0xD8, 0x58, 0x00)
	clv := runProgram(t, 0xA9, 0x50, 0x69, 0x50, 0xB8, 0x00)

	runChecks(t, []check{
		{set.Status, byte(StatusFlagC | StatusFlagD | StatusFlagI)},
		{clear.Status, byte(0)},
		{clv.hasFlag(StatusFlagV), false},
		{clv.A, byte(0xA0)},
	})
}

func TestOpLoadStoreIndexed(t *testing.T) {
	nes := newTestBus(t,
		0xA2, 0x02, // LDX #2
		0xA9, 0x77, // LDA #$77
		0x95, 0x10, // STA $10,X
		0xA4, 0x12, // LDY $12
		0x86, 0x30, // STX $30
		0x8C, 0x00, 0x04, // STY $0400
		0xBE, 0x2E, 0x00, // LDX $002E,Y
		0x00)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{nes.Read(0x0012), byte(0x77)},
		{nes.Cpu.Y, byte(0x77)},
		{nes.Read(0x0030), byte(0x02)},
		{nes.Read(0x0400), byte(0x77)},
		{nes.Cpu.X, byte(0x00)}, // $002E + $77 = $00A5, never written
		{nes.Cpu.hasFlag(StatusFlagZ), true},
	})
}

func TestOpIndirectLoadStore(t *testing.T) {
	nes := newTestBus(t,
		0xA9, 0x00, 0x85, 0x40, // pointer at $40 = $0300
		0xA9, 0x03, 0x85, 0x41,
		0xA9, 0x5A, // LDA #$5A
		0xA0, 0x04, // LDY #4
		0x91, 0x40, // STA ($40),Y
		0xA2, 0x00, // LDX #0
		0xA1, 0x40, // LDA ($40,X) reads $0300
		0x00)
	nes.Write(0x0300, 0x11)
	if err := nes.Cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{nes.Read(0x0304), byte(0x5A)},
		{nes.Cpu.A, byte(0x11)},
	})
}

func TestOpTransfers(t *testing.T) {
	tay := runProgram(t, 0xA9, 0x80, 0xA8, 0x00)
	tya := runProgram(t, 0xA0, 0x00, 0xA9, 0x01, 0x98, 0x00)
	txa := runProgram(t, 0xA2, 0x33, 0x8A, 0x00)
	tsx := runProgram(t, 0xBA, 0x00)
	txs := runProgram(t, 0xA2, 0x80, 0xA9, 0x00, 0x9A, 0x00)

	runChecks(t, []check{
		{tay.Y, byte(0x80)},
		{tay.hasFlag(StatusFlagN), true},
		{tya.A, byte(0x00)},
		{tya.hasFlag(StatusFlagZ), true},
		{txa.A, byte(0x33)},
		{tsx.X, byte(0xFD)},
		{tsx.hasFlag(StatusFlagN), true},

		// TXS sets no flags.
		{txs.Sp, byte(0x80)},
		{txs.hasFlag(StatusFlagZ), true},
		{txs.hasFlag(StatusFlagN), false},
	})
}

func TestOpNOP(t *testing.T) {
	nes := newTestBus(t, 0xEA, 0x00)
	cpu := nes.Cpu
	before := cpu.State()

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{cpu.Pc, uint16(0x8001)},
		{cpu.A, before.A},
		{cpu.Status, before.Status},
		{cpu.Sp, before.Sp},
	})
}

////////////////////////////////////////////////////////////////
// Interrupts

func TestNmiAndRTI(t *testing.T) {
	nes := newTestBus(t,
		0xEA,       // NOP
		0xA0, 0x05, // LDY #5
		0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xE8, // $8010: INX
		0x40) // RTI
	nes.WriteWord(nmiVectAddr, 0x8010)
	cpu := nes.Cpu

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}
	cpu.Nmi()

	pc, sp := cpu.Pc, cpu.Sp
	pushed := nes.Read(0x01FB)
	disabled := cpu.hasFlag(StatusFlagI)

	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{pc, uint16(0x8010)},
		{sp, byte(0xFA)},
		{pushed, byte(StatusFlagU)},
		{disabled, true},
		{cpu.X, byte(0x01)},
		{cpu.Y, byte(0x05)},
		{cpu.Sp, byte(0xFD)},
		{cpu.hasFlag(StatusFlagI), false},
	})
}

////////////////////////////////////////////////////////////////
// Errors

func TestUnimplementedOpcode(t *testing.T) {
	nes := newTestBus(t, 0xEA, 0x02, 0x00)

	err := nes.Cpu.Run()

	execErr, ok := err.(*ExecutionError)
	if !ok {
		t.Fatalf("got %T (%v), want *ExecutionError", err, err)
	}

	runChecks(t, []check{
		{errors.Cause(err), ErrUnimplementedOpcode},
		{execErr.Pc, uint16(0x8001)},
		{execErr.Opcode, byte(0x02)},
		{nes.Cpu.Pc, uint16(0x8001)},
		{nes.Cpu.Halted(), false},
	})
}

func TestStepHalted(t *testing.T) {
	nes := newTestBus(t, 0x00, 0xA9, 0x01)
	cpu := nes.Cpu

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}
	pc := cpu.Pc
	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	runChecks(t, []check{
		{cpu.Halted(), true},
		{cpu.Pc, pc},
		{cpu.A, byte(0)},
	})
}

////////////////////////////////////////////////////////////////
// Instruction table

func TestInstructionTable(t *testing.T) {
	count := 0
	for op := 0; op < 256; op++ {
		inst, ok := LookupInstruction(byte(op))
		if !ok {
			continue
		}
		count++

		if inst.Opcode != byte(op) {
			t.Errorf("opcode %#02x: entry has opcode %#02x", op, inst.Opcode)
		}
		if inst.Length != 1+inst.Mode.operandLength() {
			t.Errorf("%s %s: length %d", inst.Name, inst.Mode, inst.Length)
		}
	}

	lda, _ := LookupInstruction(0xA9)
	_, ok := LookupInstruction(0xFF)

	runChecks(t, []check{
		{count, 151},
		{lda.Name, "LDA"},
		{lda.Mode, IMM},
		{lda.Length, 2},
		{lda.Cycles, 2},
		{ok, false},
	})
}

func TestPagePenalty(t *testing.T) {
	nes := newTestBus(t,
		0xA2, 0x01, // LDX #1
		0xBD, 0xFF, 0x80, // LDA $80FF,X crosses
		0xBD, 0x00, 0x80, // LDA $8000,X
		0x00)
	cpu := nes.Cpu

	var spent []uint64
	for i := 0; i < 3; i++ {
		before := cpu.CycleCount
		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
		spent = append(spent, cpu.CycleCount-before)
	}

	runChecks(t, []check{
		{spent[1], uint64(5)},
		{spent[2], uint64(4)},
	})
}

////////////////////////////////////////////////////////////////
// Observer

func TestRunWithObserver(t *testing.T) {
	nes := newTestBus(t, 0xA9, 0xFF, 0xAA, 0xE8, 0xE8, 0x00)

	var states []CpuState
	err := nes.Cpu.RunWithObserver(func(s CpuState) {
		states = append(states, s)
	})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, s := range states {
		names = append(names, s.Name)
	}

	if len(states) != 5 {
		t.Fatalf("got %d states, want 5 (%v)", len(states), names)
	}

	runChecks(t, []check{
		{names[0], "LDA"},
		{names[1], "TAX"},
		{names[2], "INX"},
		{names[3], "INX"},
		{names[4], "BRK"},
		{states[0].Pc, uint16(0x8000)},
		{states[0].Mode, IMM},
		{len(states[0].Operand), 1},
		{states[0].Operand[0], byte(0xFF)},
		{states[1].A, byte(0xFF)},
		{states[3].X, byte(0x00)},
		{states[3].HasFlag(StatusFlagZ), true},
		{nes.Cpu.A, byte(0xFF)},
		{nes.Cpu.X, byte(0x01)},
	})
}
