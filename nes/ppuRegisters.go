package nes

// CPU addresses of the PPU registers. The window repeats every 8 bytes up to
// 0x3FFF.
const (
	PPUCTRL   uint16 = 0x2000
	PPUMASK   uint16 = 0x2001
	PPUSTATUS uint16 = 0x2002
	OAMADDR   uint16 = 0x2003
	OAMDATA   uint16 = 0x2004
	PPUSCROLL uint16 = 0x2005
	PPUADDR   uint16 = 0x2006
	PPUDATA   uint16 = 0x2007
)

// PPU Registers
type PpuReg byte
type PpuRegFlag byte

// PPUCTRL flags - $2000
const (
	ctrlNameTblLo PpuRegFlag = 1 << iota
	ctrlNameTblHi
	ctrlVramInc
	ctrlSpritePatternTbl
	ctrlBgPatternTbl
	ctrlSpriteSize
	ctrlExtMode
	ctrlNmi
)

// PPUMASK flags - $2001
const (
	maskGreyscale PpuRegFlag = 1 << iota
	maskBgLeft
	maskSpriteLeft
	maskBgShow
	maskSpriteShow
	maskEmphasizeRed
	maskEmphasizeGreen
	maskEmphasizeBlue
)

// PPUSTATUS flags - $2002
const (
	statusSpriteOverflow PpuRegFlag = 1 << (iota + 5)
	statusSprite0Hit
	statusVBlank
)

func (r *PpuReg) setFlag(flag PpuRegFlag) {
	*r |= PpuReg(flag)
}

func (r *PpuReg) clearFlag(flag PpuRegFlag) {
	*r &^= PpuReg(flag)
}

func (r PpuReg) hasFlag(flag PpuRegFlag) bool {
	return r&PpuReg(flag) != 0
}

// Nametable select, bits 0-1 of PPUCTRL.
func (r PpuReg) nameTable() byte {
	return byte(r) & 0x03
}

// Address step applied after each PPUDATA access, selected by PPUCTRL bit 2:
// 1 walks across a name table row, 32 walks down a column.
func (r PpuReg) vramAddrIncrement() byte {
	if r.hasFlag(ctrlVramInc) {
		return 32
	}
	return 1
}

// addrRegister is the PPUADDR latch. The CPU writes the high byte first, a
// second write fills the low byte.
type addrRegister struct {
	hi, lo byte
	hiPtr  bool // Next write goes to the high byte
}

func newAddrRegister() addrRegister {
	return addrRegister{hiPtr: true}
}

func (r *addrRegister) set(addr uint16) {
	r.hi = hiByte(addr)
	r.lo = loByte(addr)
}

func (r *addrRegister) get() uint16 {
	return makeWord(r.lo, r.hi)
}

// Store one byte of the address and flip the latch. The PPU address space is
// 14 bits wide.
func (r *addrRegister) update(data byte) {
	if r.hiPtr {
		r.hi = data
	} else {
		r.lo = data
	}

	if r.get() > ppuMaxAddr {
		r.set(r.get() & ppuMaxAddr)
	}

	r.hiPtr = !r.hiPtr
}

// Add step to the low byte, carrying into the high byte when it wraps.
func (r *addrRegister) increment(step byte) {
	lo := r.lo
	r.lo += step
	if r.lo < lo {
		r.hi++
	}
}

func (r *addrRegister) resetLatch() {
	r.hiPtr = true
}
