package nes

// Loopy registers are 15 bit internal PPU registers used for implementing
// scrolling.
// Loopy register layout:
//
//	yyy NN YYYYY XXXXX
//
//	yyy   - fine Y scroll
//	NN    - nametable select
//	YYYYY - coarse Y scroll
//	XXXXX - coarse X scroll
type PpuLoopyReg uint16

// Position and width of each field.
const (
	loopyCoarseXShift   = 0
	loopyCoarseYShift   = 5
	loopyNametableShift = 10
	loopyFineYShift     = 12

	loopyCoarseXBits   PpuLoopyReg = 0b11111
	loopyCoarseYBits   PpuLoopyReg = 0b11111
	loopyNametableBits PpuLoopyReg = 0b11
	loopyFineYBits     PpuLoopyReg = 0b111
)

// Replace the field at shift with the low bits of val selected by bits.
func (r *PpuLoopyReg) setField(shift uint, bits PpuLoopyReg, val byte) {
	*r &^= bits << shift
	*r |= (PpuLoopyReg(val) & bits) << shift
}

func (r PpuLoopyReg) field(shift uint, bits PpuLoopyReg) byte {
	return byte((r >> shift) & bits)
}

func (r *PpuLoopyReg) setCoarseX(val byte) { r.setField(loopyCoarseXShift, loopyCoarseXBits, val) }
func (r *PpuLoopyReg) setCoarseY(val byte) { r.setField(loopyCoarseYShift, loopyCoarseYBits, val) }
func (r *PpuLoopyReg) setNametable(val byte) {
	r.setField(loopyNametableShift, loopyNametableBits, val)
}
func (r *PpuLoopyReg) setFineY(val byte) { r.setField(loopyFineYShift, loopyFineYBits, val) }

func (r PpuLoopyReg) getCoarseX() byte   { return r.field(loopyCoarseXShift, loopyCoarseXBits) }
func (r PpuLoopyReg) getCoarseY() byte   { return r.field(loopyCoarseYShift, loopyCoarseYBits) }
func (r PpuLoopyReg) getNametable() byte { return r.field(loopyNametableShift, loopyNametableBits) }
func (r PpuLoopyReg) getFineY() byte     { return r.field(loopyFineYShift, loopyFineYBits) }
