package nes

// Build a 16-bit word from its low and high bytes (6502 order is little endian).
func makeWord(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func hiByte(w uint16) byte { return byte(w >> 8) }
func loByte(w uint16) byte { return byte(w) }

// Check whether the bit at the given bit index is set.
func bitSet(b byte, bitIdx int) bool {
	return b&(1<<bitIdx) != 0
}

// Whether two addresses lie on different 256 byte pages.
func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}
