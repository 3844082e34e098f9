package nes

// Mapper000 (NROM) has no bank switching. 16KB programs are mirrored into the
// upper half of the CPU's ROM window.
type Mapper000 struct {
	PrgBanks byte
	ChrBanks byte
}

func NewMapper000(prgRomChunks, chrRomChunks byte) Mapper000 {
	return Mapper000{
		PrgBanks: prgRomChunks,
		ChrBanks: chrRomChunks,
	}
}

// Address Mapping
//
// if 16KB ROM size:
//   0x8000-0xBFFF -> 0x0000-0x3FFF
//   0xC000-0xFFFF -> 0x0000-0x3FFF (mirror)
//
// if 32KB ROM size:
//   0x8000-0xFFFF -> 0x0000-0x7FFF

func (m Mapper000) prgMask() uint16 {
	if m.PrgBanks > 1 {
		return 0x7FFF // 32KB ROM
	}
	return 0x3FFF // 16KB ROM, need to mirror
}

func (m Mapper000) cpuMapRead(addr uint16) uint16 {
	return addr & m.prgMask()
}

func (m Mapper000) cpuMapWrite(addr uint16) uint16 {
	return addr & m.prgMask()
}

// A single 8KB CHR bank, no switching.
func (m Mapper000) ppuMapRead(addr uint16) uint16 {
	return addr & patternTblAddrEnd
}

func (m Mapper000) ppuMapWrite(addr uint16) uint16 {
	return addr & patternTblAddrEnd
}
