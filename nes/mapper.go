package nes

import "github.com/pkg/errors"

// Mappers translate addresses seen by the CPU and PPU into offsets within the
// cartridge's PRG and CHR memory.
type Mapper interface {
	cpuMapRead(addr uint16) uint16
	cpuMapWrite(addr uint16) uint16
	ppuMapRead(addr uint16) uint16
	ppuMapWrite(addr uint16) uint16
}

// Create the mapper with the given iNES mapper id.
func newMapper(id byte, prgBanks, chrBanks byte) (Mapper, error) {
	switch id {
	case 0:
		return NewMapper000(prgBanks, chrBanks), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedMapper, "mapper %d", id)
}
