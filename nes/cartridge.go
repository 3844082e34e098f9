package nes

import (
	"bytes"
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
)

// Name table arrangement wired on the cartridge.
type Mirroring byte

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case FourScreen:
		return "FourScreen"
	}
	return fmt.Sprintf("Mirroring(%d)", byte(m))
}

const (
	inesHeaderSize = 16
	trainerSize    = 512
	PrgRomPageSize = 16 * 1024
	ChrRomPageSize = 8 * 1024
)

var inesMagic = []byte{'N', 'E', 'S', 0x1A}

// iNES header flags, byte 6.
const (
	flagVertical   byte = 1 << 0
	flagBattery    byte = 1 << 1
	flagTrainer    byte = 1 << 2
	flagFourScreen byte = 1 << 3
)

// Cartridge holds the contents of an iNES ROM image.
// Reference: https://wiki.nesdev.com/w/index.php/INES
type Cartridge struct {
	PrgRom []byte // Program ROM, a multiple of 16KB
	ChrRom []byte // Pattern tables, 8KB of RAM when the image has none

	Mapper     byte
	Mirroring  Mirroring
	HasBattery bool
	HasTrainer bool

	chrRam bool // ChrRom is writable
}

// NewCartridge parses an iNES image.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) < inesHeaderSize || !bytes.Equal(data[:4], inesMagic) {
		return nil, ErrInvalidFormat
	}

	flags6 := data[6]
	flags7 := data[7]

	// Bits 2-3 of byte 7 identify the NES 2.0 header.
	if (flags7>>2)&0x03 != 0 {
		return nil, ErrUnsupportedVersion
	}

	cart := &Cartridge{
		Mapper:     (flags7 & 0xF0) | (flags6 >> 4),
		HasBattery: flags6&flagBattery != 0,
		HasTrainer: flags6&flagTrainer != 0,
	}

	switch {
	case flags6&flagFourScreen != 0:
		cart.Mirroring = FourScreen
	case flags6&flagVertical != 0:
		cart.Mirroring = Vertical
	default:
		cart.Mirroring = Horizontal
	}

	prgSize := int(data[4]) * PrgRomPageSize
	chrSize := int(data[5]) * ChrRomPageSize

	prgStart := inesHeaderSize
	if cart.HasTrainer {
		prgStart += trainerSize
	}
	chrStart := prgStart + prgSize

	if len(data) < chrStart+chrSize {
		return nil, errors.Wrapf(ErrTruncatedRom, "want %d bytes, have %d", chrStart+chrSize, len(data))
	}

	cart.PrgRom = append([]byte(nil), data[prgStart:chrStart]...)

	if chrSize == 0 {
		cart.ChrRom = make([]byte, ChrRomPageSize)
		cart.chrRam = true
	} else {
		cart.ChrRom = append([]byte(nil), data[chrStart:chrStart+chrSize]...)
	}

	return cart, nil
}

// LoadCartridge reads and parses the iNES file at the given path.
func LoadCartridge(filepath string) (*Cartridge, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open rom")
	}

	cart, err := NewCartridge(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filepath)
	}

	return cart, nil
}

func (c *Cartridge) prgBanks() byte { return byte(len(c.PrgRom) / PrgRomPageSize) }
func (c *Cartridge) chrBanks() byte {
	if c.chrRam {
		return 0
	}
	return byte(len(c.ChrRom) / ChrRomPageSize)
}
