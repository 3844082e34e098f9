package nes

import (
	"github.com/pkg/errors"
)

const (
	// PPU addresses
	patternTblAddr    uint16 = 0x0000
	patternTblAddrEnd uint16 = 0x1FFF
	patternTblSize    uint16 = 0x1000 // Single pattern table - size in bytes

	nameTblAddr    uint16 = 0x2000
	nameTblAddrEnd uint16 = 0x3EFF
	nameTblSize    uint16 = 0x0400
	nameTblMirror  uint16 = 0x2FFF // 0x3000-0x3EFF mirrors 0x2000-0x2EFF

	paletteAddr    uint16 = 0x3F00
	paletteAddrEnd uint16 = 0x3FFF
)

// Ppu implements the register interface of the picture processing unit: the
// eight registers the CPU sees and the memory behind the data port. Rendering
// is done elsewhere.
//
// References:
// http://wiki.nesdev.com/w/index.php/PPU_registers
// https://www.youtube.com/watch?v=xdzOvpYPmGE (javidx9)
type Ppu struct {
	Cart *Cartridge

	mapper    Mapper
	mirroring Mirroring

	vram         [4 * nameTblSize]byte // Room for four nametables, used by FourScreen carts
	paletteTable [32]byte
	oam          objectAttributeMemory

	// Registers
	ctrl    PpuReg
	mask    PpuReg
	status  PpuReg
	oamAddr byte

	addr addrRegister // PPUADDR latch

	// PPUSCROLL writes land in tram and fineX. X is written first.
	tram        PpuLoopyReg
	fineX       byte
	scrollLatch bool // Next PPUSCROLL write is Y

	// PPUDATA reads below the palette are delayed by one read.
	dataBuffer byte
}

func NewPpu() *Ppu {
	p := &Ppu{
		mirroring: Horizontal,
		oam:       newOAM(oamSprites),
		addr:      newAddrRegister(),
	}
	p.oam.clear()

	return p
}

// Connect the cartridge's CHR memory to the PPU bus. A cartridge without CHR
// memory gets a bank of CHR RAM.
func (p *Ppu) ConnectCartridge(c *Cartridge, m Mapper) {
	if len(c.ChrRom) == 0 {
		c.ChrRom = make([]byte, ChrRomPageSize)
		c.chrRam = true
	}

	p.Cart = c
	p.mapper = m
	p.mirroring = c.Mirroring
}

// Clear the registers and latches. Memory is left as it is.
func (p *Ppu) reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.addr = newAddrRegister()
	p.tram = 0
	p.fineX = 0
	p.scrollLatch = false
	p.dataBuffer = 0
}

// EnterVBlank sets the vertical blank flag in PPUSTATUS. The return value
// reports whether PPUCTRL asks for an NMI, which the caller delivers with
// Cpu6502.Nmi.
func (p *Ppu) EnterVBlank() bool {
	p.status.setFlag(statusVBlank)
	return p.ctrl.hasFlag(ctrlNmi)
}

// LeaveVBlank clears the vertical blank flag.
func (p *Ppu) LeaveVBlank() {
	p.status.clearFlag(statusVBlank)
}

// RenderingEnabled reports whether PPUMASK shows the background or sprites.
func (p *Ppu) RenderingEnabled() bool {
	return p.mask.hasFlag(maskBgShow) || p.mask.hasFlag(maskSpriteShow)
}

// Scroll returns the scroll position written through PPUSCROLL, in pixels.
func (p *Ppu) Scroll() (x, y byte) {
	x = p.tram.getCoarseX()<<3 | p.fineX
	y = p.tram.getCoarseY()<<3 | p.tram.getFineY()
	return x, y
}

////////////////////////////////////////////////////////////////
// CPU bus - register access

// Register read. addr is already folded into 0x2000-0x2007. Write-only
// registers read as 0.
func (p *Ppu) cpuRead(addr uint16) byte {
	var data byte

	switch addr {
	case PPUSTATUS:
		data = byte(p.status)

		// Reading the status ends vblank and resets both write latches.
		p.status.clearFlag(statusVBlank)
		p.addr.resetLatch()
		p.scrollLatch = false
	case OAMDATA:
		data = p.oam.read(p.oamAddr)
	case PPUDATA:
		data = p.readData()
	}

	return data
}

// Register read without side effects, used for observing state.
func (p *Ppu) peekRegister(addr uint16) byte {
	switch addr {
	case PPUSTATUS:
		return byte(p.status)
	case OAMDATA:
		return p.oam.read(p.oamAddr)
	case PPUDATA:
		a := p.addr.get() & ppuMaxAddr
		if a >= paletteAddr {
			return p.paletteTable[paletteIndex(a)]
		}
		return p.dataBuffer
	}
	return 0
}

// Register write. addr is already folded into 0x2000-0x2007. Only a write
// through PPUDATA into CHR ROM fails.
func (p *Ppu) cpuWrite(addr uint16, data byte) error {
	switch addr {
	case PPUCTRL:
		p.ctrl = PpuReg(data)
		p.tram.setNametable(p.ctrl.nameTable())
	case PPUMASK:
		p.mask = PpuReg(data)
	case PPUSTATUS:
		// Read only.
	case OAMADDR:
		p.oamAddr = data
	case OAMDATA:
		p.oam.write(p.oamAddr, data)
		p.oamAddr++
	case PPUSCROLL:
		if !p.scrollLatch {
			p.fineX = data & 0x07
			p.tram.setCoarseX(data >> 3)
		} else {
			p.tram.setFineY(data & 0x07)
			p.tram.setCoarseY(data >> 3)
		}
		p.scrollLatch = !p.scrollLatch
	case PPUADDR:
		p.addr.update(data)
	case PPUDATA:
		return p.writeData(data)
	}

	return nil
}

// PPUDATA read. Pattern and name table reads return the buffered value from
// the previous read; palette reads are immediate.
func (p *Ppu) readData() byte {
	addr := p.addr.get() & ppuMaxAddr
	p.addr.increment(p.ctrl.vramAddrIncrement())

	if addr >= paletteAddr {
		return p.ppuRead(addr)
	}

	data := p.dataBuffer
	p.dataBuffer = p.ppuRead(addr)

	return data
}

func (p *Ppu) writeData(data byte) error {
	addr := p.addr.get() & ppuMaxAddr
	p.addr.increment(p.ctrl.vramAddrIncrement())

	return p.ppuWrite(addr, data)
}

////////////////////////////////////////////////////////////////
// PPU bus

func (p *Ppu) ppuRead(addr uint16) byte {
	addr &= ppuMaxAddr

	var data byte

	if addr >= patternTblAddr && addr <= patternTblAddrEnd {
		if p.Cart != nil {
			data = p.Cart.ChrRom[int(p.mapper.ppuMapRead(addr))%len(p.Cart.ChrRom)]
		}
	} else if addr >= nameTblAddr && addr <= nameTblAddrEnd {
		data = p.vram[p.mirrorVramAddr(addr)]
	} else if addr >= paletteAddr && addr <= paletteAddrEnd {
		data = p.paletteTable[paletteIndex(addr)]
	}

	return data
}

func (p *Ppu) ppuWrite(addr uint16, data byte) error {
	addr &= ppuMaxAddr // Max addressable range.

	if addr >= patternTblAddr && addr <= patternTblAddrEnd {
		if p.Cart == nil {
			return nil
		}
		if !p.Cart.chrRam {
			return errors.Wrapf(ErrChrRomWrite, "ppu address $%04X", addr)
		}
		p.Cart.ChrRom[int(p.mapper.ppuMapWrite(addr))%len(p.Cart.ChrRom)] = data
	} else if addr >= nameTblAddr && addr <= nameTblAddrEnd {
		p.vram[p.mirrorVramAddr(addr)] = data
	} else if addr >= paletteAddr && addr <= paletteAddrEnd {
		p.paletteTable[paletteIndex(addr)] = data
	}

	return nil
}

// Index into the 32 byte palette table. The background color entries of the
// sprite palettes, $3F10/$3F14/$3F18/$3F1C, mirror $3F00/$3F04/$3F08/$3F0C.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

// mirrorVramAddr turns a name table address (0x2000-0x3EFF) into an offset in
// VRAM. The four logical name tables map onto physical ones per the
// cartridge's mirroring:
//
// Horizontal:
//
//	[ A ] [ a ]
//	[ B ] [ b ]
//
// Vertical:
//
//	[ A ] [ B ]
//	[ a ] [ b ]
//
// FourScreen:
//
//	[ A ] [ B ]
//	[ C ] [ D ]
func (p *Ppu) mirrorVramAddr(addr uint16) uint16 {
	idx := (addr & nameTblMirror) - nameTblAddr
	table := idx / nameTblSize

	switch p.mirroring {
	case Vertical:
		if table >= 2 {
			idx -= 2 * nameTblSize
		}
	case Horizontal:
		switch table {
		case 1, 2:
			idx -= nameTblSize
		case 3:
			idx -= 2 * nameTblSize
		}
	}

	return idx
}
