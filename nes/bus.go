package nes

import (
	"log"

	"github.com/pkg/errors"
)

// Main bus used by the CPU.
type Bus struct {
	Cpu  *Cpu6502   // NES CPU.
	Ppu  *Ppu       // Picture processing unit, register interface only.
	Cart *Cartridge // NES Cartridge, nil until one is inserted.

	ram    [0x0800]byte // 2KB internal RAM.
	prgRom [0x8000]byte // Program ROM seen at 0x8000-0xFFFF.
	mapper Mapper       // Folds CPU addresses into prgRom.

	config Config
	logger *log.Logger

	// First fatal condition raised by a device during the current
	// instruction. Collected by the CPU once the instruction completes.
	fault error
}

const (
	// RAM
	ramMinAddr uint16 = 0x0000
	ramMaxAddr uint16 = 0x1FFF
	ramMirror  uint16 = 0x07FF // mirror every 2KB.

	// PPU
	ppuMinAddr uint16 = 0x2000
	ppuMaxAddr uint16 = 0x3FFF
	ppuMirror  uint16 = 0x2007 // mirror every 8 bytes.

	// Cartridge program ROM
	prgMinAddr uint16 = 0x8000
	prgMaxAddr uint16 = 0xFFFF
)

func NewBus(cfg Config) *Bus {
	// Create a new CPU. Here we use a 6502.
	cpu := NewCpu6502()
	logger := cfg.logger()
	cpu.Logger = logger

	// Attach devices to the bus. With no cartridge inserted the whole 32KB of
	// PRG ROM is addressable.
	bus := &Bus{
		Cpu:    cpu,
		Ppu:    NewPpu(),
		mapper: NewMapper000(2, 0),
		config: cfg,
		logger: logger,
	}

	// Connect this bus to the cpu.
	cpu.ConnectBus(bus)

	return bus
}

// Read a byte from the main bus at a specified address.
func (b *Bus) Read(addr uint16) byte {
	var data byte

	if addr >= ramMinAddr && addr <= ramMaxAddr {
		data = b.ram[addr&ramMirror]
	} else if addr >= ppuMinAddr && addr <= ppuMaxAddr {
		data = b.Ppu.cpuRead(addr & ppuMirror)
	} else if addr >= prgMinAddr && addr <= prgMaxAddr {
		data = b.prgRom[b.mapper.cpuMapRead(addr)]
	} else if b.config.LogUnmapped {
		b.logger.Printf("bus: read from unmapped address $%04X", addr)
	}

	return data
}

// Write a byte to the main bus at a specified address.
func (b *Bus) Write(addr uint16, data byte) {
	if addr >= ramMinAddr && addr <= ramMaxAddr {
		b.ram[addr&ramMirror] = data
	} else if addr >= ppuMinAddr && addr <= ppuMaxAddr {
		if err := b.Ppu.cpuWrite(addr&ppuMirror, data); err != nil {
			b.raise(errors.Wrapf(err, "write $%02X to $%04X", data, addr))
		}
	} else if addr >= prgMinAddr && addr <= prgMaxAddr {
		if b.config.WriteProtectRom {
			b.logger.Printf("bus: discarded write $%02X to ROM at $%04X", data, addr)
			return
		}
		b.prgRom[b.mapper.cpuMapWrite(addr)] = data
	} else if b.config.LogUnmapped {
		b.logger.Printf("bus: write $%02X to unmapped address $%04X", data, addr)
	}
}

// Read a word (little endian order). The high byte address wraps at 0xFFFF.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return makeWord(lo, hi)
}

// Write a word, low byte first.
func (b *Bus) WriteWord(addr uint16, data uint16) {
	b.Write(addr, loByte(data))
	b.Write(addr+1, hiByte(data))
}

// Peek reads like Read but without side effects on any device: PPU status and
// data port reads leave the PPU untouched.
func (b *Bus) Peek(addr uint16) byte {
	switch {
	case addr <= ramMaxAddr:
		return b.ram[addr&ramMirror]
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		return b.Ppu.peekRegister(addr & ppuMirror)
	case addr >= prgMinAddr:
		return b.prgRom[b.mapper.cpuMapRead(addr)]
	}
	return 0
}

// Keep the first fault of an instruction.
func (b *Bus) raise(err error) {
	if b.fault == nil {
		b.fault = err
	}
}

func (b *Bus) takeFault() error {
	err := b.fault
	b.fault = nil
	return err
}

// Load a program to the NES. PRG ROM is cleared, the program is copied to
// 0x8000 and the reset vector is pointed at it. The full 32KB window is
// mapped, even after a 16KB cartridge. Call Cpu.Reset to start it.
func (b *Bus) Load(program []byte) error {
	if len(program) > len(b.prgRom) {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes", len(program))
	}

	b.prgRom = [0x8000]byte{}
	copy(b.prgRom[:], program)
	b.mapper = NewMapper000(2, 0)

	// Reset vector at 0xFFFC points to the start of the program.
	b.prgRom[resetVectAddr-prgMinAddr] = loByte(prgMinAddr)
	b.prgRom[resetVectAddr-prgMinAddr+1] = hiByte(prgMinAddr)

	return nil
}

// Load a cartridge to the NES. The cartridge is connected to both the CPU and PPU.
func (b *Bus) InsertCartridge(cart *Cartridge) error {
	mapper, err := newMapper(cart.Mapper, cart.prgBanks(), cart.chrBanks())
	if err != nil {
		return err
	}
	if len(cart.PrgRom) > len(b.prgRom) {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes of PRG ROM", len(cart.PrgRom))
	}

	b.Cart = cart
	b.mapper = mapper

	b.prgRom = [0x8000]byte{}
	copy(b.prgRom[:], cart.PrgRom)

	b.Ppu.ConnectCartridge(cart, mapper)

	return nil
}

// Reset the NES.
func (b *Bus) Reset() {
	b.Ppu.reset()
	b.fault = nil
	b.Cpu.Reset()
}
