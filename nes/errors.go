package nes

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fatal conditions. These abort a run and are returned wrapped in an
// ExecutionError.
var (
	ErrUnimplementedOpcode   = errors.New("unimplemented opcode")
	ErrInvalidAddressingMode = errors.New("invalid addressing mode for operand resolution")
	ErrChrRomWrite           = errors.New("ppu data port write to cartridge CHR ROM")
)

// Recoverable conditions, surfaced to whoever is loading a program or cartridge.
var (
	ErrInvalidFormat      = errors.New("file is not in iNES format")
	ErrUnsupportedVersion = errors.New("NES 2.0 format is not supported")
	ErrTruncatedRom       = errors.New("rom image is shorter than its header declares")
	ErrUnsupportedMapper  = errors.New("unsupported mapper")
	ErrProgramTooLarge    = errors.New("program does not fit in PRG ROM")
)

// ExecutionError describes a fatal condition met while executing the
// instruction at Pc.
type ExecutionError struct {
	Pc     uint16 // Address of the offending instruction
	Opcode byte
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("cpu: $%04X opcode $%02X: %v", e.Pc, e.Opcode, e.Err)
}

// Cause lets errors.Cause reach the underlying sentinel.
func (e *ExecutionError) Cause() error { return e.Err }

func (e *ExecutionError) Unwrap() error { return e.Err }
