package nes

import (
	"io"
	"log"
)

// Config holds the options used when creating a new Bus.
type Config struct {
	// Logger receives diagnostics from the bus and CPU. Discarded if nil.
	Logger *log.Logger

	// Log reads and writes that fall outside every mapped region.
	LogUnmapped bool

	// Discard CPU writes to PRG ROM instead of storing them.
	WriteProtectRom bool
}

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return c.Logger
}
