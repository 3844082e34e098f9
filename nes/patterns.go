package nes

import (
	"image"
	"image/color"

	"golang.org/x/image/colornames"
)

// Shades used for the four pixel values of a tile.
var patternShades = [4]color.RGBA{
	colornames.Black,
	colornames.Dimgray,
	colornames.Darkgray,
	colornames.White,
}

// PatternTable draws pattern table i (0 or 1) as a 128x128 greyscale image.
// Pattern tables are 16x16 grids of tiles or sprites. Each tile is 8x8 pixels
// and 16 bytes of memory.
func (p *Ppu) PatternTable(i int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, 128, 128))
	base := patternTblSize * uint16(i&1)

	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			// Tile
			memOffset := base + uint16(tileY*(16*16)+tileX*16)

			for row := 0; row < 8; row++ {
				// 2 bytes represent an 8 pixel row, the high plane 8 bytes
				// after the low plane.
				tileLo := p.ppuRead(memOffset + uint16(row))
				tileHi := p.ppuRead(memOffset + uint16(row) + 8)

				for col := 0; col < 8; col++ {
					// Bit 7 is the leftmost pixel.
					pixel := (tileLo>>(7-col))&0x01 | ((tileHi>>(7-col))&0x01)<<1

					rgba.SetRGBA(tileX*8+col, tileY*8+row, patternShades[pixel])
				}
			}
		}
	}

	return rgba
}
