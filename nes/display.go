package nes

import (
	"github.com/faiface/pixel"
)

// PatternPicture converts pattern table i into picture data for a pixel
// target, such as a debug window beside the game screen.
func (p *Ppu) PatternPicture(i int) *pixel.PictureData {
	return pixel.PictureDataFromImage(p.PatternTable(i))
}

// PatternSprite returns pattern table i as a sprite, with the matrix that
// draws it at the given scale with its corner on the origin.
func (p *Ppu) PatternSprite(i int, scale float64) (*pixel.Sprite, pixel.Matrix) {
	pic := p.PatternPicture(i)

	// Calculate matrix required to render the table based on the set scale.
	matrix := pixel.IM.Moved(pic.Bounds().Center().Scaled(scale))
	matrix = matrix.Scaled(pic.Bounds().Center().Scaled(scale), scale)

	return pixel.NewSprite(pic, pic.Bounds()), matrix
}
