package nes

const oamSprites = 64

type objectAttributeMemory []*oamSprite

// newOAM returns object attribute memory of the given size, with each entry
// allocated in memory.
func newOAM(size int) objectAttributeMemory {
	oam := make(objectAttributeMemory, size)
	for i := range oam {
		oam[i] = new(oamSprite)
	}
	return oam
}

// oamSprite represents one entry, or sprite, in the Object Attribute memory.
type oamSprite struct {
	y         byte // Y position of the sprite
	id        byte // pattern memory ID
	attribute byte // flag specifying rendering attributes
	x         byte // X position of the sprite
}

// OAMADDR addresses OAM byte by byte, 4 bytes per sprite.
func (oam objectAttributeMemory) property(addr byte) *byte {
	sprite := oam[int(addr)/4%len(oam)]

	switch addr % 4 {
	case 0:
		return &sprite.y
	case 1:
		return &sprite.id
	case 2:
		return &sprite.attribute
	}
	return &sprite.x
}

func (oam objectAttributeMemory) read(addr byte) byte {
	return *oam.property(addr)
}

func (oam objectAttributeMemory) write(addr byte, data byte) {
	*oam.property(addr) = data
}

// Unused sprites sit off screen with every byte at 0xFF.
func (oam objectAttributeMemory) clear() {
	for i := 0; i < len(oam)*4; i++ {
		oam.write(byte(i), 0xFF)
	}
}
