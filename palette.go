package main

import "image/color"

// ColorCode is one of the eight RGBCMYWK palette symbols.
type ColorCode uint8

const (
	CodeR ColorCode = iota
	CodeG
	CodeB
	CodeC
	CodeM
	CodeY
	CodeW
	CodeK
)

// numCodes is the palette size; codes at or above it are out of table.
const numCodes = 8

var paletteRGB = [numCodes]color.RGBA{
	CodeR: {255, 0, 0, 255},
	CodeG: {0, 255, 0, 255},
	CodeB: {0, 0, 255, 255},
	CodeC: {0, 255, 255, 255},
	CodeM: {255, 0, 255, 255},
	CodeY: {255, 255, 0, 255},
	CodeW: {255, 255, 255, 255},
	CodeK: {0, 0, 0, 255},
}

var complements = [numCodes]ColorCode{
	CodeR: CodeC,
	CodeG: CodeM,
	CodeB: CodeY,
	CodeC: CodeR,
	CodeM: CodeG,
	CodeY: CodeB,
	CodeW: CodeK,
	CodeK: CodeW,
}

// chromatic is the set used for the white substitution and the dummy fill.
var chromatic = [...]ColorCode{CodeR, CodeG, CodeB, CodeC, CodeM, CodeY}

// RGB returns the palette color. Unknown codes render as black.
func (c ColorCode) RGB() color.RGBA {
	if c >= numCodes {
		return paletteRGB[CodeK]
	}
	return paletteRGB[c]
}

// Complement maps R↔C, G↔M, B↔Y, W↔K. Unknown codes map to K.
func (c ColorCode) Complement() ColorCode {
	if c >= numCodes {
		return CodeK
	}
	return complements[c]
}

func (c ColorCode) String() string {
	if c >= numCodes {
		return "?"
	}
	return "RGBCMYWK"[c : c+1]
}

// Pair is the two subpixels one secret pixel expands to inside a share.
type Pair [2]ColorCode

// Complement returns the element-wise complement of p.
func (p Pair) Complement() Pair {
	return Pair{p[0].Complement(), p[1].Complement()}
}

func (p Pair) String() string {
	return p[0].String() + p[1].String()
}
