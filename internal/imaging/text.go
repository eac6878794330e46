package imaging

import (
	"image"
	"image/color"
)

// 3x5 pixel glyphs for scale-bar labels. Characters without a glyph render
// as blank space, which keeps arbitrary unit strings safe to pass through.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'u': {"000", "000", "101", "101", "111"},
	'm': {"000", "000", "111", "111", "101"},
	'n': {"000", "000", "110", "101", "101"},
	'p': {"000", "110", "101", "110", "100"},
	'x': {"000", "000", "101", "010", "101"},
	'c': {"000", "000", "011", "100", "011"},
	'i': {"010", "000", "010", "010", "010"},
	' ': {"000", "000", "000", "000", "000"},
}

// drawGlyphText draws a label with the built-in pixel font over a filled
// background box. Positions outside the image are clipped.
func drawGlyphText(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, r := range text {
		rows, ok := glyphs[r]
		if !ok {
			cx += charWidth
			continue
		}
		for gy, row := range rows {
			for gx, bit := range row {
				if bit == '1' {
					px, py := cx+gx, y+gy
					if image.Pt(px, py).In(bounds) {
						img.SetNRGBA(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
