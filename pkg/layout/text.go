package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// baseFace is the bitmap face used for measuring. Its advances are scaled
// linearly to the requested font size.
var baseFace font.Face = basicfont.Face7x13

// BaseFaceSize is the pixel size of the measuring face.
const BaseFaceSize = 13.0

// MeasureText returns the advance width of s at the given font size.
func MeasureText(s string, fontSize float64) float64 {
	adv := font.MeasureString(baseFace, s)
	return float64(adv) / 64 * fontSize / BaseFaceSize
}
