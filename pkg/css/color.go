package css

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is an sRGB colour with straight (non-premultiplied) alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// Transparent is the initial value of background-color.
var Transparent = Color{0, 0, 0, 0}

var namedColors = map[string]Color{
	"black":      {0, 0, 0, 1},
	"silver":     {192, 192, 192, 1},
	"gray":       {128, 128, 128, 1},
	"grey":       {128, 128, 128, 1},
	"white":      {255, 255, 255, 1},
	"maroon":     {128, 0, 0, 1},
	"red":        {255, 0, 0, 1},
	"purple":     {128, 0, 128, 1},
	"fuchsia":    {255, 0, 255, 1},
	"magenta":    {255, 0, 255, 1},
	"green":      {0, 128, 0, 1},
	"lime":       {0, 255, 0, 1},
	"olive":      {128, 128, 0, 1},
	"yellow":     {255, 255, 0, 1},
	"navy":       {0, 0, 128, 1},
	"blue":       {0, 0, 255, 1},
	"teal":       {0, 128, 128, 1},
	"aqua":       {0, 255, 255, 1},
	"cyan":       {0, 255, 255, 1},
	"orange":     {255, 165, 0, 1},
	"pink":       {255, 192, 203, 1},
	"brown":      {165, 42, 42, 1},
	"gold":       {255, 215, 0, 1},
	"lightgray":  {211, 211, 211, 1},
	"lightgrey":  {211, 211, 211, 1},
	"darkgray":   {169, 169, 169, 1},
	"darkgrey":   {169, 169, 169, 1},
	"whitesmoke": {245, 245, 245, 1},
	"steelblue":  {70, 130, 180, 1},
	"tomato":     {255, 99, 71, 1},
}

// ParseColor accepts named colours, transparent, #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb() and rgba().
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "" {
		return Color{}, false
	}
	if colorStr == "transparent" {
		return Transparent, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if strings.HasPrefix(colorStr, "#") {
		return parseHexColor(colorStr[1:])
	}
	if strings.HasPrefix(colorStr, "rgb(") || strings.HasPrefix(colorStr, "rgba(") {
		return parseRGBFunction(colorStr)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, ch := range hex {
			expanded.WriteRune(ch)
			expanded.WriteRune(ch)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 1}, true
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), float64(uint8(v)) / 255}, true
}

func parseRGBFunction(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	body := s[open+1 : len(s)-1]
	body = strings.NewReplacer("/", " ", ",", " ").Replace(body)
	args := strings.Fields(body)
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var c Color
	channels := []*uint8{&c.R, &c.G, &c.B}
	for i, ch := range channels {
		v, ok := parseChannel(args[i])
		if !ok {
			return Color{}, false
		}
		*ch = v
	}
	c.A = 1
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

func parseChannel(s string) (uint8, bool) {
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = 2.55
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(math.Round(math.Max(0, math.Min(255, v*scale)))), true
}

func parseAlpha(s string) (float64, bool) {
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = 0.01
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return math.Max(0, math.Min(1, v*scale)), true
}

// IsTransparent reports whether painting c would change nothing.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// NRGBA converts c to the standard library's straight-alpha colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// String serializes c the way getComputedStyle reports background-color.
func (c Color) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(c.A, 'f', -1, 64))
}
