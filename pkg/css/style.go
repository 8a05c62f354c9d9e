package css

import (
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal is Left+Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical is Top+Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

// GetMargin returns the margin values for all four sides
func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin-%s")
}

// GetPadding returns the padding values for all four sides
func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding-%s")
}

// GetBorderWidth returns the border width for all four sides. A side whose
// border-style is none contributes nothing.
func (s *Style) GetBorderWidth() BoxEdge {
	if bs, ok := s.Get("border-style"); ok && (bs == "none" || bs == "hidden") {
		return BoxEdge{}
	}
	return s.edge("border-%s-width")
}

func (s *Style) edge(pattern string) BoxEdge {
	side := func(name string) float64 {
		return s.getLengthOrZero(strings.Replace(pattern, "%s", name, 1))
	}
	return BoxEdge{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

// getLengthOrZero returns the length value or 0 if not found
func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

// Position type constants
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch pos {
		case "relative":
			return PositionRelative
		case "absolute":
			return PositionAbsolute
		case "fixed":
			return PositionFixed
		}
	}
	return PositionStatic
}

// PositionOffset holds top/right/bottom/left for positioned elements.
type PositionOffset struct {
	Top       float64
	Right     float64
	Bottom    float64
	Left      float64
	HasTop    bool
	HasRight  bool
	HasBottom bool
	HasLeft   bool
}

// GetPositionOffset returns positioning offset values
func (s *Style) GetPositionOffset() PositionOffset {
	offset := PositionOffset{}
	offset.Top, offset.HasTop = s.GetLength("top")
	offset.Right, offset.HasRight = s.GetLength("right")
	offset.Bottom, offset.HasBottom = s.GetLength("bottom")
	offset.Left, offset.HasLeft = s.GetLength("left")
	return offset
}

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value (default: block)
func (s *Style) GetDisplay() DisplayType {
	if d, ok := s.Get("display"); ok {
		switch d {
		case "inline":
			return DisplayInline
		case "inline-block":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

// OverflowType represents the overflow property value
type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
	OverflowScroll  OverflowType = "scroll"
	OverflowAuto    OverflowType = "auto"
)

// GetOverflow returns the overflow value (default: visible). overflow-y wins
// over the shorthand since vertical scrolling is what containers use.
func (s *Style) GetOverflow() OverflowType {
	val, ok := s.Get("overflow-y")
	if !ok {
		val, ok = s.Get("overflow")
	}
	if !ok {
		return OverflowVisible
	}
	switch strings.TrimSpace(val) {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto":
		return OverflowAuto
	}
	return OverflowVisible
}

// IsScrollContainer reports whether the element clips and scrolls its
// content.
func (s *Style) IsScrollContainer() bool {
	return s.GetOverflow() != OverflowVisible
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok && size > 0 {
		return size
	}
	return 16.0
}

// GetLineHeight returns the line height in pixels. Unitless values multiply
// the font size; the default is 1.2em.
func (s *Style) GetLineHeight() float64 {
	fontSize := s.GetFontSize()
	if lh, ok := s.Get("line-height"); ok {
		lh = strings.TrimSpace(lh)
		if strings.HasSuffix(lh, "px") {
			if v, ok := ParseLength(lh); ok {
				return v
			}
		}
		if v, err := strconv.ParseFloat(lh, 64); err == nil {
			return v * fontSize
		}
	}
	return fontSize * 1.2
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0, 1}
}

// GetBackgroundColor returns the resolved background-color, transparent
// when unset or unparseable.
func (s *Style) GetBackgroundColor() Color {
	if colorStr, ok := s.Get("background-color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Transparent
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin":
		expandBoxProperty(style, "margin", value)
	case "padding":
		expandBoxProperty(style, "padding", value)
	case "border":
		expandBorderProperty(style, value)
	case "border-width":
		expandBoxProperty(style, "border", value)
		fixBorderWidthNames(style)
	case "background":
		// Only the colour part of the shorthand matters here.
		for _, part := range splitOutsideParens(value) {
			if _, ok := ParseColor(part); ok {
				style.Set("background-color", part)
			}
		}
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands margin/padding shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
//
//	"10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top", t)
	style.Set(prefix+"-right", r)
	style.Set(prefix+"-bottom", b)
	style.Set(prefix+"-left", l)
}

// fixBorderWidthNames renames border-top to border-top-width and so on
// after expandBoxProperty ran with the "border" prefix.
func fixBorderWidthNames(style *Style) {
	for _, side := range []string{"top", "right", "bottom", "left"} {
		if v, ok := style.Get("border-" + side); ok {
			delete(style.Properties, "border-"+side)
			style.Set("border-"+side+"-width", v)
		}
	}
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000"
func expandBorderProperty(style *Style, value string) {
	for _, part := range splitOutsideParens(value) {
		switch {
		case strings.HasSuffix(part, "px") || part == "0":
			for _, side := range []string{"top", "right", "bottom", "left"} {
				style.Set("border-"+side+"-width", part)
			}
		case part == "solid" || part == "dotted" || part == "dashed" || part == "double" ||
			part == "none" || part == "hidden":
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
}

// splitOutsideParens splits on whitespace but keeps "rgb(1, 2, 3)" whole.
func splitOutsideParens(value string) []string {
	var parts []string
	depth, start := 0, -1
	for i, ch := range value {
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case (ch == ' ' || ch == '\t' || ch == '\n') && depth == 0:
			if start >= 0 {
				parts = append(parts, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, value[start:])
	}
	return parts
}
