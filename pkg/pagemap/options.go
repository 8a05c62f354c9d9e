package pagemap

import (
	"fmt"
	"strings"
	"time"

	"pagemap/pkg/css"
	"pagemap/pkg/page"
)

type paintKind uint8

const (
	paintUnset paintKind = iota
	paintNone
	paintColor
	paintComputed
)

// Paint says how a rectangle is filled: not at all, with a fixed colour, or
// with the matched element's own computed background colour. The zero
// Paint is unset and takes the default when options are merged.
type Paint struct {
	kind  paintKind
	color css.Color
}

var (
	// None disables a rectangle.
	None = Paint{kind: paintNone}

	// Computed fills each element with its computed background-color.
	Computed = Paint{kind: paintComputed}
)

// Color paints with a fixed colour.
func Color(c css.Color) Paint {
	return Paint{kind: paintColor, color: c}
}

// Black returns black at pct percent opacity.
func Black(pct float64) Paint {
	return Color(css.Color{A: pct / 100})
}

// ParsePaint reads a paint from its option-file spelling: a CSS colour,
// "default" for the computed background colour, or "", "none" or "false"
// to disable the rectangle.
func ParsePaint(s string) (Paint, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "none", "false", "0":
		return None, nil
	case "default":
		return Computed, nil
	default:
		c, ok := css.ParseColor(v)
		if !ok {
			return Paint{}, fmt.Errorf("invalid colour %q", s)
		}
		return Color(c), nil
	}
}

// IsSet reports whether p was given explicitly.
func (p Paint) IsSet() bool {
	return p.kind != paintUnset
}

// resolve returns the colour to fill with for el, or false when nothing
// should be drawn.
func (p Paint) resolve(el *page.Element) (css.Color, bool) {
	var c css.Color
	switch p.kind {
	case paintColor:
		c = p.color
	case paintComputed:
		if el == nil {
			return css.Color{}, false
		}
		c = el.BackgroundColor()
	default:
		return css.Color{}, false
	}
	if c.IsTransparent() {
		return css.Color{}, false
	}
	return c, true
}

func (p Paint) or(def Paint) Paint {
	if p.IsSet() {
		return p
	}
	return def
}

func (p Paint) String() string {
	switch p.kind {
	case paintNone:
		return "none"
	case paintColor:
		return p.color.String()
	case paintComputed:
		return "default"
	}
	return "unset"
}

// StyleRule paints every element matching Selector.
type StyleRule struct {
	Selector string
	Paint    Paint
}

// Options configures a Map. Every field is optional.
type Options struct {
	// Viewport is a scrollable element to map instead of the document.
	Viewport *page.Element

	// Styles are painted in order, after the background and before the
	// overlay. A nil slice selects DefaultStyles; an empty one paints no
	// elements.
	Styles []StyleRule

	Back    Paint // whole content area
	View    Paint // overlay while idle
	Drag    Paint // overlay while dragging
	Outline Paint // idle overlay border

	// OutlineWidth is in content pixels. Zero selects the default width;
	// SetOutlineWidth(0) removes the outline instead.
	OutlineWidth float64

	// Interval redraws periodically when positive.
	Interval time.Duration
}

// DefaultStyles returns the built-in style rules.
func DefaultStyles() []StyleRule {
	return []StyleRule{
		{Selector: "header,footer,section,article", Paint: Black(8)},
		{Selector: "h1,a", Paint: Black(10)},
		{Selector: "h2,h3,h4", Paint: Black(8)},
	}
}

// DefaultOptions returns the options used for every unset field.
func DefaultOptions() Options {
	return Options{
		Styles:       DefaultStyles(),
		Back:         Black(2),
		View:         Black(5),
		Drag:         Black(10),
		Outline:      Color(css.Color{A: 1}),
		OutlineWidth: 5,
	}
}

// SetOutlineWidth sets the idle overlay border width as written by a
// user. A width of zero or less means no border at all.
func (o *Options) SetOutlineWidth(w float64) {
	if w <= 0 {
		o.Outline = None
		return
	}
	o.OutlineWidth = w
}

// withDefaults fills the unset fields of o.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Styles == nil {
		o.Styles = def.Styles
	}
	o.Back = o.Back.or(def.Back)
	o.View = o.View.or(def.View)
	o.Drag = o.Drag.or(def.Drag)
	o.Outline = o.Outline.or(def.Outline)
	if o.OutlineWidth <= 0 {
		o.OutlineWidth = def.OutlineWidth
	}
	return o
}
