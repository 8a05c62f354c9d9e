package css

import "testing"

func TestParseInlineStyle_Shorthands(t *testing.T) {
	style := ParseInlineStyle("margin: 10px 20px; padding: 1px 2px 3px 4px; border: 2px solid red")

	margin := style.GetMargin()
	if margin != (BoxEdge{Top: 10, Right: 20, Bottom: 10, Left: 20}) {
		t.Errorf("unexpected margin %+v", margin)
	}
	padding := style.GetPadding()
	if padding != (BoxEdge{Top: 1, Right: 2, Bottom: 3, Left: 4}) {
		t.Errorf("unexpected padding %+v", padding)
	}
	border := style.GetBorderWidth()
	if border != (BoxEdge{Top: 2, Right: 2, Bottom: 2, Left: 2}) {
		t.Errorf("unexpected border %+v", border)
	}
	if c, _ := style.Get("border-color"); c != "red" {
		t.Errorf("expected border-color red, got %q", c)
	}
}

func TestBorderStyleNoneHasNoWidth(t *testing.T) {
	style := ParseInlineStyle("border-width: 4px; border-style: none")
	if got := style.GetBorderWidth(); got != (BoxEdge{}) {
		t.Errorf("expected zero border, got %+v", got)
	}
}

func TestBackgroundShorthandColor(t *testing.T) {
	style := ParseInlineStyle("background: url(x.png) rgba(0, 0, 255, 0.5) no-repeat")
	got := style.GetBackgroundColor()
	if got != (Color{0, 0, 255, 0.5}) {
		t.Errorf("expected translucent blue, got %v", got)
	}
}

func TestGetBackgroundColor_DefaultTransparent(t *testing.T) {
	if c := NewStyle().GetBackgroundColor(); !c.IsTransparent() {
		t.Errorf("expected transparent default, got %v", c)
	}
}

func TestGetOverflow(t *testing.T) {
	cases := []struct {
		decl string
		want OverflowType
	}{
		{"", OverflowVisible},
		{"overflow: auto", OverflowAuto},
		{"overflow: hidden", OverflowHidden},
		{"overflow-y: scroll", OverflowScroll},
		{"overflow: visible; overflow-y: auto", OverflowAuto},
	}
	for _, c := range cases {
		if got := ParseInlineStyle(c.decl).GetOverflow(); got != c.want {
			t.Errorf("%q: expected %s, got %s", c.decl, c.want, got)
		}
	}
}

func TestGetLineHeight(t *testing.T) {
	if got := ParseInlineStyle("font-size: 10px").GetLineHeight(); got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
	if got := ParseInlineStyle("font-size: 10px; line-height: 2").GetLineHeight(); got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
	if got := ParseInlineStyle("line-height: 18px").GetLineHeight(); got != 18 {
		t.Errorf("expected 18, got %v", got)
	}
}

func TestGetDisplayAndPosition(t *testing.T) {
	style := ParseInlineStyle("display: none; position: fixed; top: 5px; right: 0")
	if style.GetDisplay() != DisplayNone {
		t.Error("expected display none")
	}
	if style.GetPosition() != PositionFixed {
		t.Error("expected position fixed")
	}
	off := style.GetPositionOffset()
	if !off.HasTop || off.Top != 5 || !off.HasRight || off.HasLeft {
		t.Errorf("unexpected offsets %+v", off)
	}
}
