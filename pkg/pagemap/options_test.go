package pagemap

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pagemap/pkg/css"
)

func TestParsePaint(t *testing.T) {
	tests := []struct {
		in   string
		want Paint
	}{
		{"default", Computed},
		{"", None},
		{"none", None},
		{"false", None},
		{"#ff0000", Color(css.Color{R: 255, A: 1})},
		{"rgba(0,0,0,0.08)", Black(8)},
	}
	for _, tt := range tests {
		got, err := ParsePaint(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want.String() {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParsePaint("not-a-colour"); err == nil {
		t.Error("expected an error for an unknown colour")
	}
}

func TestOptions_Defaults(t *testing.T) {
	got := Options{}.withDefaults()
	if got.Back != Black(2) || got.View != Black(5) || got.Drag != Black(10) {
		t.Errorf("unexpected default paints %v %v %v", got.Back, got.View, got.Drag)
	}
	if got.OutlineWidth != 5 || got.Outline != Color(css.Color{A: 1}) {
		t.Errorf("unexpected outline %v width %v", got.Outline, got.OutlineWidth)
	}
	if got.Interval != 0 {
		t.Errorf("no interval by default, got %v", got.Interval)
	}

	selectors := make([]string, 0, len(got.Styles))
	for _, r := range got.Styles {
		selectors = append(selectors, r.Selector)
	}
	want := []string{"header,footer,section,article", "h1,a", "h2,h3,h4"}
	if diff := cmp.Diff(want, selectors); diff != "" {
		t.Errorf("default rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_KeepsExplicitValues(t *testing.T) {
	got := Options{
		Styles:   []StyleRule{},
		View:     None,
		Drag:     Computed,
		Interval: time.Second,
	}.withDefaults()
	if len(got.Styles) != 0 {
		t.Errorf("empty rule list should stay empty, got %d rules", len(got.Styles))
	}
	if got.View != None || got.Drag != Computed {
		t.Errorf("explicit paints were replaced: %v %v", got.View, got.Drag)
	}
	if got.Back != Black(2) {
		t.Errorf("unset back should default, got %v", got.Back)
	}
}

func TestOptions_SetOutlineWidth(t *testing.T) {
	var o Options
	o.SetOutlineWidth(3)
	if got := o.withDefaults(); got.OutlineWidth != 3 || !got.Outline.IsSet() || got.Outline == None {
		t.Errorf("expected a 3px default outline, got %v %v", got.Outline, got.OutlineWidth)
	}

	o = Options{}
	o.SetOutlineWidth(0)
	if got := o.withDefaults(); got.Outline != None {
		t.Errorf("a zero width should drop the outline, got %v", got.Outline)
	}

	if got := (Options{}).withDefaults(); got.OutlineWidth != 5 {
		t.Errorf("an unset width should default to 5, got %v", got.OutlineWidth)
	}
}

func TestPaint_Resolve(t *testing.T) {
	if _, ok := None.resolve(nil); ok {
		t.Error("none should not paint")
	}
	if _, ok := (Paint{}).resolve(nil); ok {
		t.Error("unset should not paint")
	}
	if _, ok := Color(css.Transparent).resolve(nil); ok {
		t.Error("transparent colour should not paint")
	}
	if c, ok := Black(8).resolve(nil); !ok || c.A != 0.08 {
		t.Errorf("expected black 8%%, got %v %v", c, ok)
	}
	if _, ok := Computed.resolve(nil); ok {
		t.Error("computed paint needs an element")
	}
}
