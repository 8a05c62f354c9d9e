package css

import "testing"

func TestComputeStyle_SpecificityAndOrder(t *testing.T) {
	doc := parse(t, `<style>
p { color: red; background-color: white }
.note { color: green }
p { background-color: yellow }
#n { color: blue }
</style><p id="n" class="note" style="background-color: black">x</p><p class="note" id="m">y</p>`)
	styles := ApplyStylesToDocument(doc)

	n := styles[doc.GetElementByID("n")]
	if c, _ := n.Get("color"); c != "blue" {
		t.Errorf("id rule should win, got color %q", c)
	}
	if c, _ := n.Get("background-color"); c != "black" {
		t.Errorf("inline style should win, got background %q", c)
	}

	m := styles[doc.GetElementByID("m")]
	if c, _ := m.Get("color"); c != "green" {
		t.Errorf("class rule should beat element rule, got %q", c)
	}
	if c, _ := m.Get("background-color"); c != "yellow" {
		t.Errorf("later rule should win on equal specificity, got %q", c)
	}
}

func TestComputeStyle_Inheritance(t *testing.T) {
	doc := parse(t, `<div style="color: red; font-size: 20px; background-color: blue"><span id="s">x</span></div>`)
	styles := ApplyStylesToDocument(doc)
	s := styles[doc.GetElementByID("s")]
	if c, _ := s.Get("color"); c != "red" {
		t.Errorf("color should inherit, got %q", c)
	}
	if s.GetFontSize() != 20 {
		t.Errorf("font-size should inherit, got %v", s.GetFontSize())
	}
	if !s.GetBackgroundColor().IsTransparent() {
		t.Error("background-color must not inherit")
	}
}

func TestComputeStyle_UserAgentDefaults(t *testing.T) {
	doc := parse(t, `<h1 id="t">x</h1><a id="l">y</a>`)
	styles := ApplyStylesToDocument(doc)
	if styles[doc.GetElementByID("t")].GetFontSize() != 32 {
		t.Error("h1 should default to 32px")
	}
	if styles[doc.GetElementByID("l")].GetDisplay() != DisplayInline {
		t.Error("a should default to inline")
	}
	if styles[doc.Root.FindFirst("head")].GetDisplay() != DisplayNone {
		t.Error("head should not be displayed")
	}
}
