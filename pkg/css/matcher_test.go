package css

import (
	"testing"

	"pagemap/pkg/html"
)

func parse(t *testing.T, src string) *html.Document {
	t.Helper()
	doc, err := html.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func tags(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TagName
		if id := n.ID(); id != "" {
			out[i] += "#" + id
		}
	}
	return out
}

func TestMatchesSelector_Simple(t *testing.T) {
	node := html.NewElement("div", map[string]string{"id": "header", "class": "highlight big"})

	for _, sel := range []string{"div", "#header", ".highlight", "div.big#header", "*", "[id]", "[class~=big]"} {
		if !MatchesSelector(node, ParseSelector(sel)) {
			t.Errorf("div should match %q", sel)
		}
	}
	for _, sel := range []string{"p", "#other", ".small", ":hover", "[lang]"} {
		if MatchesSelector(node, ParseSelector(sel)) {
			t.Errorf("div should not match %q", sel)
		}
	}
}

func TestMatchesSelector_Combinators(t *testing.T) {
	doc := parse(t, `<article id="a"><h2 id="t">T</h2><p id="p1">x</p><div><p id="p2">y</p></div><ul id="u"></ul></article>`)
	p2 := doc.GetElementByID("p2")
	p1 := doc.GetElementByID("p1")
	ul := doc.GetElementByID("u")

	if !MatchesSelector(p2, ParseSelector("article p")) {
		t.Error("p2 should match descendant selector")
	}
	if MatchesSelector(p2, ParseSelector("article > p")) {
		t.Error("p2 should not match child selector")
	}
	if !MatchesSelector(p1, ParseSelector("h2 + p")) {
		t.Error("p1 should match adjacent sibling selector")
	}
	if !MatchesSelector(ul, ParseSelector("h2 ~ ul")) {
		t.Error("ul should match general sibling selector")
	}
	if MatchesSelector(ul, ParseSelector("h2 + ul")) {
		t.Error("ul is not adjacent to h2")
	}
}

func TestMatchesSelector_StructuralPseudoClasses(t *testing.T) {
	doc := parse(t, `<ul><li id="a"></li><li id="b"></li></ul>`)
	a, b := doc.GetElementByID("a"), doc.GetElementByID("b")
	if !MatchesSelector(a, ParseSelector("li:first-child")) || MatchesSelector(b, ParseSelector("li:first-child")) {
		t.Error(":first-child mismatch")
	}
	if !MatchesSelector(b, ParseSelector("li:last-child")) || MatchesSelector(a, ParseSelector("li:last-child")) {
		t.Error(":last-child mismatch")
	}
	htmlEl := doc.Root.FindFirst("html")
	if !MatchesSelector(htmlEl, ParseSelector(":root")) {
		t.Error("html should match :root")
	}
}

func TestQuerySelectorAll_DocumentOrderNoDuplicates(t *testing.T) {
	doc := parse(t, `<header id="h"></header><section id="s"><h1 id="t">x</h1><a id="l" class="x"></a></section><footer id="f"></footer>`)
	got := tags(QuerySelectorAll(doc.Root, "footer, header,section, .x, a"))
	want := []string{"header#h", "section#s", "a#l", "footer#f"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestQuerySelectorAll_ScopeExcludesItself(t *testing.T) {
	doc := parse(t, `<section id="outer"><section id="inner"></section></section>`)
	outer := doc.GetElementByID("outer")
	got := tags(QuerySelectorAll(outer, "section"))
	if len(got) != 1 || got[0] != "section#inner" {
		t.Errorf("expected only the inner section, got %v", got)
	}
}

func TestQuerySelectorAll_NoMatchOrBadSelector(t *testing.T) {
	doc := parse(t, `<p></p>`)
	if got := QuerySelectorAll(doc.Root, "table"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", tags(got))
	}
	if got := QuerySelectorAll(doc.Root, "p >"); len(got) != 0 {
		t.Errorf("expected no matches for invalid selector, got %v", tags(got))
	}
}
