package css

import (
	"log/slog"
	"sort"

	"pagemap/pkg/html"
)

// inheritedProperties pass from parent to child when the child does not
// set them.
var inheritedProperties = []string{"color", "font-size", "line-height", "font-weight", "font-family"}

// userAgentStyles are the defaults a browser applies before any author rule.
var userAgentStyles = map[string]map[string]string{
	"body":   {"margin-top": "8px", "margin-right": "8px", "margin-bottom": "8px", "margin-left": "8px"},
	"h1":     {"font-size": "32px", "margin-top": "21px", "margin-bottom": "21px", "font-weight": "bold"},
	"h2":     {"font-size": "24px", "margin-top": "20px", "margin-bottom": "20px", "font-weight": "bold"},
	"h3":     {"font-size": "19px", "margin-top": "18px", "margin-bottom": "18px", "font-weight": "bold"},
	"h4":     {"margin-top": "21px", "margin-bottom": "21px", "font-weight": "bold"},
	"p":      {"margin-top": "16px", "margin-bottom": "16px"},
	"ul":     {"margin-top": "16px", "margin-bottom": "16px", "padding-left": "40px"},
	"ol":     {"margin-top": "16px", "margin-bottom": "16px", "padding-left": "40px"},
	"a":      {"color": "#0645ad", "display": "inline"},
	"span":   {"display": "inline"},
	"em":     {"display": "inline"},
	"strong": {"display": "inline", "font-weight": "bold"},
	"b":      {"display": "inline", "font-weight": "bold"},
	"i":      {"display": "inline"},
	"code":   {"display": "inline"},
	"img":    {"display": "inline-block"},
	"canvas": {"display": "inline-block", "width": "300px", "height": "150px"},
	"head":   {"display": "none"},
	"title":  {"display": "none"},
	"meta":   {"display": "none"},
	"link":   {"display": "none"},
}

// ParseStylesheets parses every stylesheet text, skipping (and logging) the
// ones that fail.
func ParseStylesheets(texts []string) []*Stylesheet {
	sheets := make([]*Stylesheet, 0, len(texts))
	for i, text := range texts {
		sheet, err := ParseStylesheet(text)
		if err != nil {
			slog.Debug("css: stylesheet skipped", "index", i, "err", err)
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

// ComputeStyle computes the final style for a node by applying the cascade.
// parent may be nil; when set, inherited properties flow from it.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet, parent *Style) *Style {
	finalStyle := NewStyle()

	if parent != nil {
		for _, prop := range inheritedProperties {
			if v, ok := parent.Get(prop); ok {
				finalStyle.Set(prop, v)
			}
		}
	}

	if ua, ok := userAgentStyles[node.TagName]; ok {
		for property, value := range ua {
			finalStyle.Set(property, value)
		}
	}

	type ordered struct {
		rule  Rule
		sheet int
	}
	allRules := make([]ordered, 0)
	for i, stylesheet := range stylesheets {
		for _, r := range FindMatchingRules(node, stylesheet) {
			allRules = append(allRules, ordered{r, i})
		}
	}

	// Lower specificity first; equal specificity keeps source order.
	sort.SliceStable(allRules, func(i, j int) bool {
		a, b := allRules[i], allRules[j]
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity < b.rule.Selector.Specificity
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.Order < b.rule.Order
	})

	for _, o := range allRules {
		for property, value := range o.rule.Declarations {
			finalStyle.Set(property, value)
		}
	}

	// Inline styles have highest specificity (specificity = 1000)
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			finalStyle.Set(property, value)
		}
	}

	return finalStyle
}

// ApplyStylesToDocument computes the style of every element in the document.
func ApplyStylesToDocument(doc *html.Document) map[*html.Node]*Style {
	styles := make(map[*html.Node]*Style)
	stylesheets := ParseStylesheets(doc.Stylesheets)
	applyStylesToNode(doc.Root, stylesheets, styles, nil)
	return styles
}

// applyStylesToNode recursively applies styles to a node and its children
func applyStylesToNode(node *html.Node, stylesheets []*Stylesheet, styles map[*html.Node]*Style, parent *Style) {
	style := parent
	if node.Type == html.ElementNode && !node.IsRoot() {
		style = ComputeStyle(node, stylesheets, parent)
		styles[node] = style
	}
	for _, child := range node.Children {
		applyStylesToNode(child, stylesheets, styles, style)
	}
}
