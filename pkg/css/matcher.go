package css

import (
	"strings"

	"pagemap/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || node.IsRoot() {
		return false
	}
	if len(selector.Parts) == 0 {
		return false
	}

	// Start matching from the rightmost part (the target element)
	return matchesCompoundSelector(node, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector checks if the node matches the selector at the given part index
// and all ancestor requirements
func matchesCompoundSelector(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prevPartIndex := partIndex - 1
	switch selector.Combinators[prevPartIndex] {
	case DescendantCombinator:
		for ancestor := node.Parent; ancestor != nil && !ancestor.IsRoot(); ancestor = ancestor.Parent {
			if matchesCompoundSelector(ancestor, selector, prevPartIndex) {
				return true
			}
		}
		return false

	case ChildCombinator:
		if node.Parent != nil && !node.Parent.IsRoot() {
			return matchesCompoundSelector(node.Parent, selector, prevPartIndex)
		}
		return false

	case AdjacentSiblingCombinator:
		if prev := node.PreviousElementSibling(); prev != nil {
			return matchesCompoundSelector(prev, selector, prevPartIndex)
		}
		return false

	case GeneralSiblingCombinator:
		for sib := node.PreviousElementSibling(); sib != nil; sib = sib.PreviousElementSibling() {
			if matchesCompoundSelector(sib, selector, prevPartIndex) {
				return true
			}
		}
		return false
	}

	return false
}

// matchesSelectorPart checks if a node matches a single selector part
func matchesSelectorPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	for _, attrSel := range part.Attributes {
		if !matchesAttributeSelector(node, attrSel) {
			return false
		}
	}
	for _, pc := range part.PseudoClasses {
		if !matchesPseudoClass(node, pc) {
			return false
		}
	}
	return true
}

// matchesPseudoClass handles the structural pseudo-classes. Dynamic ones
// (hover, focus, ...) never match in a static document.
func matchesPseudoClass(node *html.Node, pc string) bool {
	switch pc {
	case "first-child":
		return node.PreviousElementSibling() == nil
	case "last-child":
		if node.Parent == nil {
			return true
		}
		for i := len(node.Parent.Children) - 1; i >= 0; i-- {
			if c := node.Parent.Children[i]; c.Type == html.ElementNode {
				return c == node
			}
		}
		return false
	case "root":
		return node.Parent != nil && node.Parent.IsRoot()
	}
	return false
}

// matchesAttributeSelector checks if a node matches an attribute selector
func matchesAttributeSelector(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return attr.Value != "" && strings.HasPrefix(value, attr.Value)
	case "$=":
		return attr.Value != "" && strings.HasSuffix(value, attr.Value)
	case "*=":
		return attr.Value != "" && strings.Contains(value, attr.Value)
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}

	return false
}

// MatchesGroup reports whether node matches any selector of a comma
// separated group.
func MatchesGroup(node *html.Node, group string) bool {
	for _, sel := range SplitSelectorGroup(group) {
		if MatchesSelector(node, ParseSelector(sel)) {
			return true
		}
	}
	return false
}

// QuerySelectorAll returns the descendants of scope matching the selector
// group, in document order, each at most once. scope itself is never
// included.
func QuerySelectorAll(scope *html.Node, group string) []*html.Node {
	var selectors []Selector
	for _, sel := range SplitSelectorGroup(group) {
		if parsed := ParseSelector(sel); len(parsed.Parts) > 0 {
			selectors = append(selectors, parsed)
		}
	}
	if len(selectors) == 0 {
		return nil
	}

	var results []*html.Node
	scope.Walk(func(n *html.Node) bool {
		if n == scope {
			return true
		}
		for _, sel := range selectors {
			if MatchesSelector(n, sel) {
				results = append(results, n)
				break
			}
		}
		return true
	})
	return results
}

// FindMatchingRules returns all rules that match the given node
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	matches := make([]Rule, 0)
	for _, rule := range stylesheet.Rules {
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
