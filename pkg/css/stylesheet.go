package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // a b
	ChildCombinator                             // a > b
	AdjacentSiblingCombinator                   // a + b
	GeneralSiblingCombinator                    // a ~ b
)

// AttributeSelector is one [name op "value"] test.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "^=", "$=", "*=", "~=", "|="
	Value    string
}

// SelectorPart is a compound selector: tag, id, classes, attributes and
// pseudo-classes that must all hold for one element.
type SelectorPart struct {
	Element       string
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// Selector is a complex selector. Combinators[i] sits between Parts[i] and
// Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
	Order        int               // source order, breaks specificity ties
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS stylesheet content into rules. A rule with a
// selector group becomes one Rule per selector. At-rules are skipped.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{
		Rules: make([]Rule, 0),
	}

	css = stripComments(css)
	if strings.TrimSpace(css) == "" {
		return stylesheet, nil
	}

	for _, ruleStr := range splitRules(css) {
		rules, err := parseRule(ruleStr)
		if err != nil {
			// Skip malformed rules
			continue
		}
		for _, r := range rules {
			r.Order = len(stylesheet.Rules)
			stylesheet.Rules = append(stylesheet.Rules, r)
		}
	}

	return stylesheet, nil
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into individual rules
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0

	for i, ch := range css {
		if ch == '{' {
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				ruleStr := css[start : i+1]
				if strings.TrimSpace(ruleStr) != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		}
	}

	return rules
}

// parseRule parses a single CSS rule
func parseRule(ruleStr string) ([]Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return nil, fmt.Errorf("no opening brace found")
	}

	selectorStr := strings.TrimSpace(ruleStr[:bracePos])
	if selectorStr == "" || strings.HasPrefix(selectorStr, "@") {
		return nil, fmt.Errorf("unsupported rule %q", selectorStr)
	}

	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd == -1 {
		declEnd = len(ruleStr)
	}
	declarations := parseDeclarations(ruleStr[bracePos+1 : declEnd])

	var rules []Rule
	for _, sel := range SplitSelectorGroup(selectorStr) {
		parsed := ParseSelector(sel)
		if len(parsed.Parts) == 0 {
			continue
		}
		rules = append(rules, Rule{Selector: parsed, Declarations: declarations})
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("no usable selector in %q", selectorStr)
	}
	return rules, nil
}

// parseDeclarations parses CSS declarations into a map
func parseDeclarations(declStr string) map[string]string {
	declarations := make(map[string]string)

	for _, part := range strings.Split(declStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}

		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		value := strings.TrimSpace(part[colonPos+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))

		if property != "" && value != "" {
			style := NewStyle()
			expandShorthand(style, property, value)
			for k, v := range style.Properties {
				declarations[k] = v
			}
		}
	}

	return declarations
}

// SplitSelectorGroup splits "h1, a.x, [title='a,b']" on the top-level commas.
func SplitSelectorGroup(group string) []string {
	var out []string
	depth := 0
	var quote rune
	start := 0
	for i, ch := range group {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[' || ch == '(':
			depth++
		case ch == ']' || ch == ')':
			depth--
		case ch == ',' && depth == 0:
			if s := strings.TrimSpace(group[start:i]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(group[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// ParseSelector parses one complex selector. An unparseable selector comes
// back with no parts and therefore matches nothing.
func ParseSelector(selectorStr string) Selector {
	sel := Selector{Raw: strings.TrimSpace(selectorStr)}
	p := &selectorParser{input: sel.Raw}

	for {
		p.skipSpace()
		if p.done() {
			break
		}
		if len(sel.Parts) > 0 {
			comb := DescendantCombinator
			switch p.peek() {
			case '>':
				comb = ChildCombinator
			case '+':
				comb = AdjacentSiblingCombinator
			case '~':
				comb = GeneralSiblingCombinator
			}
			if comb != DescendantCombinator {
				p.pos++
				p.skipSpace()
			}
			sel.Combinators = append(sel.Combinators, comb)
		}
		part, ok := p.compound()
		if !ok {
			return Selector{Raw: sel.Raw}
		}
		sel.Parts = append(sel.Parts, part)
	}
	if len(sel.Combinators) != len(sel.Parts)-1 && len(sel.Parts) > 0 {
		return Selector{Raw: sel.Raw}
	}
	sel.Specificity = specificity(sel)
	return sel
}

// specificity packs (ids, classes, types) as a*100 + b*10 + c.
func specificity(sel Selector) int {
	total := 0
	for _, part := range sel.Parts {
		if part.ID != "" {
			total += 100
		}
		total += 10 * (len(part.Classes) + len(part.Attributes) + len(part.PseudoClasses))
		if part.Element != "" && part.Element != "*" {
			total++
		}
	}
	return total
}

type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) done() bool { return p.pos >= len(p.input) }

func (p *selectorParser) peek() byte { return p.input[p.pos] }

func (p *selectorParser) skipSpace() {
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
}

func (p *selectorParser) ident() string {
	start := p.pos
	for !p.done() {
		c := p.peek()
		if c == '-' || c == '_' || c >= 0x80 ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *selectorParser) compound() (SelectorPart, bool) {
	var part SelectorPart
	if !p.done() && p.peek() == '*' {
		part.Element = "*"
		p.pos++
	} else if name := p.ident(); name != "" {
		part.Element = strings.ToLower(name)
	}
	for !p.done() {
		switch p.peek() {
		case '#':
			p.pos++
			part.ID = p.ident()
			if part.ID == "" {
				return part, false
			}
		case '.':
			p.pos++
			cls := p.ident()
			if cls == "" {
				return part, false
			}
			part.Classes = append(part.Classes, cls)
		case '[':
			attr, ok := p.attribute()
			if !ok {
				return part, false
			}
			part.Attributes = append(part.Attributes, attr)
		case ':':
			p.pos++
			for !p.done() && p.peek() == ':' {
				p.pos++
			}
			name := strings.ToLower(p.ident())
			if name == "" {
				return part, false
			}
			part.PseudoClasses = append(part.PseudoClasses, name)
		default:
			return part, !part.empty()
		}
	}
	return part, !part.empty()
}

func (part SelectorPart) empty() bool {
	return part.Element == "" && part.ID == "" && len(part.Classes) == 0 &&
		len(part.Attributes) == 0 && len(part.PseudoClasses) == 0
}

func (p *selectorParser) attribute() (AttributeSelector, bool) {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return AttributeSelector{}, false
	}
	body := strings.TrimSpace(p.input[p.pos+1 : p.pos+end])
	p.pos += end + 1

	for _, op := range []string{"^=", "$=", "*=", "~=", "|=", "="} {
		if idx := strings.Index(body, op); idx > 0 {
			value := strings.TrimSpace(body[idx+len(op):])
			value = strings.Trim(value, `"'`)
			return AttributeSelector{
				Name:     strings.ToLower(strings.TrimSpace(body[:idx])),
				Operator: op,
				Value:    value,
			}, true
		}
	}
	if body == "" {
		return AttributeSelector{}, false
	}
	return AttributeSelector{Name: strings.ToLower(body)}, true
}
