package css

import (
	"strings"

	"tablefreeze/pkg/html"
)

// Selector is a parsed selector group: alternatives separated by commas,
// each a chain of compound parts joined by descendant combinators.
type Selector struct {
	Raw          string
	Alternatives [][]SelectorPart
}

// SelectorPart is one compound selector: element name, #id, .classes and
// [attr] conditions that must all hold on a single node.
type SelectorPart struct {
	Element    string
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

// AttributeSelector is one [name], [name=value] or [name~=value] condition.
type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "^=", "$=", "*="
	Value    string
}

// ParseSelector parses a selector group. Unsupported syntax (combinators
// other than descendant, pseudo-classes) yields parts that never match,
// not an error — discovery selectors should fail closed, not crash.
func ParseSelector(raw string) Selector {
	sel := Selector{Raw: raw}
	for _, alt := range strings.Split(raw, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		var chain []SelectorPart
		for _, compound := range strings.Fields(alt) {
			chain = append(chain, parseCompound(compound))
		}
		if len(chain) > 0 {
			sel.Alternatives = append(sel.Alternatives, chain)
		}
	}
	return sel
}

// Valid reports whether the selector parsed to at least one usable
// alternative.
func (s Selector) Valid() bool {
	return len(s.Alternatives) > 0
}

func parseCompound(s string) SelectorPart {
	var part SelectorPart
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			j := scanName(s, i+1)
			part.ID = s[i+1 : j]
			i = j
		case '.':
			j := scanName(s, i+1)
			part.Classes = append(part.Classes, s[i+1:j])
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				// Unterminated attribute selector: poison the part
				part.Attributes = append(part.Attributes, AttributeSelector{})
				return part
			}
			part.Attributes = append(part.Attributes, parseAttribute(s[i+1:i+end]))
			i += end + 1
		case ':':
			// Pseudo-classes are not supported; never match.
			part.Attributes = append(part.Attributes, AttributeSelector{})
			return part
		default:
			j := scanName(s, i)
			if j == i {
				// Unrecognized character; never match.
				part.Attributes = append(part.Attributes, AttributeSelector{})
				return part
			}
			part.Element = strings.ToLower(s[i:j])
			i = j
		}
	}
	return part
}

func scanName(s string, start int) int {
	i := start
	for i < len(s) {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '*' {
			i++
			continue
		}
		break
	}
	return i
}

func parseAttribute(body string) AttributeSelector {
	for _, op := range []string{"~=", "^=", "$=", "*=", "="} {
		if idx := strings.Index(body, op); idx > 0 {
			val := strings.TrimSpace(body[idx+len(op):])
			val = strings.Trim(val, `"'`)
			return AttributeSelector{
				Name:     strings.ToLower(strings.TrimSpace(body[:idx])),
				Operator: op,
				Value:    val,
			}
		}
	}
	return AttributeSelector{Name: strings.ToLower(strings.TrimSpace(body))}
}

// Matches returns true if the node matches any alternative of the selector.
func Matches(node *html.Node, sel Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}
	for _, chain := range sel.Alternatives {
		if matchesChain(node, chain, len(chain)-1) {
			return true
		}
	}
	return false
}

// matchesChain matches from the rightmost compound (the target element)
// towards the left, each earlier part matching some ancestor.
func matchesChain(node *html.Node, chain []SelectorPart, idx int) bool {
	if !matchesPart(node, chain[idx]) {
		return false
	}
	if idx == 0 {
		return true
	}
	for ancestor := node.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if ancestor.Type != html.ElementNode || ancestor.TagName == "document" {
			continue
		}
		if matchesChain(ancestor, chain, idx-1) {
			return true
		}
	}
	return false
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" {
		if node.TagName != part.Element {
			return false
		}
	}

	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}

	for _, class := range part.Classes {
		if !node.HasClass(class) {
			return false
		}
	}

	for _, attr := range part.Attributes {
		if !matchesAttribute(node, attr) {
			return false
		}
	}

	return true
}

func matchesAttribute(node *html.Node, attr AttributeSelector) bool {
	if attr.Name == "" {
		return false
	}
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
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == attr.Value {
				return true
			}
		}
		return false
	}
	return false
}

// Query returns all descendants of root (excluding root) matching the
// selector, in document order.
func Query(root *html.Node, sel Selector) []*html.Node {
	var results []*html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n != root && Matches(n, sel) {
			results = append(results, n)
		}
		return true
	})
	return results
}

// QueryFirst returns the first descendant of root matching the selector,
// or nil.
func QueryFirst(root *html.Node, sel Selector) *html.Node {
	var result *html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n != root && Matches(n, sel) {
			result = n
			return false
		}
		return true
	})
	return result
}
