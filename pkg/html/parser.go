package html

import (
	"fmt"
)

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node // Stack for tracking nested elements
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}

		switch token.Type {
		case TokenStartTag:
			// Raw text elements: content is consumed verbatim, never
			// tokenized as markup. Scripts are collected for the JS
			// engine; style content is not used here.
			if token.TagName == "script" {
				script := p.tokenizer.ReadRawUntil("script")
				if script != "" {
					p.doc.Scripts = append(p.doc.Scripts, script)
				}
				continue
			}
			if token.TagName == "style" {
				p.tokenizer.ReadRawUntil("style")
				continue
			}

			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}

			// Table sections and rows auto-close their previous sibling
			// the way browsers do for markup that omits end tags.
			p.autoClose(token.TagName)

			parent := p.currentParent()
			parent.AddChild(node)

			if !isVoidElement(token.TagName) && !token.SelfClosing {
				p.push(node)
			}

		case TokenText:
			if token.Text != "" {
				parent := p.currentParent()
				parent.AppendText(token.Text)
			}

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}

	return p.doc, nil
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	if len(p.stack) == 0 {
		return p.doc.Root
	}
	return p.stack[len(p.stack)-1]
}

// push adds a node to the stack
func (p *Parser) push(node *Node) {
	p.stack = append(p.stack, node)
}

// closeTag pops the stack until the matching tag is found and closed
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
	// Tag not found on stack; ignore the end tag
}

// autoClose handles table markup with omitted end tags: a new <tr> closes
// the previous row, a new cell closes the previous cell, and a new row
// group closes any open row group.
func (p *Parser) autoClose(tagName string) {
	switch tagName {
	case "tr":
		p.closeWhile("td", "th", "tr")
	case "td", "th":
		p.closeWhile("td", "th")
	case "thead", "tbody", "tfoot":
		p.closeWhile("td", "th", "tr", "thead", "tbody", "tfoot")
	case "li":
		p.closeWhile("li")
	case "p":
		p.closeWhile("p")
	}
}

// closeWhile pops the stack as long as the top is one of the given tags.
func (p *Parser) closeWhile(tags ...string) {
	for len(p.stack) > 1 {
		top := p.stack[len(p.stack)-1].TagName
		matched := false
		for _, t := range tags {
			if top == t {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func Parse(html string) (*Document, error) {
	parser := NewParser(html)
	return parser.Parse()
}

// ParseFragment parses an HTML fragment and returns its top-level nodes.
// Used for innerHTML-style assignment, where the fragment has no document
// wrapper of its own.
func ParseFragment(html string) ([]*Node, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	children := doc.Root.Children
	for _, c := range children {
		c.Parent = nil
	}
	return children, nil
}
