package html

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // tag ended with />
}

// Tokenizer splits markup into start tags, end tags, and text runs.
// Comments, processing instructions, and doctypes are consumed silently;
// whitespace-only text between tags never produces a token, so table rows
// indented in source yield no stray text nodes.
type Tokenizer struct {
	src string
	pos int
}

func NewTokenizer(markup string) *Tokenizer {
	return &Tokenizer{src: markup}
}

func (t *Tokenizer) NextToken() (Token, error) {
	for {
		if t.done() {
			return Token{Type: TokenEOF}, nil
		}
		if t.src[t.pos] != '<' {
			tok, ok := t.readText()
			if !ok {
				continue
			}
			return tok, nil
		}
		if t.skipDeclaration() {
			continue
		}
		return t.readTag()
	}
}

func (t *Tokenizer) done() bool {
	return t.pos >= len(t.src)
}

// skipDeclaration consumes a comment, processing instruction, or doctype
// starting at the current '<'. Reports whether anything was consumed.
func (t *Tokenizer) skipDeclaration() bool {
	rest := t.src[t.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		t.skipUntilMarker("-->", 4)
	case strings.HasPrefix(rest, "<?"):
		t.skipUntilMarker("?>", 2)
	case strings.HasPrefix(rest, "<!"):
		t.skipUntilMarker(">", 2)
	default:
		return false
	}
	return true
}

// skipUntilMarker advances past openLen bytes, then past the first
// occurrence of marker. Unterminated constructs consume the rest of the
// input.
func (t *Tokenizer) skipUntilMarker(marker string, openLen int) {
	t.pos += openLen
	if i := strings.Index(t.src[t.pos:], marker); i >= 0 {
		t.pos += i + len(marker)
	} else {
		t.pos = len(t.src)
	}
}

func (t *Tokenizer) readTag() (Token, error) {
	t.pos++ // consume '<'

	end := false
	if !t.done() && t.src[t.pos] == '/' {
		end = true
		t.pos++
	}
	name := strings.ToLower(t.takeWhile(isTagNameByte))
	if name == "" {
		return Token{}, fmt.Errorf("expected tag name at position %d", t.pos)
	}
	if end {
		if i := strings.IndexByte(t.src[t.pos:], '>'); i >= 0 {
			t.pos += i + 1
			return Token{Type: TokenEndTag, TagName: name}, nil
		}
		return Token{}, fmt.Errorf("unterminated end tag </%s>", name)
	}

	attrs := make(map[string]string)
	for {
		t.skipSpace()
		if t.done() {
			return Token{}, fmt.Errorf("unexpected EOF in <%s>", name)
		}
		switch t.src[t.pos] {
		case '>':
			t.pos++
			return Token{Type: TokenStartTag, TagName: name, Attributes: attrs}, nil
		case '/':
			t.pos++
			t.skipSpace()
			if !t.done() && t.src[t.pos] == '>' {
				t.pos++
				return Token{Type: TokenStartTag, TagName: name, Attributes: attrs, SelfClosing: true}, nil
			}
		default:
			key, val, err := t.readAttr()
			if err != nil {
				return Token{}, err
			}
			attrs[key] = val
		}
	}
}

func (t *Tokenizer) readAttr() (string, string, error) {
	key := strings.ToLower(t.takeWhile(isAttrNameByte))
	if key == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipSpace()
	if t.done() || t.src[t.pos] != '=' {
		return key, "", nil // boolean attribute
	}
	t.pos++
	t.skipSpace()
	if t.done() {
		return "", "", fmt.Errorf("expected value for attribute %q", key)
	}
	if q := t.src[t.pos]; q == '"' || q == '\'' {
		t.pos++
		i := strings.IndexByte(t.src[t.pos:], q)
		if i < 0 {
			return "", "", fmt.Errorf("unterminated value for attribute %q", key)
		}
		val := t.src[t.pos : t.pos+i]
		t.pos += i + 1
		return key, val, nil
	}
	val := t.takeWhile(func(c byte) bool {
		return c != '>' && !unicode.IsSpace(rune(c))
	})
	return key, val, nil
}

// readText consumes up to the next '<'. Whitespace-only runs report
// ok=false so the caller keeps scanning.
func (t *Tokenizer) readText() (Token, bool) {
	raw := t.takeWhile(func(c byte) bool { return c != '<' })
	if strings.TrimSpace(raw) == "" {
		return Token{}, false
	}
	text := gohtml.UnescapeString(collapseSpace(raw))
	return Token{Type: TokenText, Text: text}, true
}

// collapseSpace folds each whitespace run to a single space. Interior and
// boundary runs both survive as one space, so word breaks across adjacent
// text nodes are kept.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	if inSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

func (t *Tokenizer) takeWhile(pred func(byte) bool) string {
	start := t.pos
	for !t.done() && pred(t.src[t.pos]) {
		t.pos++
	}
	return t.src[start:t.pos]
}

func (t *Tokenizer) skipSpace() {
	for !t.done() && unicode.IsSpace(rune(t.src[t.pos])) {
		t.pos++
	}
}

// ReadRawUntil consumes raw content up to and including the named end tag.
// Inside raw text elements such as <script>, '<' does not open a tag, so
// the parser hands control here after the start tag.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + asciiLower(endTag) + ">"
	// ASCII-only case folding keeps byte offsets aligned with t.src.
	i := strings.Index(asciiLower(t.src[t.pos:]), needle)
	if i < 0 {
		content := t.src[t.pos:]
		t.pos = len(t.src)
		return content
	}
	content := t.src[t.pos : t.pos+i]
	t.pos += i + len(needle)
	return content
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

func isAttrNameByte(c byte) bool {
	return isTagNameByte(c) || c == ':' || c == '.'
}
