package html

import "testing"

func TestTokenizer_SimpleStartTag(t *testing.T) {
	tokenizer := NewTokenizer("<td>")
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Type != TokenStartTag {
		t.Errorf("expected TokenStartTag, got %v", token.Type)
	}
	if token.TagName != "td" {
		t.Errorf("expected tag name 'td', got '%s'", token.TagName)
	}
}

func TestTokenizer_TagWithAttributes(t *testing.T) {
	tokenizer := NewTokenizer(`<td rowspan="3" colspan='2' data-x=plain>`)
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Attributes["rowspan"] != "3" {
		t.Errorf("rowspan = %q, want 3", token.Attributes["rowspan"])
	}
	if token.Attributes["colspan"] != "2" {
		t.Errorf("colspan = %q, want 2", token.Attributes["colspan"])
	}
	if token.Attributes["data-x"] != "plain" {
		t.Errorf("data-x = %q, want plain", token.Attributes["data-x"])
	}
}

func TestTokenizer_AttributeCaseLowered(t *testing.T) {
	tokenizer := NewTokenizer(`<TD COLSPAN="2">`)
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.TagName != "td" {
		t.Errorf("tag = %q, want td", token.TagName)
	}
	if token.Attributes["colspan"] != "2" {
		t.Errorf("uppercase attribute name should be lowered: %v", token.Attributes)
	}
}

func TestTokenizer_CompleteSequence(t *testing.T) {
	tokenizer := NewTokenizer("<td>Hello</td>")
	token1, _ := tokenizer.NextToken()
	if token1.Type != TokenStartTag || token1.TagName != "td" {
		t.Error("expected start tag 'td'")
	}
	token2, _ := tokenizer.NextToken()
	if token2.Type != TokenText || token2.Text != "Hello" {
		t.Error("expected text 'Hello'")
	}
	token3, _ := tokenizer.NextToken()
	if token3.Type != TokenEndTag {
		t.Error("expected end tag")
	}
	token4, _ := tokenizer.NextToken()
	if token4.Type != TokenEOF {
		t.Error("expected EOF")
	}
}

func TestTokenizer_SelfClosing(t *testing.T) {
	tokenizer := NewTokenizer(`<br/>`)
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !token.SelfClosing {
		t.Error("expected SelfClosing")
	}
}

func TestTokenizer_ReadRawUntil(t *testing.T) {
	tokenizer := NewTokenizer(`var a = "<td>";</script><p>`)
	content := tokenizer.ReadRawUntil("script")
	if content != `var a = "<td>";` {
		t.Errorf("raw content = %q", content)
	}
	next, _ := tokenizer.NextToken()
	if next.Type != TokenStartTag || next.TagName != "p" {
		t.Error("tokenizing should resume after the end tag")
	}
}
