package syntax

import "testing"

func tokenKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	lx := NewLexer("test.sap", []byte(src))
	var kinds []TokenKind
	for {
		tok, d := lx.Next()
		if d != nil {
			t.Fatalf("unexpected lex error: %s", d.Message)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == T_EOF {
			return kinds
		}
	}
}

func TestLexerPunctuationAndKeywords(t *testing.T) {
	got := tokenKinds(t, `module foo; struct Bar { int32 x = 1; }`)
	want := []TokenKind{
		T_MODULE, T_IDENT, T_SEMI,
		T_STRUCT, T_IDENT, T_LBRACE,
		T_IDENT, T_IDENT, T_EQUALS, T_INT, T_SEMI,
		T_RBRACE, T_EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	lx := NewLexer("test.sap", []byte(`"a\nb\\c"`))
	tok, d := lx.Next()
	if d != nil {
		t.Fatalf("unexpected lex error: %s", d.Message)
	}
	if tok.Kind != T_STRING {
		t.Fatalf("got kind %v, want T_STRING", tok.Kind)
	}
	if tok.Text != "a\nb\\c" {
		t.Fatalf("got text %q, want %q", tok.Text, "a\nb\\c")
	}
}

func TestLexerNegativeInteger(t *testing.T) {
	lx := NewLexer("test.sap", []byte(`-42`))
	tok, d := lx.Next()
	if d != nil {
		t.Fatalf("unexpected lex error: %s", d.Message)
	}
	if tok.Kind != T_INT || tok.Text != "-42" {
		t.Fatalf("got %v %q, want T_INT -42", tok.Kind, tok.Text)
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	lx := NewLexer("test.sap", []byte(`"abc`))
	_, d := lx.Next()
	if d == nil {
		t.Fatal("expected a diagnostic for an unterminated string")
	}
}

func TestLexerUnknownByte(t *testing.T) {
	lx := NewLexer("test.sap", []byte(`@`))
	tok, d := lx.Next()
	if d == nil {
		t.Fatal("expected a diagnostic for an unrecognized byte")
	}
	if tok.Kind != T_UNKNOWN {
		t.Fatalf("got kind %v, want T_UNKNOWN", tok.Kind)
	}
}

func TestLexerSkipsComments(t *testing.T) {
	got := tokenKinds(t, "// line comment\nmodule /* block */ foo;")
	want := []TokenKind{T_MODULE, T_IDENT, T_SEMI, T_EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
