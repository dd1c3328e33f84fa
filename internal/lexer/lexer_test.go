package lexer

import (
	"testing"

	"github.com/stevepryde/bop-lang/pkg/token"
)

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestNextToken_Operators(t *testing.T) {
	input := `+ - * / % = == != < > <= >= && || ! += -= *= /= %= ( ) [ ] { } , .`
	want := []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ,
		token.AND, token.OR, token.BANG,
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
		token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK, token.LBRACE, token.RBRACE,
		token.COMMA, token.DOT, token.EOF,
	}
	toks := lexAll(t, input)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := "let fn return if else while for in repeat break continue true false none myVar"
	toks := lexAll(t, input)
	want := []token.Type{
		token.LET, token.FN, token.RETURN, token.IF, token.ELSE, token.WHILE,
		token.FOR, token.IN, token.REPEAT, token.BREAK, token.CONTINUE,
		token.TRUE, token.FALSE, token.NONE, token.IDENT, token.EOF,
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	toks := lexAll(t, "42 3.14 0 0.5")
	want := []string{"42", "3.14", "0", "0.5"}
	for i, w := range want {
		if toks[i].Type != token.NUMBER || toks[i].Literal != w {
			t.Errorf("token %d: got %s %q, want NUMBER %q", i, toks[i].Type, toks[i].Literal, w)
		}
	}
}

func TestNextToken_Comment(t *testing.T) {
	toks := lexAll(t, "1 // this is a comment\n2")
	// newline after a NUMBER triggers an auto-terminator
	wantTypes := []token.Type{token.NUMBER, token.TERMINATOR, token.NUMBER, token.EOF}
	for i, tt := range wantTypes {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\tc\"d\\e"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	want := "a\nb\tc\"d\\e"
	if toks[0].Segments[0].Text != want {
		t.Errorf("got %q, want %q", toks[0].Segments[0].Text, want)
	}
}

func TestNextToken_StringInvalidEscape(t *testing.T) {
	l := New(`"bad \q escape"`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for invalid escape sequence")
	}
}

func TestNextToken_Interpolation(t *testing.T) {
	toks := lexAll(t, `"Hello, {name}! You have {count} items."`)
	segs := toks[0].Segments
	if len(segs) != 5 {
		t.Fatalf("expected 5 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Ident || segs[0].Text != "Hello, " {
		t.Errorf("segment 0: %+v", segs[0])
	}
	if !segs[1].Ident || segs[1].Text != "name" {
		t.Errorf("segment 1: %+v", segs[1])
	}
	if segs[2].Ident || segs[2].Text != "! You have " {
		t.Errorf("segment 2: %+v", segs[2])
	}
	if !segs[3].Ident || segs[3].Text != "count" {
		t.Errorf("segment 3: %+v", segs[3])
	}
}

func TestNextToken_EmptyInterpolationIsError(t *testing.T) {
	l := New(`"{}"`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for empty interpolation")
	}
}

func TestNextToken_MalformedInterpolationIsError(t *testing.T) {
	l := New(`"{1+1}"`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for non-identifier interpolation")
	}
}

func TestNextToken_UnterminatedStringIsError(t *testing.T) {
	l := New(`"no closing quote`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

// TestAutoTerminator exercises the §4.2 "consequence" example directly:
// a newline after a literal/identifier/closing-bracket produces a
// TERMINATOR; a newline elsewhere is plain whitespace.
func TestAutoTerminator(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{
			name:  "after identifier",
			input: "x\ny",
			want:  []token.Type{token.IDENT, token.TERMINATOR, token.IDENT, token.EOF},
		},
		{
			name:  "after operator - no terminator",
			input: "x +\ny",
			want:  []token.Type{token.IDENT, token.PLUS, token.IDENT, token.EOF},
		},
		{
			name:  "after closing paren",
			input: "f()\ny",
			want:  []token.Type{token.IDENT, token.LPAREN, token.RPAREN, token.TERMINATOR, token.IDENT, token.EOF},
		},
		{
			name:  "block brace must stay on keyword line",
			input: "if x > 3\n{\n}",
			// '3' is a literal: newline after it inserts a terminator,
			// which is exactly spec §4.2's documented parse-error trap.
			want: []token.Type{token.IF, token.IDENT, token.GT, token.NUMBER, token.TERMINATOR, token.LBRACE, token.RBRACE, token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(toks), toks, len(tt.want), tt.want)
			}
			for i, wt := range tt.want {
				if toks[i].Type != wt {
					t.Errorf("token %d: got %s, want %s", i, toks[i].Type, wt)
				}
			}
		})
	}
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	l := New("@")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected error for illegal character")
	}
}
