package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/token"
)

type tok struct {
	Type  token.Type
	Value string
}

func scan(t *testing.T, source string) []tok {
	t.Helper()
	tokens, err := Tokenize([]rune(source), 0, config.NewConfig())
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", source, err)
	}
	var out []tok
	for _, tk := range tokens {
		out = append(out, tok{Type: tk.Type, Value: tk.Value})
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []tok
	}{
		{
			name:   "constant declaration",
			source: "pi = 3.1415927;",
			want: []tok{
				{token.Ident, "pi"}, {token.Eq, ""}, {token.Number, "3.1415927"}, {token.Semi, ""},
			},
		},
		{
			name:   "negative constant",
			source: "x2 = -234234.123123;",
			want: []tok{
				{token.Ident, "x2"}, {token.Eq, ""}, {token.Number, "-234234.123123"}, {token.Semi, ""},
			},
		},
		{
			name:   "keywords and punctuation",
			source: "fun f(a, b) { return a; }",
			want: []tok{
				{token.Fun, ""}, {token.Ident, "f"}, {token.LParen, ""},
				{token.Ident, "a"}, {token.Comma, ""}, {token.Ident, "b"}, {token.RParen, ""},
				{token.LBrace, ""}, {token.Return, ""}, {token.Ident, "a"}, {token.Semi, ""},
				{token.RBrace, ""},
			},
		},
		{
			name:   "minus after identifier is subtraction",
			source: "x -1",
			want: []tok{
				{token.Ident, "x"}, {token.Minus, ""}, {token.Number, "1"},
			},
		},
		{
			name:   "minus after number is subtraction",
			source: "2-1",
			want: []tok{
				{token.Number, "2"}, {token.Minus, ""}, {token.Number, "1"},
			},
		},
		{
			name:   "minus after closing paren is subtraction",
			source: "(x)-1",
			want: []tok{
				{token.LParen, ""}, {token.Ident, "x"}, {token.RParen, ""},
				{token.Minus, ""}, {token.Number, "1"},
			},
		},
		{
			name:   "minus after operator starts a literal",
			source: "2 * -1",
			want: []tok{
				{token.Number, "2"}, {token.Star, ""}, {token.Number, "-1"},
			},
		},
		{
			name:   "minus after open paren starts a literal",
			source: "(-1)",
			want: []tok{
				{token.LParen, ""}, {token.Number, "-1"}, {token.RParen, ""},
			},
		},
		{
			name:   "lone minus without digit is an operator",
			source: "- x",
			want: []tok{
				{token.Minus, ""}, {token.Ident, "x"},
			},
		},
		{
			name:   "literal text survives verbatim",
			source: "a = 0.500;",
			want: []tok{
				{token.Ident, "a"}, {token.Eq, ""}, {token.Number, "0.500"}, {token.Semi, ""},
			},
		},
		{
			name:   "underscore identifiers",
			source: "_c_const_x = 1;",
			want: []tok{
				{token.Ident, "_c_const_x"}, {token.Eq, ""}, {token.Number, "1"}, {token.Semi, ""},
			},
		},
		{
			name:   "line comment",
			source: "a = 1; // trailing\nb = 2;",
			want: []tok{
				{token.Ident, "a"}, {token.Eq, ""}, {token.Number, "1"}, {token.Semi, ""},
				{token.Ident, "b"}, {token.Eq, ""}, {token.Number, "2"}, {token.Semi, ""},
			},
		},
		{
			name:   "block comment does not change operand position",
			source: "x = /* note */ -1;",
			want: []tok{
				{token.Ident, "x"}, {token.Eq, ""}, {token.Number, "-1"}, {token.Semi, ""},
			},
		},
		{
			name:   "empty input",
			source: "   \n\t ",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(t, tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantSub string
	}{
		{"unexpected character", "a = 1 @ 2;", "unexpected character '@'"},
		{"dot is not a token", "1.x", "unexpected character '.'"},
		{"unterminated block comment", "a = 1; /* no end", "unterminated block comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]rune(tt.source), 0, config.NewConfig())
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", tt.source)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestTokenizeCommentsDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatCComments, false)
	cfg.SetFeature(config.FeatBlockComments, false)

	tokens, err := Tokenize([]rune("1 // 2"), 0, cfg)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []token.Type{token.Number, token.Slash, token.Slash, token.Number}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tk := range tokens {
		if tk.Type != want[i] {
			t.Errorf("token %d type = %v, want %v", i, tk.Type, want[i])
		}
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize([]rune("a = 1;\n  bb = 22;"), 0, config.NewConfig())
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	// token index -> line, column, len
	wantPos := [][3]int{
		{1, 1, 1}, {1, 3, 1}, {1, 5, 1}, {1, 6, 1},
		{2, 3, 2}, {2, 6, 1}, {2, 8, 2}, {2, 10, 1},
	}
	if len(tokens) != len(wantPos) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantPos))
	}
	for i, tk := range tokens {
		got := [3]int{tk.Line, tk.Column, tk.Len}
		if got != wantPos[i] {
			t.Errorf("token %d position = %v, want %v", i, got, wantPos[i])
		}
	}
}
