package validator

import (
	"errors"
	"testing"

	"github.com/funlang/gfc/pkg/ast"
	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/lexer"
	"github.com/funlang/gfc/pkg/parser"
)

func parse(t *testing.T, source string) *ast.Node {
	t.Helper()
	tokens, err := lexer.Tokenize([]rune(source), 0, config.NewConfig())
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	root, err := parser.NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return root
}

func TestCheckValidPrograms(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"constants only", "pi = 3.14; e = 2.7; fun main() { return 0; }"},
		{"empty main", "fun main() {}"},
		{"locals and parameters", `
fun f(k) {
    l = 43;
    return l * k;
}
fun main() { return f(2); }
`},
		{"local shadows nothing and reads constant", "c = 1; fun main() { x = c; return x; }"},
		{"forward call", "fun main() { return g(); } fun g() { return 1; }"},
		{"parameter reassignment", "fun f(x) { x = x + 1; return x; } fun main() { return f(1); }"},
		{"call in argument", `
fun c(x, y) { return x + y; }
fun l(z) { return z; }
fun main() { return 1 + c(42, l(44)); }
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(nil).Check(parse(t, tt.source)); err != nil {
				t.Errorf("Check failed: %v", err)
			}
		})
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantKind Kind
		wantMsg  string
	}{
		{
			name: "duplicate constant",
			source: `
pi = 3.1415927;
_x = 42;
x2 = -234234.123123;
e = 2.7;
x1 = 1.23123123;
_x = 43;
`,
			wantKind: DuplicateConstant,
			wantMsg:  "constant '_x' is defined twice",
		},
		{
			name: "duplicate function",
			source: `
fun f() {}
fun main() {}
fun f() {}
`,
			wantKind: DuplicateFunction,
			wantMsg:  "function 'f' is defined twice",
		},
		{
			name:     "reserved constant name",
			source:   "_c_const_lol_1=1;\nfun main() { return (42); }",
			wantKind: ReservedConstantName,
			wantMsg:  "cant define constant '_c_const_lol_1' (do not define it manually)",
		},
		{
			name:     "function collides with constant",
			source:   "x = 42;\nfun x() {}",
			wantKind: FunctionCollidesWithConstant,
			wantMsg:  "cant define function 'x': there is constant with that name",
		},
		{
			name:     "local collides with constant",
			source:   "x = 42;\nfun main() {\n    x = 43;\n    return x;\n}",
			wantKind: LocalCollidesWithConstant,
			wantMsg:  "cant create local variable with name 'x': there is constant with that name",
		},
		{
			name:     "local collides with function",
			source:   "fun main() {\n    x = 43;\n    return x;\n}\nfun x() { return 42; }",
			wantKind: LocalCollidesWithFunction,
			wantMsg:  "cant create local variable with name 'x': there is function with that name",
		},
		{
			name:     "argument collides with constant",
			source:   "x = 42;\nfun f(x) {\n    return x * x;\n}",
			wantKind: ArgCollidesWithConstant,
			wantMsg:  "cant create argument for 'f' with name 'x': there is constant with that name",
		},
		{
			name:     "argument collides with function",
			source:   "fun main(x) {\n    return x * x;\n}\nfun x() { return 52; }",
			wantKind: ArgCollidesWithFunction,
			wantMsg:  "cant create argument for 'main' with name 'x': there is function with that name",
		},
		{
			name:     "duplicate argument",
			source:   "fun main(x, y, x) {\n    return x * y * x;\n}",
			wantKind: DuplicateArgument,
			wantMsg:  "redefinition of argument 'x' in function 'main'",
		},
		{
			name:     "unknown variable",
			source:   "fun f(x) {\n    return x * 1 / (y);\n}\nfun main() { return f(1); }",
			wantKind: UnknownVariable,
			wantMsg:  "unknown variable 'y' in function 'f'",
		},
		{
			name:     "unknown variable in call argument",
			source:   "fun f(x) {\n    return x;\n}\nfun main() {\n    return f(y);\n}",
			wantKind: UnknownVariable,
			wantMsg:  "unknown variable 'y' in function 'main'",
		},
		{
			name:     "unknown function call",
			source:   "fun c(x, y) {\n    return x + y;\n}\nfun main() {\n    return 1 + c(42, l(44));\n}",
			wantKind: UnknownFunctionCall,
			wantMsg:  "unknown function call 'l' in 'main'",
		},
		{
			name:     "too many call arguments",
			source:   "fun f(x, y) { return x + y; }\nfun main() { return f(1.0, 2.0, 3.0); }",
			wantKind: ArityMismatch,
			wantMsg:  "invalid arguments count for function call 'f': expected 2, but got 3 (in function 'main')",
		},
		{
			name:     "too few call arguments",
			source:   "fun f() {}\nfun main() { return f(1.0); }",
			wantKind: ArityMismatch,
			wantMsg:  "invalid arguments count for function call 'f': expected 0, but got 1 (in function 'main')",
		},
		{
			name:     "main with arguments",
			source:   "fun main(x) {\n    return x;\n}",
			wantKind: MainHasArguments,
			wantMsg:  "main function cant have any arguments",
		},
		{
			name:     "main arity wins over body errors",
			source:   "fun main(x) {\n    return x * 1 / (y);\n}",
			wantKind: MainHasArguments,
			wantMsg:  "main function cant have any arguments",
		},
		{
			name:     "too many parameters",
			source:   "fun f(p0, p1, p2, p3, p4, p5, p6, p7, p8, p9, pa, pb, pc, pd, pe, pf, pg) { return p0; }\nfun main() {}",
			wantKind: TooManyParameters,
			wantMsg:  "function 'f' has too many parameters: 17 (max 16)",
		},
		{
			name:     "local read before assignment",
			source:   "fun main() { x = y; y = 1; return x; }",
			wantKind: UnknownVariable,
			wantMsg:  "unknown variable 'y' in function 'main'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Check(parse(t, tt.source))
			if err == nil {
				t.Fatalf("Check succeeded, want %q", tt.wantMsg)
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("error is %T, want *Error", err)
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", verr.Kind, tt.wantKind)
			}
			if verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}
		})
	}
}

func TestCheckSymbols(t *testing.T) {
	syms, err := New(nil).Check(parse(t, `
pi = 3.1415927;
fun f(a, b) {
    s = a + b;
    return s;
}
fun main() { return f(pi, 2); }
`))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if got := syms.Consts["pi"]; got != "3.1415927" {
		t.Errorf("Consts[pi] = %q, want 3.1415927", got)
	}
	if got := syms.Funcs["f"]; got != 2 {
		t.Errorf("Funcs[f] = %d, want 2", got)
	}
	if got := syms.Funcs["main"]; got != 0 {
		t.Errorf("Funcs[main] = %d, want 0", got)
	}
	scope := syms.Scopes["f"]
	if scope == nil {
		t.Fatal("no scope recorded for f")
	}
	if scope.Names["a"] != RoleParam || scope.Names["b"] != RoleParam {
		t.Errorf("parameter roles = %v, want RoleParam", scope.Names)
	}
	if scope.Names["s"] != RoleLocal {
		t.Errorf("Names[s] = %v, want RoleLocal", scope.Names["s"])
	}
}
