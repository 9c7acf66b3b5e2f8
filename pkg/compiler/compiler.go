// Package compiler runs the full pipeline over a single source text:
// tokenize, parse, validate, lower, serialize. The first stage to fail
// aborts the run; nothing is emitted for an invalid program.
package compiler

import (
	"github.com/funlang/gfc/pkg/codegen"
	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/lexer"
	"github.com/funlang/gfc/pkg/parser"
	"github.com/funlang/gfc/pkg/validator"
)

// Compile translates source into the final assembly text.
func Compile(source string, cfg *config.Config) (string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	tokens, err := lexer.Tokenize([]rune(source), 0, cfg)
	if err != nil {
		return "", err
	}
	root, err := parser.NewParser(tokens).Parse()
	if err != nil {
		return "", err
	}
	syms, err := validator.New(cfg).Check(root)
	if err != nil {
		return "", err
	}
	prog := codegen.NewContext(cfg, syms).GenerateIR(root)
	buf, err := codegen.NewAmd64Backend().Generate(prog, cfg)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
