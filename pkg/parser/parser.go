package parser

import (
	"github.com/funlang/gfc/pkg/ast"
	"github.com/funlang/gfc/pkg/token"
	"github.com/funlang/gfc/pkg/util"
)

// Parser holds the state for the parsing process
type Parser struct {
	tokens   []token.Token
	pos      int
	current  token.Token
	previous token.Token
}

// NewParser creates and initializes a new Parser from a token stream
func NewParser(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	if len(tokens) > 0 {
		p.current = p.tokens[0]
	} else {
		p.current = token.Token{Type: token.EOF}
	}
	return p
}

// Parser helpers
func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.previous = p.current
		p.pos++
		if p.pos < len(p.tokens) {
			p.current = p.tokens[p.pos]
		} else {
			p.current = token.Token{Type: token.EOF, FileIndex: p.previous.FileIndex, Line: p.previous.Line, Column: p.previous.Column + p.previous.Len}
		}
	}
}

func (p *Parser) check(tokType token.Type) bool {
	return p.current.Type == tokType
}

func (p *Parser) match(tokType token.Type) bool {
	if !p.check(tokType) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(tokType token.Type, message string) error {
	if p.check(tokType) {
		p.advance()
		return nil
	}
	return util.Errorf(p.current, "%s (got %s)", message, token.TypeStrings[p.current.Type])
}

// Parse consumes the whole token stream and returns the Program node.
//
//	program := (constantDecl | functionDecl)*
func (p *Parser) Parse() (*ast.Node, error) {
	tok := p.current
	var consts, funcs []*ast.Node
	for !p.check(token.EOF) {
		switch {
		case p.match(token.Fun):
			fn, err := p.parseFuncDecl()
			if err != nil {
				return nil, err
			}
			funcs = append(funcs, fn)
		case p.check(token.Ident):
			decl, err := p.parseConstDecl()
			if err != nil {
				return nil, err
			}
			consts = append(consts, decl)
		default:
			return nil, util.Errorf(p.current, "expected a top-level definition (constant or function)")
		}
	}
	return ast.NewProgram(tok, consts, funcs), nil
}

// constantDecl := IDENT '=' NUMBER ';'
func (p *Parser) parseConstDecl() (*ast.Node, error) {
	nameToken := p.current
	p.advance()
	if err := p.expect(token.Eq, "expected '=' after constant name"); err != nil {
		return nil, err
	}
	if err := p.expect(token.Number, "expected a number literal for constant value"); err != nil {
		return nil, err
	}
	value := p.previous.Value
	if err := p.expect(token.Semi, "expected ';' after constant declaration"); err != nil {
		return nil, err
	}
	return ast.NewConstDecl(nameToken, nameToken.Value, value), nil
}

// functionDecl := 'fun' IDENT '(' paramList? ')' '{' statement* '}'
func (p *Parser) parseFuncDecl() (*ast.Node, error) {
	if err := p.expect(token.Ident, "expected function name after 'fun'"); err != nil {
		return nil, err
	}
	fnToken := p.previous

	if err := p.expect(token.LParen, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(token.RParen) {
		for {
			if err := p.expect(token.Ident, "expected parameter name"); err != nil {
				return nil, err
			}
			params = append(params, p.previous.Value)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if err := p.expect(token.RParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if err := p.expect(token.LBrace, "expected '{' to start function body"); err != nil {
		return nil, err
	}
	var body []*ast.Node
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if err := p.expect(token.RBrace, "expected '}' after function body"); err != nil {
		return nil, err
	}

	return ast.NewFuncDecl(fnToken, fnToken.Value, params, body), nil
}

// statement := IDENT '=' expr ';' | 'return' expr ';'
func (p *Parser) parseStmt() (*ast.Node, error) {
	tok := p.current
	if p.match(token.Return) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.Semi, "expected ';' after return statement"); err != nil {
			return nil, err
		}
		return ast.NewReturn(tok, expr), nil
	}

	if err := p.expect(token.Ident, "expected a statement (assignment or 'return')"); err != nil {
		return nil, err
	}
	name := p.previous.Value
	if err := p.expect(token.Eq, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Semi, "expected ';' after assignment"); err != nil {
		return nil, err
	}
	return ast.NewAssign(tok, name, value), nil
}

// expr := term (('+' | '-') term)*
func (p *Parser) parseExpr() (*ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		opTok := p.current
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok, opTok.Type, left, right)
	}
	return left, nil
}

// term := factor (('*' | '/') factor)*
func (p *Parser) parseTerm() (*ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.check(token.Star) || p.check(token.Slash) {
		opTok := p.current
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(opTok, opTok.Type, left, right)
	}
	return left, nil
}

// factor := NUMBER | IDENT | IDENT '(' argList? ')' | '(' expr ')'
func (p *Parser) parseFactor() (*ast.Node, error) {
	tok := p.current
	if p.match(token.Number) {
		return ast.NewNumber(tok, p.previous.Value), nil
	}
	if p.match(token.Ident) {
		name := p.previous.Value
		if p.match(token.LParen) {
			var args []*ast.Node
			if !p.check(token.RParen) {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(token.Comma) {
						break
					}
				}
			}
			if err := p.expect(token.RParen, "expected ')' after function arguments"); err != nil {
				return nil, err
			}
			return ast.NewFuncCall(tok, name, args), nil
		}
		return ast.NewIdent(tok, name), nil
	}
	if p.match(token.LParen) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.NewGroup(tok, expr), nil
	}
	return nil, util.Errorf(tok, "expected an expression")
}
