package lexer

import (
	"unicode"

	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/token"
	"github.com/funlang/gfc/pkg/util"
)

type Lexer struct {
	source    []rune
	fileIndex int
	pos       int
	line      int
	column    int
	prevType  token.Type
	started   bool
	cfg       *config.Config
}

func NewLexer(source []rune, fileIndex int, cfg *config.Config) *Lexer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Lexer{
		source: source, fileIndex: fileIndex, line: 1, column: 1, cfg: cfg,
	}
}

// Tokenize scans the whole input and returns the token sequence without the
// trailing EOF token.
func Tokenize(source []rune, fileIndex int, cfg *config.Config) ([]token.Token, error) {
	l := NewLexer(source, fileIndex, cfg)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}
	startPos, startCol, startLine := l.pos, l.column, l.line

	if l.isAtEnd() {
		return l.makeToken(token.EOF, "", startPos, startCol, startLine), nil
	}

	ch := l.peek()
	if unicode.IsLetter(ch) || ch == '_' {
		l.advance()
		return l.identifierOrKeyword(startPos, startCol, startLine), nil
	}
	if unicode.IsDigit(ch) {
		return l.numberLiteral(startPos, startCol, startLine)
	}
	if ch == '-' && unicode.IsDigit(l.peekNext()) && l.inOperandPosition() {
		l.advance()
		return l.numberLiteral(startPos, startCol, startLine)
	}

	l.advance()
	switch ch {
	case '(':
		return l.makeToken(token.LParen, "", startPos, startCol, startLine), nil
	case ')':
		return l.makeToken(token.RParen, "", startPos, startCol, startLine), nil
	case '{':
		return l.makeToken(token.LBrace, "", startPos, startCol, startLine), nil
	case '}':
		return l.makeToken(token.RBrace, "", startPos, startCol, startLine), nil
	case ';':
		return l.makeToken(token.Semi, "", startPos, startCol, startLine), nil
	case ',':
		return l.makeToken(token.Comma, "", startPos, startCol, startLine), nil
	case '=':
		return l.makeToken(token.Eq, "", startPos, startCol, startLine), nil
	case '+':
		return l.makeToken(token.Plus, "", startPos, startCol, startLine), nil
	case '-':
		return l.makeToken(token.Minus, "", startPos, startCol, startLine), nil
	case '*':
		return l.makeToken(token.Star, "", startPos, startCol, startLine), nil
	case '/':
		return l.makeToken(token.Slash, "", startPos, startCol, startLine), nil
	}

	tok := l.makeToken(token.EOF, "", startPos, startCol, startLine)
	return token.Token{}, util.Errorf(tok, "unexpected character '%c'", ch)
}

// inOperandPosition reports whether a '-' at the current position starts a
// negative literal rather than the binary minus operator. A minus after an
// identifier, number or ')' is always the operator.
func (l *Lexer) inOperandPosition() bool {
	if !l.started {
		return true
	}
	switch l.prevType {
	case token.Ident, token.Number, token.RParen:
		return false
	}
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	return ch
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(tokType token.Type, value string, startPos, startCol, startLine int) token.Token {
	l.prevType = tokType
	l.started = true
	return token.Token{
		Type: tokType, Value: value, FileIndex: l.fileIndex,
		Line: startLine, Column: startCol, Len: l.pos - startPos,
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch l.peek() {
		case ' ', '\t', '\n', '\r':
			l.advance()
		case '/':
			if l.peekNext() == '*' && l.cfg.IsFeatureEnabled(config.FeatBlockComments) {
				if err := l.blockComment(); err != nil {
					return err
				}
			} else if l.peekNext() == '/' && l.cfg.IsFeatureEnabled(config.FeatCComments) {
				l.lineComment()
			} else {
				return nil
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) blockComment() error {
	// Built by hand so the comment does not disturb prevType.
	startTok := token.Token{FileIndex: l.fileIndex, Line: l.line, Column: l.column, Len: 2}
	l.advance()
	l.advance()
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return util.Errorf(startTok, "unterminated block comment")
}

func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) identifierOrKeyword(startPos, startCol, startLine int) token.Token {
	for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	value := string(l.source[startPos:l.pos])
	tok := l.makeToken(token.Ident, value, startPos, startCol, startLine)

	if tokType, isKeyword := token.KeywordMap[value]; isKeyword {
		tok.Type = tokType
		tok.Value = ""
		l.prevType = tokType
	}
	return tok
}

// numberLiteral scans an optionally negative decimal literal. The raw text
// is kept verbatim in the token so codegen can emit it unchanged.
func (l *Lexer) numberLiteral(startPos, startCol, startLine int) (token.Token, error) {
	if l.peek() == '-' {
		l.advance()
	}
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	value := string(l.source[startPos:l.pos])
	return l.makeToken(token.Number, value, startPos, startCol, startLine), nil
}
