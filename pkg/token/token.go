package token

type Type int

const (
	EOF Type = iota
	Ident
	Number
	Fun
	Return
	LParen
	RParen
	LBrace
	RBrace
	Semi
	Comma
	Eq
	Plus
	Minus
	Star
	Slash
)

var KeywordMap = map[string]Type{
	"fun":    Fun,
	"return": Return,
}

// Printable names, used by parser diagnostics
var TypeStrings = map[Type]string{
	EOF:    "end of input",
	Ident:  "identifier",
	Number: "number",
	Fun:    "'fun'",
	Return: "'return'",
	LParen: "'('",
	RParen: "')'",
	LBrace: "'{'",
	RBrace: "'}'",
	Semi:   "';'",
	Comma:  "','",
	Eq:     "'='",
	Plus:   "'+'",
	Minus:  "'-'",
	Star:   "'*'",
	Slash:  "'/'",
}

type Token struct {
	Type      Type
	Value     string
	FileIndex int
	Line      int
	Column    int
	Len       int
}
