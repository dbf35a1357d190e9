package token

type Type string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	COMMENT = "COMMENT"

	// Literals and names
	NAME   = "NAME"   // foo, each, range
	NUMBER = "NUMBER" // digit run; decimal points are composed by the dot operator
	STRING = "STRING" // "foo"

	// Operators
	PIPE      = "|"
	PLUS      = "+"
	ASTERISK  = "*"
	COLON     = ":"
	COMMA     = ","
	SEMICOLON = ";"
	ASSIGN    = "="
	DOT       = "."
	BANG      = "!"
	DOLLAR    = "$"

	// Delimiters
	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"

	// Keywords
	IF     = "IF"
	THEN   = "THEN"
	ELIF   = "ELIF"
	ELSE   = "ELSE"
	END    = "END"
	TRY    = "TRY"
	CATCH  = "CATCH"
	EXCEPT = "EXCEPT"
)

type Token struct {
	Type    Type
	Lexeme  string
	Literal string // decoded payload: name text, digits, or unescaped string body
	Line    int
	Column  int
}

var keywords = map[string]Type{
	"if":     IF,
	"then":   THEN,
	"elif":   ELIF,
	"elseIf": ELIF,
	"else":   ELSE,
	"end":    END,
	"try":    TRY,
	"catch":  CATCH,
	"except": EXCEPT,
}

// LookupName returns the keyword type for an identifier, or NAME.
func LookupName(name string) Type {
	if t, ok := keywords[name]; ok {
		return t
	}
	return NAME
}
