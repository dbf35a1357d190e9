package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hajdbo/jqsh/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	case '#':
		return l.readComment()
	case '"':
		return l.readString()
	case '|':
		return l.simpleToken(token.PIPE)
	case '+':
		return l.simpleToken(token.PLUS)
	case '*':
		return l.simpleToken(token.ASTERISK)
	case ':':
		return l.simpleToken(token.COLON)
	case ',':
		return l.simpleToken(token.COMMA)
	case ';':
		return l.simpleToken(token.SEMICOLON)
	case '=':
		return l.simpleToken(token.ASSIGN)
	case '.':
		return l.simpleToken(token.DOT)
	case '!':
		return l.simpleToken(token.BANG)
	case '$':
		return l.simpleToken(token.DOLLAR)
	case '(':
		return l.simpleToken(token.LPAREN)
	case ')':
		return l.simpleToken(token.RPAREN)
	case '[':
		return l.simpleToken(token.LBRACKET)
	case ']':
		return l.simpleToken(token.RBRACKET)
	case '{':
		return l.simpleToken(token.LBRACE)
	case '}':
		return l.simpleToken(token.RBRACE)
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isNameStart(l.ch) {
		return l.readName()
	}

	tok := token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

func (l *Lexer) simpleToken(t token.Type) token.Token {
	tok := token.Token{Type: t, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) || l.ch == '\uFEFF' {
		l.readChar()
	}
}

func (l *Lexer) readComment() token.Token {
	line, column := l.line, l.column
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	text := l.input[start:l.position]
	return token.Token{Type: token.COMMENT, Lexeme: text, Literal: strings.TrimPrefix(text, "#"), Line: line, Column: column}
}

// readNumber consumes a digit run. There is no decimal point here: the
// language composes "3.14" from two number literals joined by the dot
// operator.
func (l *Lexer) readNumber() token.Token {
	line, column := l.line, l.column
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	digits := l.input[start:l.position]
	return token.Token{Type: token.NUMBER, Lexeme: digits, Literal: digits, Line: line, Column: column}
}

func (l *Lexer) readName() token.Token {
	line, column := l.line, l.column
	start := l.position
	for isNameStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	name := l.input[start:l.position]
	return token.Token{Type: token.LookupName(name), Lexeme: name, Literal: name, Line: line, Column: column}
}

func (l *Lexer) readString() token.Token {
	line, column := l.line, l.column
	start := l.position
	l.readChar() // consume opening quote
	var b strings.Builder
	for {
		switch l.ch {
		case 0, '\n':
			// unterminated string
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: b.String(), Line: line, Column: column}
		case '"':
			l.readChar()
			return token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Literal: b.String(), Line: line, Column: column}
		case '\\':
			l.readChar()
			r, ok := l.readEscape()
			if !ok {
				return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: b.String(), Line: line, Column: column}
			}
			b.WriteRune(r)
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes one escape sequence after the backslash, combining
// surrogate pairs written as two \u escapes.
func (l *Lexer) readEscape() (rune, bool) {
	switch l.ch {
	case 'b':
		l.readChar()
		return '\b', true
	case 't':
		l.readChar()
		return '\t', true
	case 'n':
		l.readChar()
		return '\n', true
	case 'f':
		l.readChar()
		return '\f', true
	case 'r':
		l.readChar()
		return '\r', true
	case '"':
		l.readChar()
		return '"', true
	case '\\':
		l.readChar()
		return '\\', true
	case '/':
		l.readChar()
		return '/', true
	case 'u':
		l.readChar()
		first, ok := l.readHex4()
		if !ok {
			return 0, false
		}
		if first >= 0xd800 && first < 0xdc00 {
			if l.ch != '\\' || l.peekChar() != 'u' {
				return 0, false
			}
			l.readChar() // backslash
			l.readChar() // u
			second, ok := l.readHex4()
			if !ok || second < 0xdc00 || second >= 0xe000 {
				return 0, false
			}
			return 0x10000 + ((first - 0xd800) << 10) + (second - 0xdc00), true
		}
		return first, true
	}
	return 0, false
}

func (l *Lexer) readHex4() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(l.ch)
		if !ok {
			return 0, false
		}
		r = r<<4 | d
		l.readChar()
	}
	return r, true
}

func hexDigit(ch rune) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isNameStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
