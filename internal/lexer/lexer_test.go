package lexer

import (
	"testing"

	"github.com/hajdbo/jqsh/internal/pipeline"
	"github.com/hajdbo/jqsh/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `x = "a" | . foo, 3.14 * [2]: {1; 2} ! $v`

	expected := []struct {
		typ     token.Type
		literal string
	}{
		{token.NAME, "x"},
		{token.ASSIGN, "="},
		{token.STRING, "a"},
		{token.PIPE, "|"},
		{token.DOT, "."},
		{token.NAME, "foo"},
		{token.COMMA, ","},
		{token.NUMBER, "3"},
		{token.DOT, "."},
		{token.NUMBER, "14"},
		{token.ASTERISK, "*"},
		{token.LBRACKET, "["},
		{token.NUMBER, "2"},
		{token.RBRACKET, "]"},
		{token.COLON, ":"},
		{token.LBRACE, "{"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "2"},
		{token.RBRACE, "}"},
		{token.BANG, "!"},
		{token.DOLLAR, "$"},
		{token.NAME, "v"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Fatalf("token %d: type = %q, want %q (literal %q)", i, tok.Type, exp.typ, tok.Literal)
		}
		if tok.Literal != exp.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, exp.literal)
		}
	}
}

func TestByteOrderMarkSkipped(t *testing.T) {
	l := New("\uFEFF1 \uFEFF+ 2")
	want := []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}
	for i, typ := range want {
		if tok := l.NextToken(); tok.Type != typ {
			t.Fatalf("token %d: type = %q, want %q", i, tok.Type, typ)
		}
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"if", token.IF},
		{"then", token.THEN},
		{"elif", token.ELIF},
		{"elseIf", token.ELIF},
		{"else", token.ELSE},
		{"end", token.END},
		{"try", token.TRY},
		{"catch", token.CATCH},
		{"except", token.EXCEPT},
		{"iffy", token.NAME}, // prefix does not make a keyword
		{"True", token.NAME},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.typ {
				t.Errorf("type = %q, want %q", tok.Type, tt.typ)
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple escapes", `"\b\t\n\f\r\"\\\/"`, "\b\t\n\f\r\"\\/"},
		{"unicode escape", `"é"`, "é"},
		{"surrogate pair", `"😀"`, "\U0001F600"},
		{"mixed", `"a\nb"`, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != token.STRING {
				t.Fatalf("type = %q, want STRING", tok.Type)
			}
			if tok.Literal != tt.want {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestIllegalStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated", `"abc`},
		{"newline inside", "\"ab\ncd\""},
		{"bad escape", `"\q"`},
		{"lone high surrogate", `"\ud83d"`},
		{"short hex", `"\u12"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != token.ILLEGAL {
				t.Errorf("type = %q, want ILLEGAL", tok.Type)
			}
		})
	}
}

func TestComments(t *testing.T) {
	l := New("1 # rest of line\n2")
	if tok := l.NextToken(); tok.Type != token.NUMBER {
		t.Fatalf("first token = %q, want NUMBER", tok.Type)
	}
	tok := l.NextToken()
	if tok.Type != token.COMMENT {
		t.Fatalf("second token = %q, want COMMENT", tok.Type)
	}
	if tok.Literal != " rest of line" {
		t.Errorf("comment literal = %q", tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != token.NUMBER || tok.Literal != "2" {
		t.Errorf("third token = %q %q, want NUMBER 2", tok.Type, tok.Literal)
	}
}

func TestPositions(t *testing.T) {
	l := New("a\n  b")
	a := l.NextToken()
	b := l.NextToken()
	if a.Line != 1 || a.Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", a.Line, a.Column)
	}
	if b.Line != 2 || b.Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", b.Line, b.Column)
	}
}

func TestProcessorBuffersTokens(t *testing.T) {
	ctx := (&Processor{}).Process(pipeline.NewContext("1 + 2"))
	types := make([]token.Type, len(ctx.Tokens))
	for i, tok := range ctx.Tokens {
		types[i] = tok.Type
	}
	want := []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("token types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token types = %v, want %v", types, want)
		}
	}
}
