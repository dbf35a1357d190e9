package parser

import (
	"testing"

	"github.com/hajdbo/jqsh/internal/ast"
	"github.com/hajdbo/jqsh/internal/pipeline"
	"github.com/hajdbo/jqsh/internal/token"
)

func TestParseRendering(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "1 + 2"},
		{"1+2*3", "1 + 2 * 3"},
		{"1 + 2 + 3", "1 + 2 + 3"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[1,2,3]", "[1, 2, 3]"},
		{"{}", "{}"},
		{"()", "()"},
		{"[]", "[]"},
		{".", "."},
		{".foo", ".foo"},
		{".0", ".0"},
		{".a.b", ".a.b"},
		{"3.14", "3.14"},
		{`"abc"`, `"abc"`},
		{`"a\nb"`, `"a\nb"`},
		{"a | b | c", "a | b | c"},
		{"a, b: c", "a, b: c"},
		{"a; b", "a; b"},
		{"x = 1, 2", "x = 1, 2"},
		{"$x = 5; $x", "$x = 5; $x"},
		{"!ls", "!ls"},
		{"nth 1", "nth 1"},
		{"reduce 0 (. + 1)", "reduce 0 (. + 1)"},
		{"!git status", "!git status"},
		{"if a then b else c end", "if a then b else c end"},
		{"if a then b elif c then d end", "if a then b elif c then d end"},
		{"if a then b elseIf c then d end", "if a then b elif c then d end"},
		{"try a catch name then b except c else d end", "try a catch name then b except c else d end"},
		{"try a catch x catch y then b end", "try a catch x catch y then b end"},
		{"# only a comment", ""},
		{"", ""},
		{"   ", ""},
		{"{[a, b]: c}", "{[a, b]: c}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// The rendered form of any parsed filter must parse back to the same
// rendering.
func TestRenderingRoundTrip(t *testing.T) {
	inputs := []string{
		"1 + 2 * (3, 4)",
		".a.b | [. : 1]",
		"x = (1, 2); x + x",
		"if a then b elif c then d else e end",
		"try !cat catch path then [] end",
		"$v = uuid; $v",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", input, err)
			}
			second, err := Parse(first.String())
			if err != nil {
				t.Fatalf("reparse of %q error: %v", first.String(), err)
			}
			if second.String() != first.String() {
				t.Errorf("round trip changed rendering: %q -> %q", first.String(), second.String())
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	f, err := Parse("x = 1 | y")
	if err != nil {
		t.Fatal(err)
	}
	assign, ok := f.(*ast.Assign)
	if !ok {
		t.Fatalf("root = %T, want *ast.Assign", f)
	}
	if _, ok := assign.Right.(*ast.Pipe); !ok {
		t.Errorf("assign right = %T, want *ast.Pipe", assign.Right)
	}

	f, err = Parse("nth 1")
	if err != nil {
		t.Fatal(err)
	}
	apply, ok := f.(*ast.Apply)
	if !ok || !apply.Variadic || len(apply.Operands) != 2 {
		t.Fatalf("juxtaposition = %#v, want variadic apply of 2 operands", f)
	}

	f, err = Parse(".foo")
	if err != nil {
		t.Fatal(err)
	}
	apply, ok = f.(*ast.Apply)
	if !ok || apply.Variadic || !ast.IsEmpty(apply.Operands[0]) {
		t.Fatalf("dot prefix = %#v, want dot apply with empty left", f)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced paren", "(1 + 2"},
		{"unbalanced bracket", "[1, 2"},
		{"missing end", "if a then b"},
		{"unterminated string", `"abc`},
		{"illegal character", "1 @ 2"},
		{"bare operator", "* 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestProcessorConsumesTokenBuffer(t *testing.T) {
	ctx := pipeline.NewContext("ignored")
	ctx.Tokens = []token.Token{
		{Type: token.NUMBER, Literal: "1"},
		{Type: token.PLUS, Literal: "+"},
		{Type: token.NUMBER, Literal: "2"},
		{Type: token.EOF},
	}
	ctx = (&Processor{}).Process(ctx)
	if ctx.Failed() {
		t.Fatalf("buffered tokens failed: %v", ctx.Errors)
	}
	if ctx.Filter == nil || ctx.Filter.String() != "1 + 2" {
		t.Errorf("pipeline filter = %v, want parse of the token buffer", ctx.Filter)
	}
}

func TestProcessorRecordsErrors(t *testing.T) {
	ctx := (&Processor{}).Process(pipeline.NewContext("(1"))
	if !ctx.Failed() {
		t.Fatal("malformed program did not fail the pipeline")
	}
	ctx = (&Processor{}).Process(pipeline.NewContext("1 + 2"))
	if ctx.Failed() {
		t.Fatalf("well-formed program failed: %v", ctx.Errors)
	}
	if ctx.Filter == nil || ctx.Filter.String() != "1 + 2" {
		t.Errorf("pipeline filter = %v", ctx.Filter)
	}
}
