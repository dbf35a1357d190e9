package evaluator_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hajdbo/jqsh/internal/builtins"
	"github.com/hajdbo/jqsh/internal/channel"
	"github.com/hajdbo/jqsh/internal/evaluator"
	"github.com/hajdbo/jqsh/internal/parser"
	"github.com/hajdbo/jqsh/internal/values"
)

// eval runs a filter program against the given input values with the
// conventional root scope: empty namespaces and a CLI context whose
// argv is ["alpha", "beta"].
func eval(t *testing.T, source string, inputs ...values.Value) []values.Value {
	t.Helper()
	f, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	in := channel.NewSeed(inputs...)
	in.SetLocals(channel.Namespace{})
	in.SetGlobals(channel.Namespace{})
	in.SetContext(channel.CommandLineContext([]string{"alpha", "beta"}, builtins.Catalog()))
	in.Terminate()
	return evaluator.Start(f, in).Drain()
}

func evalStrings(t *testing.T, source string, inputs ...values.Value) []string {
	t.Helper()
	vs := eval(t, source, inputs...)
	if len(vs) == 0 {
		return nil
	}
	got := make([]string, len(vs))
	for i, v := range vs {
		got[i] = v.String()
	}
	return got
}

func TestEval(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		// literals and arithmetic
		{"1 + 2", []string{"3"}},
		{"3.14 + 1", []string{"4.14"}},
		{"2 * 3", []string{"6"}},
		{`"a" + "b"`, []string{`"ab"`}},
		{`"ab" * 2`, []string{`"abab"`}},
		{"2 * [1]", []string{"[1, 1]"}},
		{"[1] + [2, 3]", []string{"[1, 2, 3]"}},
		{`1 + "a"`, []string{`exception("type")`}},
		{`"ab" * "c"`, []string{`exception("type")`}},
		{`"ab" * 1.5`, []string{`exception("integer")`}},

		// output pairing cycles the shorter operand
		{"(1, 2, 3) + (10, 20)", []string{"11", "22", "13"}},
		{"(1, 2) + ()", []string{"1", "2"}},
		{"() * (5, 6)", []string{"5", "6"}},

		// containers
		{"[1, 2, 3]", []string{"[1, 2, 3]"}},
		{"[]", []string{"[]"}},
		{"(1, 2): 0", []string{"[1, 0]", "[2, 0]"}},
		{`{"a": 1}`, []string{`{"a": 1}`}},
		{`{"a": 1, "a": 2}`, []string{`{"a": 2}`}},
		{"{1}", []string{`exception("type")`}},
		{"{[1]}", []string{`exception("length")`}},

		// sequencing
		{"1, 2 + 10", []string{"1", "12"}},
		{"(1, 2), 0", []string{"1", "2", "0"}},
		{"1; 2", []string{"2"}},

		// indexing
		{"[10, 20, 30] | .1", []string{"20"}},
		{"[10, 20, 30] | .5", []string{`exception("index")`}},
		{`[10] | ."a"`, []string{`exception("type")`}},
		{`{"a": 1} | ."a"`, []string{"1"}},
		{`{"a": 1} | ."b"`, []string{`exception("key")`}},
		{`{"a": {"b": 2}} | ."a"."b"`, []string{"2"}},
		{"5 | .0", []string{`exception("type")`}},

		// names and binding
		{"foo", []string{`exception("name")`}},
		{"x = 1", nil},
		{"x = (1, 2); x, x", []string{"1", "2", "1", "2"}},
		{"x = foo", []string{`exception("name")`}},
		{"$x = 5; $x", []string{"5"}},
		{"$missing", []string{`exception("name")`}},
		{"3 = 1", []string{`exception("assignment")`}},

		// conditionals use the truthiness rule
		{"if 5 then 1 else 2 end", []string{"1"}},
		{"if 0 then 1 else 2 end", []string{"2"}},
		{`if "" then 1 else 2 end`, []string{"2"}},
		{"if [] then 1 else 2 end", []string{"2"}},
		{"if 0 then 1 elif 7 then 2 else 3 end", []string{"2"}},
		{"if 0 then 1 end", nil},
		{"if empty then 1 end", []string{`exception("empty")`}},
		{"if foo then 1 end", []string{`exception("name")`}},

		// try forms
		{"try foo catch name then 42 end", []string{"42"}},
		{"try foo catch type then 42 end", []string{`exception("name")`}},
		{"try foo catch type catch name then 42 end", []string{"42"}},
		{"try foo except 9 end", []string{"9"}},
		{"try 1 catch name then 42 end", []string{"1"}},
		{"try 1 except 9 else 7 end", []string{"7"}},

		// builtins
		{"empty", nil},
		{"3 | range", []string{"0", "1", "2"}},
		{"range", nil},
		{`"ab" | explode`, []string{"97", "98"}},
		{`"ab" | explode | implode`, []string{`"ab"`}},
		{"(97, 98) | implode", []string{`"ab"`}},
		{"(5, 6, 7) | nth 1", []string{"6"}},
		{"(5, 6) | nth 5", []string{`exception("numValues")`}},
		{"(1, 1, 1) | reduce 0 (. + 1)", []string{"3"}},
		{"(1, 1) | for 0 (. + 1)", []string{"1", "2"}},
		{"(1, 2) | each (. + 10)", []string{"11", "12"}},
		{"isMain", []string{"true"}},
		{"argv", []string{`"alpha"`, `"beta"`}},
		{"argv 1", []string{`"beta"`}},
		{"argv 7", []string{`exception("index")`}},
		{"true, false, null", []string{"true", "false", "null"}},

		// arity dispatch
		{"range 1", []string{`exception("numArgs")`}},
		{"nth", []string{`exception("numArgs")`}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := evalStrings(t, tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("eval(%q) mismatch (-want +got):\n%s", tt.source, diff)
			}
		})
	}
}

func TestEvalWithInput(t *testing.T) {
	tests := []struct {
		source string
		inputs []values.Value
		want   []string
	}{
		{".", []values.Value{values.NumberFromInt(1), values.NumberFromInt(2)}, []string{"1", "2"}},
		{". | .", []values.Value{values.NumberFromInt(5)}, []string{"5"}},
		{"[.]", []values.Value{values.NumberFromInt(1), values.NumberFromInt(2)}, []string{"[1, 2]"}},
		{".0", []values.Value{values.NewArray(values.NumberFromInt(7))}, []string{"7"}},
		{"range", []values.Value{values.NumberFromInt(2), values.NumberFromInt(1)}, []string{"0", "1", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := evalStrings(t, tt.source, tt.inputs...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputExceptionShortCircuits(t *testing.T) {
	inputs := []values.Value{
		values.NumberFromInt(1),
		values.NewException(values.TypeError),
		values.NumberFromInt(2),
	}
	got := evalStrings(t, "range", inputs...)
	want := []string{"0", `exception("type")`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNameExceptionDetails(t *testing.T) {
	vs := eval(t, "foo")
	if len(vs) != 1 {
		t.Fatalf("got %d values, want 1", len(vs))
	}
	exc, ok := vs[0].(*values.Exception)
	if !ok || exc.Name != values.NameError || exc.MissingName != "foo" {
		t.Errorf("got %#v, want name exception for foo", vs[0])
	}
}

func TestNumArgsExceptionDetails(t *testing.T) {
	vs := eval(t, "range 1")
	exc, ok := vs[0].(*values.Exception)
	if !ok || exc.Name != values.NumArgsError {
		t.Fatalf("got %#v, want numArgs exception", vs[0])
	}
	if exc.MissingName != "range" || exc.Received != 1 {
		t.Errorf("exception context = %#v", exc)
	}
	if len(exc.Expected) != 1 || exc.Expected[0] != 0 {
		t.Errorf("Expected arities = %v, want [0]", exc.Expected)
	}
}

func TestAssignmentTargetText(t *testing.T) {
	vs := eval(t, "[1] = 2")
	exc, ok := vs[0].(*values.Exception)
	if !ok || exc.Name != values.Assignment {
		t.Fatalf("got %#v, want assignment exception", vs[0])
	}
	if exc.TargetText != "[1]" {
		t.Errorf("TargetText = %q, want %q", exc.TargetText, "[1]")
	}
}

func TestAbortedAssignmentLeavesScope(t *testing.T) {
	// the failed rebind forwards its exception but keeps the old binding,
	// which the trailing statement then replays
	got := evalStrings(t, "x = 1; (x = foo; x)")
	want := []string{"1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUUIDBuiltinShape(t *testing.T) {
	vs := eval(t, "uuid")
	if len(vs) != 1 {
		t.Fatalf("got %d values, want 1", len(vs))
	}
	s, ok := vs[0].(values.String)
	if !ok || len(s.Value) != 36 {
		t.Errorf("uuid = %s", vs[0])
	}
	if a, b := eval(t, "uuid"), eval(t, "uuid"); a[0].String() == b[0].String() {
		t.Error("two uuid calls produced the same value")
	}
}

func TestCommandInvocation(t *testing.T) {
	got := evalStrings(t, `!echo "1"`)
	want := []string{"1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	vs := eval(t, "!jqsh_no_such_command_zz")
	if len(vs) != 1 {
		t.Fatalf("got %v, want one exception", vs)
	}
	exc, ok := vs[0].(*values.Exception)
	if !ok || exc.Name != values.PathError {
		t.Errorf("got %s, want path exception", vs[0])
	}
}

func TestCommandExitStatusIgnored(t *testing.T) {
	got := evalStrings(t, `!sh "-c" "echo 1; exit 3"`)
	want := []string{"1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandUndecodableOutput(t *testing.T) {
	vs := eval(t, `!sh "-c" "echo not json"`)
	if len(vs) != 1 {
		t.Fatalf("got %v, want one exception", vs)
	}
	exc, ok := vs[0].(*values.Exception)
	if !ok || exc.Name != values.CommandOutput {
		t.Errorf("got %s, want commandOutput exception", vs[0])
	}
}
