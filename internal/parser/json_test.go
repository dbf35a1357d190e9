package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hajdbo/jqsh/internal/values"
)

func TestParseJSONValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // literal renderings
	}{
		{"empty input", "", nil},
		{"whitespace only", "  \n\t ", nil},
		{"scalars", `null true false 42 "x"`, []string{"null", "true", "false", "42", `"x"`}},
		{"number precision survives", "1.50 0.300", []string{"1.50", "0.300"}},
		{"nested array", `[1, [2, "a"], []]`, []string{`[1, [2, "a"], []]`}},
		{"object", `{"b": 1, "a": [true]}`, []string{`{"a": [true], "b": 1}`}},
		{"multiple values", "[1] [2]\n{\"k\": null}", []string{"[1]", "[2]", `{"k": null}`}},
		{"duplicate keys last wins", `{"k": 1, "k": 2}`, []string{`{"k": 2}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := ParseJSONValues(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseJSONValues(%q) error: %v", tt.input, err)
			}
			var got []string
			for _, v := range vs {
				got = append(got, v.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseJSONValuesKeyOrder(t *testing.T) {
	vs, err := ParseJSONValues(strings.NewReader(`{"z": 1, "a": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := vs[0].(*values.Object)
	if !ok {
		t.Fatalf("decoded %T, want *values.Object", vs[0])
	}
	keys := obj.Keys()
	if len(keys) != 2 || keys[0].String() != `"z"` || keys[1].String() != `"a"` {
		t.Errorf("insertion order lost: %v", keys)
	}
}

func TestParseJSONValuesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated array", "[1, 2"},
		{"truncated object", `{"k":`},
		{"bare garbage", "@@"},
		{"trailing garbage", "1 ]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSONValues(strings.NewReader(tt.input)); err == nil {
				t.Errorf("ParseJSONValues(%q) succeeded, want error", tt.input)
			}
		})
	}
}
