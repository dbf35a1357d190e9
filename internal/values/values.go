package values

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	EXCEPTION_KIND = "EXCEPTION"
	NULL_KIND      = "NULL"
	BOOLEAN_KIND   = "BOOLEAN"
	NUMBER_KIND    = "NUMBER"
	STRING_KIND    = "STRING"
	ARRAY_KIND     = "ARRAY"
	OBJECT_KIND    = "OBJECT"
)

// Value is the closed set of data values that flow through jqsh channels.
// An Exception is itself a Value: it travels in-band and most consumers
// stop drawing further values once one appears.
type Value interface {
	Kind() Kind
	// String renders the value's jqsh literal form.
	String() string
	value()
}

type Null struct{}

func (Null) Kind() Kind     { return NULL_KIND }
func (Null) String() string { return "null" }
func (Null) value()         {}

type Boolean struct {
	Value bool
}

func (b Boolean) Kind() Kind { return BOOLEAN_KIND }
func (b Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (Boolean) value() {}

// Number is an arbitrary-precision decimal.
type Number struct {
	Value decimal.Decimal
}

func NewNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, err
	}
	return Number{Value: d}, nil
}

func NumberFromInt(i int64) Number {
	return Number{Value: decimal.NewFromInt(i)}
}

func (n Number) Kind() Kind { return NUMBER_KIND }

// String renders the number at its stored scale, so "1.50" stays "1.50".
func (n Number) String() string {
	if exp := n.Value.Exponent(); exp < 0 {
		return n.Value.StringFixed(-exp)
	}
	return n.Value.String()
}
func (n Number) IsInteger() bool {
	return n.Value.IsInteger()
}
func (Number) value() {}

type String struct {
	Value string
}

func (s String) Kind() Kind     { return STRING_KIND }
func (s String) String() string { return Quote(s.Value) }
func (String) value()           {}

// Runes returns the string's Unicode scalar values in order.
func (s String) Runes() []rune { return []rune(s.Value) }

// Quote renders a string body in jqsh literal form, escaping exactly the
// set the original language escapes.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(EscapeRune(r))
	}
	b.WriteByte('"')
	return b.String()
}

func EscapeRune(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '"':
		return `\"`
	case '\\':
		return `\\`
	}
	if r >= 0x10000 {
		cp := r - 0x10000
		return fmt.Sprintf(`\u%04x\u%04x`, 0xd800+(cp>>10), 0xdc00+(cp&0x3ff))
	}
	if r < 0x20 || r >= 0x7f {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}

// Truthy compiles a value to a boolean: everything is truthy except
// false, null, numeric zero, and empty strings, arrays and objects.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Boolean:
		return v.Value
	case Number:
		return !v.Value.IsZero()
	case String:
		return v.Value != ""
	case *Array:
		return len(v.Items) > 0
	case *Object:
		return v.Len() > 0
	default:
		return true
	}
}
