package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/shopspring/decimal"

	"github.com/hajdbo/jqsh/internal/values"
)

// ErrIncomplete reports JSON input that ended mid-value.
var ErrIncomplete = errors.New("incomplete JSON input")

// ParseJSONValues decodes a whitespace-separated sequence of JSON values,
// as produced by a command's standard output or fed to jqsh's standard
// input. Decoding is token-level so object key order and the full
// precision of number literals survive.
func ParseJSONValues(r io.Reader) ([]values.Value, error) {
	// duplicate keys are decoded last-wins rather than rejected
	dec := jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))
	var vs []values.Value
	for {
		if dec.PeekKind() == 0 {
			// distinguish clean end-of-stream from a decode error
			_, err := dec.ReadToken()
			if errors.Is(err, io.EOF) {
				return vs, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return vs, ErrIncomplete
			}
			return vs, err
		}
		v, err := decodeValue(dec)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return vs, ErrIncomplete
			}
			return vs, err
		}
		vs = append(vs, v)
	}
}

func decodeValue(dec *jsontext.Decoder) (values.Value, error) {
	switch dec.PeekKind() {
	case '[':
		return decodeArray(dec)
	case '{':
		return decodeObject(dec)
	}
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return values.Null{}, nil
	case 't':
		return values.Boolean{Value: true}, nil
	case 'f':
		return values.Boolean{Value: false}, nil
	case '"':
		return values.String{Value: tok.String()}, nil
	case '0':
		d, err := decimal.NewFromString(tok.String())
		if err != nil {
			return nil, fmt.Errorf("invalid JSON number %q: %w", tok.String(), err)
		}
		return values.Number{Value: d}, nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func decodeArray(dec *jsontext.Decoder) (values.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, err
	}
	arr := values.NewArray()
	for dec.PeekKind() != ']' {
		if dec.PeekKind() == 0 {
			_, err := dec.ReadToken()
			return nil, err
		}
		item, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, err
	}
	return arr, nil
}

func decodeObject(dec *jsontext.Decoder) (values.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, err
	}
	obj := values.NewObject()
	for dec.PeekKind() != '}' {
		if dec.PeekKind() == 0 {
			_, err := dec.ReadToken()
			return nil, err
		}
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		// tokens are voided by the next decoder call, so take the key now
		key := tok.String()
		item, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(values.String{Value: key}, item)
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, err
	}
	return obj, nil
}
