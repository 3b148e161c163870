package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrEmpty is returned by Parse and Validate for text that holds nothing but
// whitespace. Editors treat it as "no document yet" rather than as an error.
var ErrEmpty = errors.New("empty document")

// MaxDepth is the deepest nesting of arrays and objects Parse accepts. It
// matches the limit encoding/json enforces.
const MaxDepth = 10000

var errTooDeep = fmt.Errorf("exceeded max depth of %d", MaxDepth)

// ParseError describes malformed JSON text. Line and Column are 1-based and
// point at the character where decoding stopped.
type ParseError struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int64  `json:"offset"`
	Msg    string `json:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse decodes a complete JSON document, keeping object key order and
// number literals. Anything other than whitespace after the top-level value
// is an error.
func Parse(data []byte) (*Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return nil, newParseError(data, dec, err)
	}

	if t, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, newParseError(data, dec, err)
		}
		return nil, newParseError(data, dec, fmt.Errorf("unexpected %v after top-level value", t))
	}

	return v, nil
}

// ParseString is Parse for string input.
func ParseString(text string) (*Value, error) {
	return Parse([]byte(text))
}

// Validate reports whether data is a well-formed JSON document.
func Validate(data []byte) error {
	_, err := Parse(data)
	return err
}

func parseValue(dec *json.Decoder, depth int) (*Value, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, t, depth)
}

func valueFromToken(dec *json.Decoder, t json.Token, depth int) (*Value, error) {
	switch tok := t.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(tok), nil
	case json.Number:
		return NewNumber(tok), nil
	case string:
		return NewString(tok), nil
	case json.Delim:
		if depth >= MaxDepth {
			return nil, errTooDeep
		}
		switch tok {
		case '{':
			return parseObject(dec, depth+1)
		case '[':
			return parseArray(dec, depth+1)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)
	}
	return nil, fmt.Errorf("unexpected token %T", t)
}

func parseObject(dec *json.Decoder, depth int) (*Value, error) {
	obj := NewObject()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		val, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: last value wins, first position is kept.
		obj.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder, depth int) (*Value, error) {
	arr := NewArray()
	for dec.More() {
		val, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func newParseError(data []byte, dec *json.Decoder, err error) *ParseError {
	offset := dec.InputOffset()
	msg := err.Error()

	// The token decoder reports offsets relative to the value being read,
	// so the position comes from a full validity scan of the input.
	var syn *json.SyntaxError
	if verr := json.Unmarshal(data, new(json.RawMessage)); errors.As(verr, &syn) {
		msg = syn.Error()
		offset = syn.Offset
		if errors.Is(err, io.EOF) || strings.HasPrefix(msg, "unexpected end") {
			offset = int64(len(data))
		} else if offset > 0 {
			// Offset counts the offending byte itself.
			offset--
		}
	}

	line, col := lineColumn(data, offset)
	return &ParseError{Line: line, Column: col, Offset: offset, Msg: msg}
}

// lineColumn converts a byte offset into a 1-based line and rune column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	if i := bytes.LastIndexByte(prefix, '\n'); i >= 0 {
		prefix = prefix[i+1:]
	}
	return line, utf8.RuneCount(prefix) + 1
}
