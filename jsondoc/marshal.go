package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultIndent is the indentation used for pretty output.
const DefaultIndent = "  "

// Marshal encodes v as indented JSON. An empty indent produces compact
// output. HTML characters are written as-is.
func Marshal(v *Value, indent string) ([]byte, error) {
	var b bytes.Buffer
	if err := writeValue(&b, v, indent, 0); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// MarshalIndent encodes v with DefaultIndent.
func MarshalIndent(v *Value) ([]byte, error) {
	return Marshal(v, DefaultIndent)
}

// Compact encodes v without any insignificant whitespace.
func Compact(v *Value) ([]byte, error) {
	return Marshal(v, "")
}

// Format re-encodes JSON text, either pretty-printed or minified. It is the
// format and compress action of an editor.
func Format(text []byte, compact bool) ([]byte, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if compact {
		return Compact(v)
	}
	return MarshalIndent(v)
}

// MarshalJSON implements json.Marshaler using compact output, so a *Value
// can be embedded in API responses.
func (v *Value) MarshalJSON() ([]byte, error) {
	return Compact(v)
}

// UnmarshalJSON implements json.Unmarshaler, keeping key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func writeValue(b *bytes.Buffer, v *Value, indent string, depth int) error {
	if v == nil {
		b.WriteString("null")
		return nil
	}

	switch v.Kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		if v.Number == "" {
			b.WriteString("0")
		} else {
			b.WriteString(v.Number.String())
		}
	case String:
		return writeString(b, v.Str)
	case Array:
		if len(v.Items) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			if err := writeValue(b, item, indent, depth+1); err != nil {
				return err
			}
		}
		newline(b, indent, depth)
		b.WriteByte(']')
	case Object:
		if len(v.Members) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			if err := writeString(b, m.Key); err != nil {
				return err
			}
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			if err := writeValue(b, m.Value, indent, depth+1); err != nil {
				return err
			}
		}
		newline(b, indent, depth)
		b.WriteByte('}')
	default:
		return fmt.Errorf("unknown kind %d", v.Kind)
	}
	return nil
}

func newline(b *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(indent, depth))
}

// writeString appends s as a JSON string literal without HTML escaping.
func writeString(b *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	b.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}
