// Package jsondoc implements an order-preserving JSON document model
// together with string field extraction and path-addressed write-back.
//
// A document is parsed into a tree of *Value nodes. Object members keep the
// order in which they appeared in the source text and numbers keep their
// literal spelling, so 1.50e10 is written back as 1.50e10. MarshalIndent
// uses a two-space indent and does not escape HTML characters.
//
// Paths address string leaves using dots for object keys and brackets for
// array indices:
//
//	user.contact.email
//	user.skills[2]
//	projects[0].name
package jsondoc

import (
	"encoding/json"
)

// Kind identifies the JSON type stored in a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value entry of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of a JSON document.
//
// Only the fields matching Kind are meaningful. The zero Value is null.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Str     string
	Items   []*Value
	Members []Member
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{Kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{Kind: Bool, Bool: b} }

// NewNumber returns a number value holding the literal n.
func NewNumber(n json.Number) *Value { return &Value{Kind: Number, Number: n} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Kind: String, Str: s} }

// NewArray returns an array holding items.
func NewArray(items ...*Value) *Value { return &Value{Kind: Array, Items: items} }

// NewObject returns an object holding members in the given order.
func NewObject(members ...Member) *Value { return &Value{Kind: Object, Members: members} }

// Get returns the value stored under key in an object.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	if i := v.indexOf(key); i >= 0 {
		return v.Members[i].Value, true
	}
	return nil, false
}

// Set stores val under key. An existing key keeps its position; a new key
// is appended. Set is a no-op on non-objects.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.Kind != Object {
		return
	}
	if i := v.indexOf(key); i >= 0 {
		v.Members[i].Value = val
		return
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Keys returns the object keys in document order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != Object {
		return nil
	}
	keys := make([]string, len(v.Members))
	for i, m := range v.Members {
		keys[i] = m.Key
	}
	return keys
}

// Len returns the number of array items or object members.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Members)
	}
	return 0
}

func (v *Value) indexOf(key string) int {
	for i := range v.Members {
		if v.Members[i].Key == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{Kind: v.Kind, Bool: v.Bool, Number: v.Number, Str: v.Str}
	if v.Items != nil {
		c.Items = make([]*Value, len(v.Items))
		for i, item := range v.Items {
			c.Items[i] = item.Clone()
		}
	}
	if v.Members != nil {
		c.Members = make([]Member, len(v.Members))
		for i, m := range v.Members {
			c.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return c
}

// Equal reports whether a and b hold the same JSON value, including object
// key order. Numbers compare by literal text.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case Bool:
		return a.Bool == b.Bool
	case Number:
		return a.Number == b.Number
	case String:
		return a.Str == b.Str
	case Array:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Key != b.Members[i].Key || !Equal(a.Members[i].Value, b.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
