// Package document holds the dynamic form of a generated summary: a JSON
// value of unknown shape whose object keys keep the order the generator
// produced them in.
package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
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
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  string // literal as it appeared in the source
	str     string
	items   []Value
	members []Member
}

func NullValue() Value { return Value{} }
func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumberValue wraps a JSON number literal such as "42" or "1.5e3".
func NumberValue(literal string) Value { return Value{kind: Number, number: literal} }

func IntValue(n int64) Value { return NumberValue(strconv.FormatInt(n, 10)) }

func FloatValue(f float64) Value { return NumberValue(strconv.FormatFloat(f, 'g', -1, 64)) }

func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// ObjectValue builds an object from members. A repeated key keeps its first
// position and takes the last value.
func ObjectValue(members ...Member) Value {
	v := Value{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.set(m.Key, m.Value)
	}
	return v
}

// M is shorthand for building object members.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

func (v *Value) set(key string, val Value) {
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }
func (v Value) IsObject() bool { return v.kind == Object }
func (v Value) IsArray() bool { return v.kind == Array }
func (v Value) Items() []Value { return v.items }
func (v Value) Members() []Member { return v.members }
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// BoolVal returns the boolean payload and whether v is a boolean.
func (v Value) BoolVal() (bool, bool) { return v.boolean, v.kind == Bool }

// Literal returns the source literal of a number.
func (v Value) Literal() (string, bool) { return v.number, v.kind == Number }

// Entries lists the members of an object, or the elements of an array keyed
// by index ("0", "1", ...). Other values have no entries.
func (v Value) Entries() []Member {
	if v.kind != Array {
		return v.members
	}
	out := make([]Member, 0, len(v.items))
	for i, el := range v.items {
		out = append(out, Member{Key: strconv.Itoa(i), Value: el})
	}
	return out
}

// AsObject views an object or an array as an object; arrays are keyed by
// index. It reports false for every other kind.
func (v Value) AsObject() (Value, bool) {
	switch v.kind {
	case Object:
		return v, true
	case Array:
		return Value{kind: Object, members: v.Entries()}, true
	}
	return Value{}, false
}

// Keys lists object keys in document order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Get looks up an object member. It reports false for non-objects.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Truthy mirrors the loose truthiness the summary views were built around:
// null, false, 0, NaN and "" are falsy, everything else (including empty
// arrays and objects) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.boolean
	case String:
		return v.str != ""
	case Number:
		f, _ := strconv.ParseFloat(v.number, 64)
		return f != 0
	}
	return true
}

// Text is the literal text form used wherever a value is shown inline:
// strings verbatim, numbers in shortest form, booleans as true/false, null as
// the empty string, arrays and objects as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case Null:
		return ""
	case Bool:
		if v.boolean {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(v.number)
	case String:
		return v.str
	}
	return v.Compact()
}

// FormatNumber renders a JSON number literal the way a browser prints it:
// plain decimal between 1e-6 and 1e21, exponent form outside that range.
func FormatNumber(literal string) string {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !math.IsInf(f, 0) {
		return literal
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

// String returns the compact JSON encoding.
func (v Value) String() string { return v.Compact() }
