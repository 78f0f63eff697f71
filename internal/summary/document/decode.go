package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxDepth bounds array/object nesting accepted by Parse.
const MaxDepth = 10000

var (
	ErrTrailingData = errors.New("document: trailing data after JSON value")
	ErrTooDeep      = errors.New("document: nesting exceeds maximum depth")
)

// Parse decodes exactly one JSON value, keeping object keys in document order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '[':
			return decodeArray(dec, depth+1)
		case '{':
			return decodeObject(dec, depth+1)
		}
		return Value{}, fmt.Errorf("document: unexpected delimiter %q", rune(t))
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return NullValue(), nil
	}
	return Value{}, fmt.Errorf("document: unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		item, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: Array, items: items}, nil
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("document: object key is %T, not string", tok)
		}
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		// Repeated keys keep their first position and the last value.
		if i, seen := index[key]; seen {
			members[i].Value = val
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: Object, members: members}, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
