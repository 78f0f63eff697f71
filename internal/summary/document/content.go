package document

import (
	"bytes"
	"encoding/json"
)

// Content is what a summary record carries: either raw text that still has to
// be parsed, or a document that was already decoded upstream. The zero
// Content is a decoded null.
type Content struct {
	raw   string
	doc   Value
	isRaw bool
}

// Raw wraps text whose JSON parse is deferred to the consumer.
func Raw(s string) Content { return Content{raw: s, isRaw: true} }

// Doc wraps an already decoded document.
func Doc(v Value) Content { return Content{doc: v} }

func (c Content) IsRaw() bool { return c.isRaw }

// RawText returns the raw text, or "" for decoded content.
func (c Content) RawText() string { return c.raw }

// Value returns the decoded document. Raw text that is not valid JSON
// reports false.
func (c Content) Value() (Value, bool) {
	if !c.isRaw {
		return c.doc, true
	}
	v, err := ParseString(c.raw)
	if err != nil {
		return Value{}, false
	}
	return v, true
}

// Object returns the decoded document as an object. Arrays count, keyed by
// index; every other kind reports false.
func (c Content) Object() (Value, bool) {
	v, ok := c.Value()
	if !ok {
		return Value{}, false
	}
	return v.AsObject()
}

// Empty reports content that carries nothing worth storing: empty text, or a
// null, false, zero, empty string, empty array or empty object document.
func (c Content) Empty() bool {
	if c.isRaw {
		return c.raw == ""
	}
	switch c.doc.Kind() {
	case Array, Object:
		return c.doc.Len() == 0
	}
	return !c.doc.Truthy()
}

// Dump is the best-effort literal form of the content: raw text as-is, a
// decoded document pretty-printed.
func (c Content) Dump() string {
	if c.isRaw {
		return c.raw
	}
	return c.doc.Indent()
}

// Encode returns the storage form: raw text as-is, a decoded document as
// compact JSON.
func (c Content) Encode() string {
	if c.isRaw {
		return c.raw
	}
	return c.doc.Compact()
}

// MarshalJSON writes raw content as a JSON string and decoded content as the
// document itself.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.isRaw {
		var buf bytes.Buffer
		writeString(&buf, c.raw)
		return buf.Bytes(), nil
	}
	return c.doc.MarshalJSON()
}

// UnmarshalJSON keeps JSON strings raw and decodes everything else.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Raw(s)
		return nil
	}
	v, err := Parse(data)
	if err != nil {
		return err
	}
	*c = Doc(v)
	return nil
}
