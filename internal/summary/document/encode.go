package document

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON implements json.Marshaler. Object keys are written in document
// order and strings are not HTML-escaped.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.Bytes(), nil
}

// Compact returns the compact JSON encoding of v.
func (v Value) Compact() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

// Indent returns v pretty-printed with two-space indentation.
func (v Value) Indent() string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(v.Compact()), "", "  "); err != nil {
		return v.Compact()
	}
	return out.String()
}

func (v Value) write(buf *bytes.Buffer) {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(v.number)
	case String:
		writeString(buf, v.str)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.write(buf)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.write(buf)
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}
