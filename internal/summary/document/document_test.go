package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsDocumentOrder(t *testing.T) {
	v, err := ParseString(`{"zeta": 1, "alpha": {"b": 2, "a": 3}, "mid": [true, null, "x"]}`)
	require.NoError(t, err)

	assert.Equal(t, Object, v.Kind())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	alpha, ok := v.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, alpha.Keys())

	mid, _ := v.Get("mid")
	require.Equal(t, 3, mid.Len())
	assert.Equal(t, Bool, mid.Items()[0].Kind())
	assert.True(t, mid.Items()[1].IsNull())
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	v, err := ParseString(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, _ := v.Get("a")
	assert.Equal(t, "3", a.Text())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"plain text", "not json"},
		{"trailing value", `{"a":1} {"b":2}`},
		{"trailing garbage", `[1,2]x`},
		{"unterminated", `{"a": [1, 2`},
		{"single quotes", `{'a': 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	_, err := ParseString(deep)
	assert.ErrorIs(t, err, ErrTooDeep)

	ok := strings.Repeat("[", 500) + strings.Repeat("]", 500)
	_, err = ParseString(ok)
	assert.NoError(t, err)
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"string verbatim", StringValue("Café <b>"), "Café <b>"},
		{"integer", NumberValue("42"), "42"},
		{"trailing zero", NumberValue("1.50"), "1.5"},
		{"float form", NumberValue("1.0"), "1"},
		{"large exponent", NumberValue("1e21"), "1e+21"},
		{"small exponent", NumberValue("1.5e-7"), "1.5e-7"},
		{"small decimal", NumberValue("0.000001"), "0.000001"},
		{"negative zero", NumberValue("-0"), "0"},
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"null", NullValue(), ""},
		{"array", ArrayValue(StringValue("a"), IntValue(1)), `["a",1]`},
		{"object", ObjectValue(M("k", StringValue("<v>"))), `{"k":"<v>"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Text())
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, NullValue().Truthy())
	assert.False(t, BoolValue(false).Truthy())
	assert.False(t, StringValue("").Truthy())
	assert.False(t, NumberValue("0").Truthy())
	assert.False(t, NumberValue("0.0").Truthy())

	assert.True(t, StringValue("x").Truthy())
	assert.True(t, NumberValue("-1").Truthy())
	assert.True(t, ArrayValue().Truthy())
	assert.True(t, ObjectValue().Truthy())
}

func TestCompactAndIndent(t *testing.T) {
	v, err := ParseString(`{"b": [1, {"c": null}], "a": "x", "e": {}}`)
	require.NoError(t, err)

	assert.Equal(t, `{"b":[1,{"c":null}],"a":"x","e":{}}`, v.Compact())
	assert.Equal(t, "{\n  \"b\": [\n    1,\n    {\n      \"c\": null\n    }\n  ],\n  \"a\": \"x\",\n  \"e\": {}\n}", v.Indent())

	again, err := ParseString(v.Compact())
	require.NoError(t, err)
	assert.Equal(t, v, again)
}

func TestContent_JSON(t *testing.T) {
	var rec struct {
		Content Content `json:"content"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"content": "{\"a\": 1}"}`), &rec))
	assert.True(t, rec.Content.IsRaw())
	assert.Equal(t, `{"a": 1}`, rec.Content.RawText())
	obj, ok := rec.Content.Object()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, obj.Keys())

	require.NoError(t, json.Unmarshal([]byte(`{"content": {"z": 1, "a": 2}}`), &rec))
	assert.False(t, rec.Content.IsRaw())
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content": {"z": 1, "a": 2}}`, string(out))
	assert.Equal(t, `{"content":{"z":1,"a":2}}`, string(out))
}

func TestContent_NotParseable(t *testing.T) {
	c := Raw("not json")
	_, ok := c.Value()
	assert.False(t, ok)
	_, ok = c.Object()
	assert.False(t, ok)
	assert.Equal(t, "not json", c.Dump())
	assert.Equal(t, "not json", c.Encode())
}

func TestContent_Empty(t *testing.T) {
	assert.True(t, Raw("").Empty())
	assert.True(t, Content{}.Empty())
	assert.True(t, Doc(ObjectValue()).Empty())
	assert.True(t, Doc(ArrayValue()).Empty())
	assert.True(t, Doc(StringValue("")).Empty())

	assert.False(t, Raw("x").Empty())
	assert.False(t, Doc(ObjectValue(M("a", NullValue()))).Empty())
}

func TestValue_AsObject(t *testing.T) {
	obj, ok := ArrayValue(StringValue("a"), NullValue()).AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"0", "1"}, obj.Keys())
	first, _ := obj.Get("0")
	assert.Equal(t, "a", first.Text())

	same, ok := ObjectValue(M("k", IntValue(1))).AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"k"}, same.Keys())

	for _, v := range []Value{NullValue(), StringValue("x"), IntValue(1), BoolValue(true)} {
		_, ok := v.AsObject()
		assert.False(t, ok, v.Kind().String())
	}

	_, ok = Raw(`["x"]`).Object()
	assert.True(t, ok)
	_, ok = Raw(`"x"`).Object()
	assert.False(t, ok)
}
