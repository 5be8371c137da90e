package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welschmorgan/mocker/pkg/value"
)

func TestJSONDecode(t *testing.T) {
	c, err := ByName("json")
	require.NoError(t, err)

	v, err := c.Decode([]byte(`{"id": 42, "name": "x", "ok": true, "none": null, "tags": ["a"]}`))
	require.NoError(t, err)

	id, _ := v.Get("id")
	n, ok := id.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	name, _ := v.Get("name")
	s, _ := name.AsString()
	assert.Equal(t, "x", s)

	none, _ := v.Get("none")
	assert.True(t, none.IsNull())

	tags, _ := v.Get("tags")
	assert.Equal(t, 1, tags.Len())
}

func TestJSONDecodeError(t *testing.T) {
	c, _ := ByName("json")

	_, err := c.Decode([]byte(`{"broken":`))
	require.Error(t, err)

	var codecErr *Error
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "json", codecErr.Format)
	assert.Equal(t, "decode", codecErr.Op)
}

func TestJSONEncodePreservesNumbers(t *testing.T) {
	c, _ := ByName("json")

	// 2^53+1 is not representable as float64; the decimal text must survive.
	v := value.Mapping(map[string]value.Value{
		"big": value.Number(json.Number("9007199254740993")),
	})
	data, err := c.Encode(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"big": 9007199254740993}`, string(data))
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := ByName("json")

	original := value.Mapping(map[string]value.Value{
		"n":     value.Number(json.Number("1.25")),
		"big":   value.Number(json.Number("9007199254740993")),
		"label": value.String("hello"),
		"flags": value.Sequence(value.Bool(true), value.Null()),
	})

	data, err := c.Encode(original)
	require.NoError(t, err)
	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(original), "got %s, want %s", decoded, original)
}

func TestJSONDecodePreservesNumberLiterals(t *testing.T) {
	c, _ := ByName("json")

	// A trailing zero is semantically redundant but must survive the
	// decode/encode round-trip untouched.
	decoded, err := c.Decode([]byte(`{"price": 1.10, "big": 9007199254740993}`))
	require.NoError(t, err)

	price, _ := decoded.Get("price")
	n, ok := price.AsNumber()
	require.True(t, ok)
	assert.Equal(t, json.Number("1.10"), n)

	data, err := c.Encode(decoded)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.10")
	assert.Contains(t, string(data), "9007199254740993")
}

func TestJSONDecodeRejectsTrailingData(t *testing.T) {
	c, _ := ByName("json")

	_, err := c.Decode([]byte(`{"ok": true} garbage`))
	require.Error(t, err)

	var codecErr *Error
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "decode", codecErr.Op)
}
