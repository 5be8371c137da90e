package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, err := ByName("json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	// Lookups fold case.
	c, err = ByName("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = ByName("msgpack")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestByExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{ext: "json", want: "json"},
		{ext: ".json", want: "json"},
		{ext: ".JSON", want: "json"},
		{ext: "yaml", want: "yaml"},
		{ext: "yml", want: "yaml"},
		{ext: "toml", want: "toml"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			c, err := ByExtension(tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}

	_, err := ByExtension(".ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDefaultIsJSON(t *testing.T) {
	assert.Equal(t, "json", Default().Name())
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "json")
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}
