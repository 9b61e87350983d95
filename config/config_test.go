package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mage.yml")
	data := []byte(`
output: picture.bmp
patterns:
  stripes:
    width: 8
    height: 4
    red: "mod(x, 2) * 255"
    green: "0"
    blue: "y * 64"
    alpha: "255"
`)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "picture.bmp", c.Output)
	assert.Equal(t, DefaultPreviewWidth, c.Preview.MaxWidth)
	assert.Equal(t, []string{"gradient", "stripes"}, c.PatternNames())
	assert.Equal(t, Pattern{Width: 8, Height: 4, Red: "mod(x, 2) * 255", Green: "0", Blue: "y * 64", Alpha: "255"}, c.Patterns["stripes"])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expectError bool
	}{
		{
			name: "should accept empty data",
			data: "",
		},
		{
			name: "should override the default pattern",
			data: "patterns:\n  gradient: {width: 1, height: 1, red: x, green: y, blue: '0', alpha: '1'}\n",
		},
		{
			name:        "should return an error on unknown keys",
			data:        "outptu: a.bmp\n",
			expectError: true,
		},
		{
			name:        "should return an error on malformed yaml",
			data:        "output: [\n",
			expectError: true,
		},
		{
			name:        "should return an error if pattern size is zero",
			data:        "patterns:\n  flat: {width: 0, height: 1, red: '0', green: '0', blue: '0', alpha: '0'}\n",
			expectError: true,
		},
		{
			name:        "should return an error if an expression is missing",
			data:        "patterns:\n  flat: {width: 1, height: 1, red: '0', green: '0', blue: '0'}\n",
			expectError: true,
		},
		{
			name:        "should return an error if preview width is negative",
			data:        "preview: {max_width: -1}\n",
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.data))
			if test.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
