package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connector.rb")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CountsLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   int
	}{
		{"empty", "", 0},
		{"single line no newline", "title: 'X'", 1},
		{"single line with newline", "title: 'X'\n", 1},
		{"three lines", "a\nb\nc\n", 3},
		{"trailing partial", "a\nb\nc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(writeTemp(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.lines, f.Lines)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.rb"))
	assert.Error(t, err)
}

func TestSlice_CapsAndClamps(t *testing.T) {
	f := &File{Bytes: []byte("0123456789")}

	assert.Equal(t, "234", string(f.Slice(2, 5, 0)))
	assert.Equal(t, "23", string(f.Slice(2, 5, 2)), "cap applies")
	assert.Equal(t, "89", string(f.Slice(8, 50, 0)), "end clamped")
	assert.Nil(t, f.Slice(5, 5, 0))
	assert.Nil(t, f.Slice(-3, -1, 0))
}
