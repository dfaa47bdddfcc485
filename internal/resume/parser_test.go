package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileTxt(t *testing.T) {
	p := NewParser(t.TempDir())

	parsed, err := p.ParseFile("resume.txt", strings.NewReader("  Experienced bookkeeper.\n"))
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", parsed.Filename)
	assert.Equal(t, ".txt", parsed.FileType)
	assert.Equal(t, int64(26), parsed.FileSize)
	assert.Equal(t, "Experienced bookkeeper.", parsed.Text)
}

func TestParseFileUnsupportedType(t *testing.T) {
	p := NewParser(t.TempDir())

	_, err := p.ParseFile("photo.png", strings.NewReader("binary"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
