package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUserKey(t *testing.T) {
	got := HashUserKey("guest:g1")
	assert.Equal(t, got, HashUserKey("guest:g1"))
	assert.NotEqual(t, got, HashUserKey("guest:g2"))
	assert.Len(t, got, 64)
	assert.Regexp(t, `^[0-9a-f]+$`, got)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"  Jordan Rivera  Resume.docx ", "Jordan-Rivera-Resume.docx"},
		{"a/b\\c.html", "a_b_c.html"},
		{"tab\there.json", "tab-here.json"},
		{"bell\a.txt", "bell.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "../etc/passwd", "x/../y", ".", "\a"} {
		_, err := SanitizeFileName(in)
		assert.ErrorIs(t, err, ErrInvalidFileName, in)
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 200) + ".pdf")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), MaxFileNameLen)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}
