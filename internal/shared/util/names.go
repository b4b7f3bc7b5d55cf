// Package util derives filesystem and object-store safe names from user input.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

// MaxFileNameLen bounds sanitized names; longer names keep their extension.
const MaxFileNameLen = 128

var ErrInvalidFileName = errors.New("invalid file name")

// HashUserKey maps a principal such as "guest:abc" or a user id to 64 hex characters, so
// per-user directories and key prefixes never leak or depend on the raw id.
func HashUserKey(principal string) string {
	sum := sha256.Sum256([]byte(principal))
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName flattens name into a single path segment. Separators become underscores,
// control characters are dropped and runs of whitespace collapse to one hyphen. Traversal
// sequences and names that end up empty are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteByte('_')
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte('-')
			}
			space = true
			continue
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
		space = false
	}
	s := b.String()
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	return truncate(s), nil
}

func truncate(s string) string {
	if len(s) <= MaxFileNameLen {
		return s
	}
	ext := ""
	if i := strings.LastIndexByte(s, '.'); i > 0 && len(s)-i <= 10 {
		ext = s[i:]
	}
	head := []rune(s[:len(s)-len(ext)])
	for len(string(head))+len(ext) > MaxFileNameLen {
		head = head[:len(head)-1]
	}
	return string(head) + ext
}
