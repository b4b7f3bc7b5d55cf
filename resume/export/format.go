// Package export produces downloadable PDF, DOCX and HTML artifacts from a resume.
package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format is one of the closed set of export formats.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeHTML = "text/html"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatDOCX, FormatHTML}

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FormatPDF, FormatDOCX, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrUnsupportedFormat)
	}
}

// MimeType returns the content type of f.
func (f Format) MimeType() string {
	switch f {
	case FormatPDF:
		return MimePDF
	case FormatDOCX:
		return MimeDOCX
	case FormatHTML:
		return MimeHTML
	default:
		return "application/octet-stream"
	}
}

// Filename returns "{firstName}_Resume.{ext}".
func Filename(firstName string, f Format) string {
	return firstName + "_Resume." + string(f)
}

// Artifact is a finished export ready for download.
type Artifact struct {
	Filename string
	MimeType string
	Data     []byte
}
