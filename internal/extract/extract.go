// Package extract pulls plain text out of uploaded resumes for ATS scoring.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// ErrUnsupported is returned for payloads that are neither PDF, DOCX nor UTF-8 text.
var ErrUnsupported = errors.New("unsupported file type")

// Text extracts the readable text of data. mimeType and fileName are hints; the payload
// is sniffed when they are missing or generic.
func Text(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnsupported)
	}
	switch kind := Detect(data, mimeType, fileName); kind {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
}

// Detect resolves the payload type from the declared MIME type, the zip contents and the
// file extension, in that order.
func Detect(data []byte, mimeType, fileName string) string {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if declared == "" || declared == "application/octet-stream" {
		declared = strings.Split(http.DetectContentType(data), ";")[0]
	}
	switch declared {
	case MimePDF, MimeDOCX:
		return declared
	case "application/zip":
		if isDocxZip(data) {
			return MimeDOCX
		}
		return declared
	case MimeText:
		if utf8.Valid(data) {
			return MimeText
		}
		declared = "application/octet-stream"
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		if utf8.Valid(data) {
			return MimeText
		}
	}
	return declared
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()
	return paragraphText(doc.Editable().GetContent()), nil
}

// paragraphText keeps character data and turns paragraph and break ends into newlines.
func paragraphText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(buf.String())
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func isDocxZip(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
