package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/resume/export"
	"resume-builder/resume/model"
)

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	data := model.ResumeData{
		PersonalInfo: model.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		WorkExperience: []model.WorkExperience{
			{Company: "Engines", Position: "Analyst", StartDate: "1842-01", CurrentlyWorking: true},
		},
	}
	out, err := export.Docx(data)
	if err != nil {
		t.Fatalf("export.Docx: %v", err)
	}
	return out
}

func TestTextFromDocxUnderZipMime(t *testing.T) {
	text, err := Text(context.Background(), sampleDocx(t), "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	for _, want := range []string{"Ada Lovelace", "WORK EXPERIENCE", "Analyst at Engines"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestTextSniffsOctetStream(t *testing.T) {
	text, err := Text(context.Background(), sampleDocx(t), "application/octet-stream", "upload")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "ada@example.com") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextPlain(t *testing.T) {
	text, err := Text(context.Background(), []byte("  skills and experience \n"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "skills and experience" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextRejectsPlainZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTextRejectsEmpty(t *testing.T) {
	if _, err := Text(context.Background(), nil, MimePDF, "a.pdf"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTextReportsBrokenPDF(t *testing.T) {
	if _, err := Text(context.Background(), []byte("%PDF-1.4 garbage"), MimePDF, "a.pdf"); err == nil {
		t.Fatalf("expected error for broken pdf")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mime     string
		fileName string
		want     string
	}{
		{"declared pdf", []byte("x"), "application/pdf", "", MimePDF},
		{"sniffed pdf", []byte("%PDF-1.7\n"), "", "", MimePDF},
		{"extension docx", []byte{0xff, 0x00}, "application/x-unknown", "cv.docx", MimeDOCX},
		{"binary text rejected", []byte{0xff, 0xfe, 0x00}, "text/plain", "cv.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data, tt.mime, tt.fileName); got != tt.want {
				t.Fatalf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}
