package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyenthenguyen/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "Ada_Resume.pdf", Filename("Ada", FormatPDF))
	assert.Equal(t, "Ada_Resume.docx", Filename("Ada", FormatDOCX))
	assert.Equal(t, "_Resume.html", Filename("", FormatHTML))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("rtf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		offsets []float64
	}{
		{"single page", 210, 100, []float64{0}},
		{"two pages", 210, 400, []float64{0, -295}},
		{"three pages", 210, 700, []float64{0, -295, -590}},
		{"scaled", 420, 800, []float64{0, -295}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Paginate(tt.w, tt.h)
			assert.Equal(t, PageWidthMM, plan.ImageWidth)
			assert.InDeltaSlice(t, tt.offsets, plan.Offsets, 1e-9)
			assert.Equal(t, len(tt.offsets), plan.Pages())
		})
	}
}

func TestPaginateExactPageAddsTrailingPage(t *testing.T) {
	plan := Paginate(210, 295)
	assert.Equal(t, 2, plan.Pages())
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRasterPDF(t *testing.T) {
	out, err := RasterPDF(testPNG(t, 21, 70))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out[len(out)-8:]), "%%EOF")
}

func TestRasterPDFRejectsNonImage(t *testing.T) {
	_, err := RasterPDF([]byte("nope"))
	assert.Error(t, err)
}

func sample() model.ResumeData {
	return model.ResumeData{
		PersonalInfo: model.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555", Address: "London", Summary: "Analyst & writer"},
		WorkExperience: []model.WorkExperience{
			{Position: "Analyst", Company: "Engines", StartDate: "2020-01", EndDate: "2021-01", CurrentlyWorking: true, Description: "Notes"},
		},
		Education: []model.Education{
			{Degree: "BA", FieldOfStudy: "Math", Institution: "Home", StartDate: "2010-01", EndDate: "2014-06"},
		},
	}
}

func TestDocxText(t *testing.T) {
	text := DocxText(sample())
	assert.Contains(t, text, "Resume for Ada Lovelace")
	assert.Contains(t, text, "Email: ada@example.com")
	assert.Contains(t, text, "PROFESSIONAL SUMMARY\nAnalyst & writer")
	assert.Contains(t, text, "Analyst at Engines\n2020-01 - Present\nNotes")
	assert.Contains(t, text, "BA in Math\nHome\n2010-01 - 2014-06")
	assert.Less(t, strings.Index(text, "WORK EXPERIENCE"), strings.Index(text, "EDUCATION"))
}

func TestDocxIsWordPackage(t *testing.T) {
	out, err := Docx(sample())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["word/document.xml"])

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	defer doc.Close()
	content := doc.Editable().GetContent()
	assert.Contains(t, content, "Analyst &amp; writer")
	assert.Contains(t, content, "Analyst at Engines")
}

func TestStaticHTMLHeaderOnly(t *testing.T) {
	out, err := StaticHTML(sample())
	require.NoError(t, err)
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Resume - Ada Lovelace", dom.Find("title").Text())
	assert.Equal(t, "Ada Lovelace", dom.Find(".header h1").Text())
	assert.Equal(t, "ada@example.com | 555 | London", dom.Find(".header p").Text())

	empty, err := StaticHTML(model.ResumeData{})
	require.NoError(t, err)
	assert.Contains(t, string(empty), "<h1> </h1>")
}

func TestExporterDispatch(t *testing.T) {
	shot := testPNG(t, 10, 10)
	var seen []byte
	exp := NewExporter(CaptureFunc(func(_ context.Context, page []byte) ([]byte, error) {
		seen = page
		return shot, nil
	}))

	pdf, err := exp.Export(context.Background(), FormatPDF, sample(), model.TemplateClassic)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Resume.pdf", pdf.Filename)
	assert.Equal(t, MimePDF, pdf.MimeType)
	assert.Contains(t, string(seen), "Ada Lovelace")

	doc, err := exp.Export(context.Background(), FormatDOCX, sample(), model.TemplateModern)
	require.NoError(t, err)
	assert.Equal(t, MimeDOCX, doc.MimeType)

	page, err := exp.Export(context.Background(), FormatHTML, sample(), model.TemplateModern)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Resume.html", page.Filename)

	_, err = exp.Export(context.Background(), "rtf", sample(), model.TemplateModern)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExporterCaptureFailure(t *testing.T) {
	boom := errors.New("chrome crashed")
	exp := NewExporter(CaptureFunc(func(context.Context, []byte) ([]byte, error) { return nil, boom }))
	_, err := exp.Export(context.Background(), FormatPDF, sample(), model.TemplateModern)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "capture preview")

	_, err = NewExporter(nil).Export(context.Background(), FormatPDF, sample(), model.TemplateModern)
	assert.ErrorIs(t, err, ErrNoCapturer)
}
