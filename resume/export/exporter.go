package export

import (
	"context"
	"fmt"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

// Exporter produces artifacts for every supported format.
type Exporter struct {
	capturer Capturer
}

// NewExporter builds an exporter. A nil capturer makes PDF exports fail.
func NewExporter(capturer Capturer) *Exporter {
	return &Exporter{capturer: capturer}
}

// Export builds the artifact for format from data under the given template.
func (e *Exporter) Export(ctx context.Context, format Format, data model.ResumeData, templateID model.TemplateID) (Artifact, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatPDF:
		body, err = e.pdf(ctx, data, templateID)
	case FormatDOCX:
		body, err = Docx(data)
	case FormatHTML:
		body, err = StaticHTML(data)
	default:
		return Artifact{}, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("export %s: %w", format, err)
	}
	return Artifact{
		Filename: Filename(data.PersonalInfo.FirstName, format),
		MimeType: format.MimeType(),
		Data:     body,
	}, nil
}

func (e *Exporter) pdf(ctx context.Context, data model.ResumeData, templateID model.TemplateID) ([]byte, error) {
	page, err := render.HTML(render.Render(data, templateID))
	if err != nil {
		return nil, err
	}
	shot, err := capturePreview(ctx, e.capturer, page)
	if err != nil {
		return nil, err
	}
	return RasterPDF(shot)
}
