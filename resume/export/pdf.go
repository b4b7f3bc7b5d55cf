package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

const previewImage = "preview"

// RasterPDF lays a PNG bitmap out over A4 portrait pages following Paginate.
func RasterPDF(pngData []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	plan := Paginate(cfg.Width, cfg.Height)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(previewImage, opts, bytes.NewReader(pngData))
	for _, y := range plan.Offsets {
		pdf.AddPage()
		pdf.ImageOptions(previewImage, 0, y, plan.ImageWidth, plan.ImageHeight, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
