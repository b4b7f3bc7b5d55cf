package render

import "resume-builder/resume/model"

// Palette carries the colours and typography of a variant.
type Palette struct {
	Accent     string
	AccentSoft string
	Text       string
	Muted      string
	Background string
	Font       string
}

var palettes = map[model.TemplateID]Palette{
	model.TemplateModern: {
		Accent:     "#2563eb",
		AccentSoft: "#dbeafe",
		Text:       "#1f2937",
		Muted:      "#4b5563",
		Background: "#ffffff",
		Font:       "'Helvetica Neue', Arial, sans-serif",
	},
	model.TemplateClassic: {
		Accent:     "#166534",
		AccentSoft: "#dcfce7",
		Text:       "#111111",
		Muted:      "#374151",
		Background: "#ffffff",
		Font:       "Georgia, 'Times New Roman', serif",
	},
	model.TemplateCreative: {
		Accent:     "#9333ea",
		AccentSoft: "#f3e8ff",
		Text:       "#1f2937",
		Muted:      "#6b7280",
		Background: "#ffffff",
		Font:       "'Trebuchet MS', Arial, sans-serif",
	},
}

// PaletteFor returns the palette of id, or the modern palette for unknown ids.
func PaletteFor(id model.TemplateID) Palette {
	if p, ok := palettes[id]; ok {
		return p
	}
	return palettes[model.TemplateModern]
}
