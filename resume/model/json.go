package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema string

// ErrInvalidJSON is returned when an imported document is not a resume.
var ErrInvalidJSON = errors.New("invalid resume json")

// ExportJSON renders the aggregate as indented JSON.
func ExportJSON(data ResumeData) ([]byte, error) {
	return json.MarshalIndent(data.Clone(), "", "  ")
}

// ImportJSON validates raw against the resume schema and decodes it.
func ImportJSON(raw []byte) (ResumeData, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(resumeSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return ResumeData{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return ResumeData{}, fmt.Errorf("%w: %s", ErrInvalidJSON, strings.Join(msgs, "; "))
	}

	var data ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ResumeData{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return data.Clone(), nil
}
