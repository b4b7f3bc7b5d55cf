package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/resume/defaults"
	"resume-builder/resume/model"
)

// Fixed keys of a session snapshot.
const (
	KeyResumeData       = "resumeData"
	KeySelectedTemplate = "selectedTemplate"
)

// KeyError reports a key that could not be restored.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string { return fmt.Sprintf("snapshot %s: %v", e.Key, e.Err) }
func (e *KeyError) Unwrap() error { return e.Err }

// State is everything a session restores at start.
type State struct {
	Data     model.ResumeData
	Template model.Template
}

// Default is the state of a session with no snapshot.
func Default() State {
	return State{Data: defaults.NewResumeData(), Template: defaults.DefaultTemplate()}
}

// Load restores both keys independently. A key that is absent keeps its default silently;
// a key that cannot be read or parsed keeps its default and is reported in errs.
func Load(ctx context.Context, kv KV) (State, []error) {
	state := Default()
	var errs []error

	if raw, err := kv.Get(ctx, KeyResumeData); err == nil {
		data, perr := parseResume(raw)
		if perr != nil {
			errs = append(errs, &KeyError{Key: KeyResumeData, Err: perr})
		} else {
			state.Data = data
		}
	} else if !errors.Is(err, ErrNotFound) {
		errs = append(errs, &KeyError{Key: KeyResumeData, Err: err})
	}

	if raw, err := kv.Get(ctx, KeySelectedTemplate); err == nil {
		tmpl, perr := parseTemplate(raw)
		if perr != nil {
			errs = append(errs, &KeyError{Key: KeySelectedTemplate, Err: perr})
		} else {
			state.Template = tmpl
		}
	} else if !errors.Is(err, ErrNotFound) {
		errs = append(errs, &KeyError{Key: KeySelectedTemplate, Err: err})
	}

	return state, errs
}

// SaveResume writes the aggregate under KeyResumeData.
func SaveResume(ctx context.Context, kv KV, data model.ResumeData) error {
	raw, err := json.Marshal(data.Clone())
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}
	return kv.Set(ctx, KeyResumeData, raw)
}

// SaveTemplate writes the selected template under KeySelectedTemplate.
func SaveTemplate(ctx context.Context, kv KV, tmpl model.Template) error {
	raw, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return kv.Set(ctx, KeySelectedTemplate, raw)
}

func parseResume(raw []byte) (model.ResumeData, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var data model.ResumeData
	if err := dec.Decode(&data); err != nil {
		return model.ResumeData{}, err
	}
	for _, skill := range data.Skills {
		if skill.Level != "" && !skill.Level.Valid() {
			return model.ResumeData{}, fmt.Errorf("unknown skill level %q", skill.Level)
		}
	}
	return data.Clone(), nil
}

// parseTemplate accepts the stored template object or a bare template id string.
func parseTemplate(raw []byte) (model.Template, error) {
	trimmed := bytes.TrimSpace(raw)
	var id model.TemplateID
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return model.Template{}, err
		}
		id = model.TemplateID(strings.TrimSpace(s))
	} else {
		var tmpl model.Template
		if err := json.Unmarshal(trimmed, &tmpl); err != nil {
			return model.Template{}, err
		}
		id = tmpl.ID
	}
	tmpl, ok := defaults.TemplateByID(id)
	if !ok {
		return model.Template{}, fmt.Errorf("unknown template %q", id)
	}
	return tmpl, nil
}
