// Package builder owns each principal's resume under edit: the aggregate, the selected
// template, the live ATS score and the export and AI drafting flows.
package builder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/snapshot"
	"resume-builder/resume/ats"
	"resume-builder/resume/defaults"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

var (
	// ErrBusy is returned when the same kind of operation is already running for a session.
	ErrBusy            = errors.New("operation already in progress")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Exporter builds a downloadable artifact.
type Exporter interface {
	Export(ctx context.Context, format export.Format, data model.ResumeData, templateID model.TemplateID) (export.Artifact, error)
}

// SnapshotSaver records an exported resume.
type SnapshotSaver interface {
	SaveExport(ctx context.Context, rec resumes.Record) (resumes.Record, error)
}

// TextGenerator drafts text on behalf of a principal.
type TextGenerator interface {
	Generate(ctx context.Context, userID string, req llm.Request) (llm.Response, error)
}

// Deps are the collaborators shared by every session. Only Exporter is required; the rest
// disable their step when nil.
type Deps struct {
	Exporter  Exporter
	Store     object.Store
	Resumes   SnapshotSaver
	Events    queue.Client
	Generator TextGenerator
	ATSDelay  time.Duration
	OnScore   func(principal string, res ats.Result)
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Session is one principal's builder. Readers get deep copies; writers replace the
// aggregate wholesale under mu.
type Session struct {
	principal string
	deps      *Deps
	kv        snapshot.KV

	mu       sync.RWMutex
	data     model.ResumeData
	template model.Template

	monitor    *ats.Monitor
	exporting  atomic.Bool
	generating atomic.Bool
}

// NewSession restores principal's snapshot from kv and starts scoring it. Keys that could
// not be restored are returned and fall back to defaults.
func NewSession(ctx context.Context, principal string, kv snapshot.KV, deps *Deps) (*Session, []error) {
	if deps == nil {
		deps = &Deps{}
	}
	if kv == nil {
		kv = snapshot.NewMemoryKV()
	}
	state, errs := snapshot.Load(ctx, kv)
	s := &Session{
		principal: principal,
		deps:      deps,
		kv:        kv,
		data:      state.Data,
		template:  state.Template,
	}
	s.monitor = ats.NewMonitor(deps.ATSDelay, func(res ats.Result) {
		if deps.OnScore != nil {
			deps.OnScore(principal, res)
		}
	})
	s.monitor.Update(ats.Text(s.data))
	return s, errs
}

func (s *Session) Principal() string { return s.principal }

// Data returns a copy of the current aggregate.
func (s *Session) Data() model.ResumeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

func (s *Session) Template() model.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template
}

func (s *Session) state() (model.ResumeData, model.Template) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), s.template
}

// Replace swaps in a new aggregate.
func (s *Session) Replace(ctx context.Context, data model.ResumeData) model.ResumeData {
	out, _ := s.update(ctx, func(d *model.ResumeData) error {
		*d = data.Clone()
		return nil
	})
	return out
}

// SetPersonalInfo replaces the header fields.
func (s *Session) SetPersonalInfo(ctx context.Context, info model.PersonalInfo) model.ResumeData {
	out, _ := s.update(ctx, func(d *model.ResumeData) error {
		d.PersonalInfo = info
		return nil
	})
	return out
}

// update applies fn to a copy of the aggregate and, when fn succeeds, installs the copy,
// saves it and schedules a rescore.
func (s *Session) update(ctx context.Context, fn func(*model.ResumeData) error) (model.ResumeData, error) {
	s.mu.Lock()
	next := s.data.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return model.ResumeData{}, err
	}
	s.data = next
	if err := snapshot.SaveResume(ctx, s.kv, next); err != nil {
		telemetry.Warn("snapshot.save_failed", map[string]any{
			"user_id": s.principal,
			"key":     snapshot.KeyResumeData,
			"err":     err,
		})
	}
	// Scheduled under mu so the last trigger always carries the installed aggregate.
	s.monitor.Update(ats.Text(next))
	s.mu.Unlock()
	return next.Clone(), nil
}

// SelectTemplate switches the layout variant.
func (s *Session) SelectTemplate(ctx context.Context, id model.TemplateID) (model.Template, error) {
	tmpl, ok := defaults.TemplateByID(id)
	if !ok {
		return model.Template{}, ErrUnknownTemplate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = tmpl
	if err := snapshot.SaveTemplate(ctx, s.kv, tmpl); err != nil {
		telemetry.Warn("snapshot.save_failed", map[string]any{
			"user_id": s.principal,
			"key":     snapshot.KeySelectedTemplate,
			"err":     err,
		})
	}
	return tmpl, nil
}

// ATS returns the most recently published score, if any.
func (s *Session) ATS() (ats.Result, bool) {
	return s.monitor.Latest()
}

// ScoreNow scores the current aggregate synchronously.
func (s *Session) ScoreNow() ats.Result {
	return ats.Score(ats.Text(s.Data()))
}

// Preview renders the current aggregate under the selected template.
func (s *Session) Preview() ([]byte, error) {
	data, tmpl := s.state()
	return render.HTML(render.Render(data, tmpl.ID))
}

func (s *Session) ExportJSON() ([]byte, error) {
	return model.ExportJSON(s.Data())
}

// ImportJSON replaces the aggregate with a validated JSON document.
func (s *Session) ImportJSON(ctx context.Context, raw []byte) (model.ResumeData, error) {
	data, err := model.ImportJSON(raw)
	if err != nil {
		return model.ResumeData{}, err
	}
	return s.Replace(ctx, data), nil
}

// Close stops pending rescoring.
func (s *Session) Close() {
	s.monitor.Stop()
}
