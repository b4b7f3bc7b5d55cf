package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
)

var ErrNoGenerator = errors.New("text generation is not configured")

// Outcome is a finished export. SaveErr reports a failure of the archive steps that ran
// after the artifact was built; the artifact is still usable when it is set.
type Outcome struct {
	Artifact   export.Artifact
	ResumeID   string
	StorageKey string
	SaveErr    error
}

// Export builds the artifact for format from the current aggregate and template, then
// archives it, records a resume snapshot and publishes an event. Only one export per
// session runs at a time.
func (s *Session) Export(ctx context.Context, format export.Format) (Outcome, error) {
	if !s.exporting.CompareAndSwap(false, true) {
		metrics.IncExport(string(format), "busy")
		return Outcome{}, ErrBusy
	}
	defer s.exporting.Store(false)

	start := time.Now()
	data, tmpl := s.state()
	art, err := s.deps.Exporter.Export(ctx, format, data, tmpl.ID)
	if err != nil {
		metrics.IncExport(string(format), "failed")
		telemetry.Error("export.failed", map[string]any{
			"user_id": s.principal,
			"format":  format,
			"err":     err,
		})
		return Outcome{}, fmt.Errorf("export %s: %w", format, err)
	}

	out := Outcome{Artifact: art}
	out.SaveErr = s.archive(context.WithoutCancel(ctx), &out, format, data, tmpl.ID)
	outcome := "ok"
	if out.SaveErr != nil {
		outcome = "saved_with_warning"
		metrics.IncSaveWarning()
		telemetry.Warn("export.save_failed", map[string]any{
			"user_id": s.principal,
			"format":  format,
			"err":     out.SaveErr,
		})
	}
	metrics.IncExport(string(format), outcome)
	metrics.ObserveExportDurationMs(metrics.Since(start))
	return out, nil
}

// archive runs the steps that follow a successful export. Each step runs even when an
// earlier one failed.
func (s *Session) archive(ctx context.Context, out *Outcome, format export.Format, data model.ResumeData, tmpl model.TemplateID) error {
	var errs []error

	if s.deps.Store != nil {
		key, err := object.ExportKey(s.principal, out.Artifact.Filename, s.deps.now())
		if err == nil {
			_, err = s.deps.Store.Put(ctx, key, out.Artifact.MimeType, bytes.NewReader(out.Artifact.Data))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("store artifact: %w", err))
		} else {
			out.StorageKey = key
		}
	}

	if s.deps.Resumes != nil {
		rec, err := s.deps.Resumes.SaveExport(ctx, resumes.Record{
			UserID:       s.principal,
			TemplateID:   tmpl,
			Data:         data,
			ExportFormat: string(format),
			StorageKey:   out.StorageKey,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("save resume: %w", err))
		} else {
			out.ResumeID = rec.ID
		}
	}

	// Consumers look the record up by id, so an unsaved export has nothing to announce.
	if s.deps.Events != nil && out.ResumeID != "" {
		msg := queue.NewExportedMessage(s.principal, out.ResumeID, string(format), string(tmpl), out.StorageKey)
		msg.RequestID = telemetry.RequestID(ctx)
		if err := s.deps.Events.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("publish event: %w", err))
		}
	}
	return errors.Join(errs...)
}

// GenerateSummary drafts a professional summary from the skills and positions and writes
// it into the personal info. Only one draft per session runs at a time.
func (s *Session) GenerateSummary(ctx context.Context) (string, model.ResumeData, error) {
	if s.deps.Generator == nil {
		return "", model.ResumeData{}, ErrNoGenerator
	}
	if !s.generating.CompareAndSwap(false, true) {
		return "", model.ResumeData{}, ErrBusy
	}
	defer s.generating.Store(false)

	resp, err := s.deps.Generator.Generate(ctx, s.principal, llm.Request{
		Prompt:    llm.SummaryPrompt(s.Data()),
		MaxTokens: llm.SummaryMaxTokens,
	})
	if err != nil {
		return "", model.ResumeData{}, fmt.Errorf("generate summary: %w", err)
	}
	summary := strings.TrimSpace(resp.GeneratedText)
	data, err := s.update(ctx, func(d *model.ResumeData) error {
		d.PersonalInfo.Summary = summary
		return nil
	})
	return summary, data, err
}
