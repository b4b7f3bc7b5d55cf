package generations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

// Service runs prompts through the generator and keeps a history row per call.
type Service struct {
	Repo      Repo
	Generator llm.Generator
	Model     string
	Now       func() time.Time
}

func NewService(repo Repo, gen llm.Generator, model string) *Service {
	if strings.TrimSpace(model) == "" {
		model = llm.DefaultModel
	}
	return &Service{Repo: repo, Generator: gen, Model: model, Now: time.Now}
}

// Generate answers req for userID. The history row is best-effort; a failed insert is
// logged and the generated text is still returned.
func (s *Service) Generate(ctx context.Context, userID string, req llm.Request) (llm.Response, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return llm.Response{}, ErrInvalidInput
	}
	req = req.WithDefaults(s.Model)
	gen := s.Generator
	if gen == nil {
		gen = llm.NewFallback(nil)
	}
	resp, err := gen.Generate(ctx, req)
	if err != nil {
		return llm.Response{}, err
	}
	s.record(ctx, userID, req, resp)
	return resp, nil
}

func (s *Service) record(ctx context.Context, userID string, req llm.Request, resp llm.Response) {
	if s.Repo == nil {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	row := Generation{
		ID:            uuid.NewString(),
		UserID:        userID,
		Prompt:        req.Prompt,
		Model:         req.Model,
		MaxTokens:     req.MaxTokens,
		GeneratedText: resp.GeneratedText,
		Source:        resp.Source,
		CreatedAt:     now().UTC(),
	}
	if err := s.Repo.Insert(ctx, row); err != nil {
		telemetry.Warn("generation.record_failed", map[string]any{
			"user_id": userID,
			"err":     err,
		})
	}
}
