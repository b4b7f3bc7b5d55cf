package llm

import (
	"context"

	"resume-builder/internal/shared/telemetry"
)

// Fallback serves requests from Primary and answers from Mock whenever Primary is missing
// or fails. It never returns an error.
type Fallback struct {
	Primary Generator
	Mock    Generator
}

// NewFallback wraps primary. A nil primary means every request is mocked.
func NewFallback(primary Generator) *Fallback {
	return &Fallback{Primary: primary, Mock: Mock{}}
}

func (f *Fallback) Generate(ctx context.Context, req Request) (Response, error) {
	mock := f.Mock
	if mock == nil {
		mock = Mock{}
	}
	if f.Primary == nil {
		return mock.Generate(ctx, req)
	}
	resp, err := f.Primary.Generate(ctx, req)
	if err == nil && resp.GeneratedText != "" {
		return resp, nil
	}
	if err == nil {
		err = ErrEmptyResponse
	}
	telemetry.Warn("llm.fallback", map[string]any{
		"model": req.Model,
		"err":   err,
	})
	return mock.Generate(ctx, req)
}
