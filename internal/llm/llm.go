package llm

import (
	"context"
	"errors"
)

const (
	DefaultModel     = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultMaxTokens = 256
	SummaryMaxTokens = 120
)

// Sources reported on a Response.
const (
	SourceMock        = "mock"
	SourceHuggingFace = "huggingface"
	SourceOpenAI      = "openai"
	SourceGemini      = "gemini"
)

// ErrEmptyResponse is returned by providers that answer without text.
var ErrEmptyResponse = errors.New("llm response empty")

// Request is one text-generation call. Zero Model and MaxTokens select provider defaults.
type Request struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// Response carries the generated text and the backend that produced it.
type Response struct {
	GeneratedText string `json:"generated_text"`
	Source        string `json:"source"`
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// WithDefaults fills in the default model and token budget.
func (r Request) WithDefaults(model string) Request {
	if r.Model == "" {
		r.Model = model
	}
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	return r
}
