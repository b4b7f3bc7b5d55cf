// Package gemini generates text with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resume-builder/internal/llm"
)

const defaultModel = "gemini-1.5-flash"

// Client implements llm.Generator on top of genai.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate uses the configured model unless the request names a gemini model.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	name := c.model
	if strings.HasPrefix(req.Model, "gemini") {
		name = req.Model
	}
	req = req.WithDefaults(name)

	model := c.client.GenerativeModel(name)
	model.SetMaxOutputTokens(int32(req.MaxTokens))
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini generate: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return llm.Response{}, err
	}
	return llm.Response{GeneratedText: text, Source: llm.SourceGemini}, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", llm.ErrEmptyResponse
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
