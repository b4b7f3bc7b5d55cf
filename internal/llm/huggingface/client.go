// Package huggingface calls the Hugging Face Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"resume-builder/internal/llm"
)

const DefaultBaseURL = "https://api-inference.huggingface.co/models"

var ErrNoToken = errors.New("HUGGINGFACE_API_TOKEN is required")

// Client implements llm.Generator against the Inference API.
type Client struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

// NewClient builds a client. Empty baseURL and model select the public endpoint and default model.
func NewClient(token, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = llm.DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type inferenceRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
	Options    options    `json:"options"`
}

type parameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type options struct {
	WaitForModel bool `json:"wait_for_model"`
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	req = req.WithDefaults(c.model)
	payload, err := json.Marshal(inferenceRequest{
		Inputs:     req.Prompt,
		Parameters: parameters{MaxNewTokens: req.MaxTokens},
		Options:    options{WaitForModel: true},
	})
	if err != nil {
		return llm.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+req.Model, bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return llm.Response{}, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return llm.Response{}, fmt.Errorf("huggingface http status %d: %s", resp.StatusCode, msg)
	}

	text, err := parseGenerated(body)
	if err != nil {
		return llm.Response{}, err
	}
	return llm.Response{GeneratedText: text, Source: llm.SourceHuggingFace}, nil
}

// parseGenerated accepts either [{"generated_text": ...}] or {"generated_text": ...}. A
// bare first array element is used verbatim.
func parseGenerated(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("huggingface response is not json")
	}
	root := gjson.ParseBytes(body)
	if msg := root.Get("error"); msg.Exists() {
		return "", fmt.Errorf("huggingface error: %s", msg.String())
	}
	if root.IsArray() {
		first := root.Get("0")
		if !first.Exists() {
			return "", llm.ErrEmptyResponse
		}
		if text := first.Get("generated_text"); text.Exists() {
			return text.String(), nil
		}
		return first.String(), nil
	}
	if text := root.Get("generated_text"); text.Exists() {
		return text.String(), nil
	}
	return root.Raw, nil
}
