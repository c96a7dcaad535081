// Package gemini is a judgment engine backed by the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/resilience"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 3000
)

var defaultTemperature float32 = 0.1

type Client struct {
	client   *genai.Client
	model    string
	executor *resilience.Executor
}

// New creates a Gemini engine. baseURL is optional and only overrides the API host.
func New(ctx context.Context, apiKey, model, baseURL string, executor *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.EngineConfig(false))
	}
	return &Client{client: client, model: model, executor: executor}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(defaultTemperature),
		MaxOutputTokens:   defaultMaxTokens,
	}

	var text string
	err := c.executor.Execute(ctx, "gemini.generate_content", func(callCtx context.Context) error {
		resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(user), config)
		if err != nil {
			return asStatusError(err)
		}
		text = resp.Text()
		return nil
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return "", resilience.WrapTemporaryIfNeeded("gemini generate content", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(domain.ErrUpstream, "gemini generate content", fmt.Errorf("empty reply from model %q", c.model))
	}
	return text, nil
}

// asStatusError lifts SDK API errors into the shared status error so the
// breaker classifies them like the HTTP engines.
func asStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &resilience.HTTPStatusError{
			Service:    "gemini",
			Operation:  "generate_content",
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Body:       apiErr.Message,
		}
	}
	return err
}
