// Package openai is a judgment engine speaking the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/llm"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 3000

	completionsOperation = "chat_completions"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	// Temperature nil means DefaultTemperature; an explicit 0 is sent as 0.
	Temperature *float64
	MaxTokens   int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == nil || *cfg.Temperature < 0 {
		t := DefaultTemperature
		cfg.Temperature = &t
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.EngineConfig(false))
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Complete runs a single chat completion. Engine calls are never retried.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	request := completionRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: *c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var response completionResponse
	err := c.executor.Execute(ctx, "openai."+completionsOperation, func(callCtx context.Context) error {
		return llm.PostJSON(callCtx, c.httpClient, c.cfg.BaseURL+"/chat/completions", headers, request, &response, "openai", completionsOperation)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return "", resilience.WrapTemporaryIfNeeded("openai chat completion", err)
	}

	if len(response.Choices) == 0 {
		return "", domain.WrapError(domain.ErrUpstream, "openai chat completion", fmt.Errorf("no choices returned"))
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content)
	if text == "" {
		return "", domain.WrapError(domain.ErrUpstream, "openai chat completion",
			fmt.Errorf("empty reply (finish_reason=%s)", response.Choices[0].FinishReason))
	}
	return text, nil
}
