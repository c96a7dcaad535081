package ollama

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
	defaultTemperature = 0.1
	defaultMaxTokens   = 3000
	chatOperation      = "chat"
)

// Client is a judgment engine backed by a local Ollama server.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.EngineConfig(false))
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Complete sends one system+user exchange to /api/chat and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Options: map[string]any{
			"temperature": defaultTemperature,
			"num_predict": defaultMaxTokens,
		},
	}

	var response chatResponse
	err := c.executor.Execute(ctx, "ollama."+chatOperation, func(callCtx context.Context) error {
		return llm.PostJSON(callCtx, c.httpClient, c.baseURL+"/api/chat", nil, request, &response, "ollama", chatOperation)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return "", resilience.WrapTemporaryIfNeeded("ollama chat", err)
	}

	text := strings.TrimSpace(response.Message.Content)
	if text == "" {
		return "", domain.WrapError(domain.ErrUpstream, "ollama chat", fmt.Errorf("empty reply from model %q", c.model))
	}
	return text, nil
}
