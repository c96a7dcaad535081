package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
	"github.com/seykim2025/kgoverment-proj/internal/core/usecase"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/llm/gemini"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/llm/ollama"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/llm/openai"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/resilience"
)

// NewJudgmentEngine builds the engine selected by ENGINE_PROVIDER. It returns
// a nil engine when the provider has no credentials, which routes assessments
// to the rule-based classifier.
func NewJudgmentEngine(ctx context.Context, cfg config.Config, onStateChange func(operation, from, to string)) (ports.JudgmentEngine, string, error) {
	if !cfg.EngineConfigured() {
		slog.Warn("judgment_engine_unconfigured", "provider", cfg.EngineProvider)
		return nil, "", nil
	}

	policy := resilience.EngineConfig(cfg.EngineBreakerEnabled)
	policy.OnStateChange = onStateChange
	executor := resilience.NewExecutor(policy)

	switch cfg.EngineProvider {
	case config.EngineOpenAI:
		client := openai.New(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Temperature: &cfg.OpenAITemperature,
			MaxTokens:   cfg.OpenAIMaxTokens,
		}, executor)
		return client, config.EngineOpenAI + ":" + client.Model(), nil
	case config.EngineOllama:
		return ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor), config.EngineOllama + ":" + cfg.OllamaModel, nil
	case config.EngineGemini:
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", executor)
		if err != nil {
			return nil, "", fmt.Errorf("init gemini engine: %w", err)
		}
		return client, config.EngineGemini + ":" + client.Model(), nil
	default:
		return nil, "", fmt.Errorf("unknown engine provider %q", cfg.EngineProvider)
	}
}

// NewAssessor wires the judgment engine from cfg into an Assessor.
func NewAssessor(ctx context.Context, cfg config.Config, recorder AssessmentObserver) (*usecase.Assessor, error) {
	var onStateChange func(operation, from, to string)
	if recorder != nil {
		onStateChange = recorder.RecordBreakerTransition
	}
	engine, engineName, err := NewJudgmentEngine(ctx, cfg, onStateChange)
	if err != nil {
		return nil, err
	}

	return usecase.NewAssessor(usecase.AssessorConfig{
		Engine:     engine,
		EngineName: engineName,
		Timeout:    time.Duration(cfg.EngineTimeoutSeconds) * time.Second,
		Recorder:   recorder,
	}), nil
}

// AssessmentObserver records assessment, engine and breaker metrics.
type AssessmentObserver interface {
	ports.AssessmentRecorder
	RecordBreakerTransition(operation, from, to string)
}
