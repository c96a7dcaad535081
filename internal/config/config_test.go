package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEngineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_FILE", "ENGINE_PROVIDER", "OPENAI_API_KEY", "OLLAMA_URL", "GEMINI_API_KEY",
		"ENGINE_TIMEOUT_SECONDS", "MAX_UPLOAD_BYTES", "NATS_SUBJECT", "API_PORT", "OPENAI_TEMPERATURE"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEngineEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EngineProvider != EngineOpenAI || cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
	if cfg.EngineTimeoutSeconds != 90 {
		t.Fatalf("expected 90s engine timeout, got %d", cfg.EngineTimeoutSeconds)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.NATSSubject != "notices.ingested" {
		t.Fatalf("unexpected subject %q", cfg.NATSSubject)
	}
	if cfg.OpenAITemperature != 0.1 || cfg.OpenAIMaxTokens != 3000 {
		t.Fatalf("unexpected sampling defaults: %v %d", cfg.OpenAITemperature, cfg.OpenAIMaxTokens)
	}
	if cfg.EngineConfigured() {
		t.Fatalf("engine must be unconfigured without an api key")
	}
}

func TestEngineConfiguredPerProvider(t *testing.T) {
	tests := []struct {
		cfg  Config
		want bool
	}{
		{cfg: Config{EngineProvider: EngineOpenAI, OpenAIAPIKey: "sk"}, want: true},
		{cfg: Config{EngineProvider: EngineOpenAI, OpenAIAPIKey: "  "}, want: false},
		{cfg: Config{EngineProvider: EngineOllama, OllamaURL: "http://localhost:11434"}, want: true},
		{cfg: Config{EngineProvider: EngineGemini}, want: false},
		{cfg: Config{EngineProvider: EngineGemini, GeminiAPIKey: "g"}, want: true},
	}
	for _, tt := range tests {
		if got := tt.cfg.EngineConfigured(); got != tt.want {
			t.Fatalf("EngineConfigured(%s) = %v, want %v", tt.cfg.EngineProvider, got, tt.want)
		}
	}
}

func TestLoadFileLayerIsOverriddenByEnv(t *testing.T) {
	clearEngineEnv(t)

	path := filepath.Join(t.TempDir(), "grantcheck.yaml")
	content := "ENGINE_PROVIDER: gemini\nGEMINI_API_KEY: from-file\nengine_timeout_seconds: 30\nAPI_PORT: 9000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EngineProvider != EngineGemini || !cfg.EngineConfigured() {
		t.Fatalf("expected gemini from file, got %+v", cfg)
	}
	if cfg.EngineTimeoutSeconds != 30 {
		t.Fatalf("expected lower-case file key to apply, got %d", cfg.EngineTimeoutSeconds)
	}
	if cfg.APIPort != "8081" {
		t.Fatalf("expected env to win over file, got %q", cfg.APIPort)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("ENGINE_PROVIDER", "watson")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadKeepsExplicitZeroTemperature(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("OPENAI_TEMPERATURE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenAITemperature != 0 {
		t.Fatalf("OpenAITemperature = %v, want 0", cfg.OpenAITemperature)
	}
}
