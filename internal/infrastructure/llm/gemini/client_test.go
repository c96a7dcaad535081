package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

func TestCompleteReturnsCandidateText(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"judgment"}]}}]}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), "key", "", server.URL, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	reply, err := client.Complete(context.Background(), "rules", "facts")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "judgment" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if _, ok := payload["systemInstruction"]; !ok {
		t.Fatalf("expected system instruction in request: %v", payload)
	}
}

func TestCompleteMapsServerErrorToTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer server.Close()

	client, err := New(context.Background(), "key", "", server.URL, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.Complete(context.Background(), "rules", "facts")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), " ", "", "", nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}
