package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/provider"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generateBody(texts ...string) string {
	parts := make([]map[string]any, len(texts))
	for i, text := range texts {
		parts[i] = map[string]any{"text": text}
	}
	var candidates []map[string]any
	if len(texts) > 0 {
		candidates = []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": parts},
			"finishReason": "STOP",
		}}
	}
	b, _ := json.Marshal(map[string]any{"candidates": candidates})
	return string(b)
}

func newTestSynthesizer(t *testing.T, url string) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(context.Background(), Config{APIKey: "test-key", Model: "gemini-test", BaseURL: url}, newTestLogger())
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	return s
}

func TestSynthesizer_ProposeRecipes_Success(t *testing.T) {
	t.Parallel()

	existing := uuid.New()
	answer := `{"recipes":[{"existing_recipe_id":"` + existing.String() + `"}]}`

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generateBody(answer)))
	}))
	defer srv.Close()

	got, err := newTestSynthesizer(t, srv.URL).ProposeRecipes(context.Background(), domain.SynthesisRequest{
		Remaining: domain.MacroVector{Calories: 400, Protein: 20},
		Existing:  []domain.Recipe{{ID: existing, Name: "stew", Servings: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ExistingID == nil || *got[0].ExistingID != existing {
		t.Fatalf("candidates = %+v", got)
	}

	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Error("request has no system instruction")
	}
	cfg, _ := gotBody["generationConfig"].(map[string]any)
	if cfg["responseMimeType"] != "application/json" {
		t.Errorf("generationConfig = %v, want JSON mime type", cfg)
	}
}

func TestSynthesizer_ProposeRecipes_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generateBody()))
	}))
	defer srv.Close()

	_, err := newTestSynthesizer(t, srv.URL).ProposeRecipes(context.Background(), domain.SynthesisRequest{})
	if !errors.Is(err, provider.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestSynthesizer_ProposeRecipes_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	_, err := newTestSynthesizer(t, srv.URL).ProposeRecipes(context.Background(), domain.SynthesisRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
}
