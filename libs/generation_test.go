package libs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

func TestWebhookGeneratorRequestShape(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"output": "fine answer"})
	}))
	defer srv.Close()

	g := NewWebhookGenerator(srv.URL, "generate-question", "Gemini")
	answer, err := g.Generate(context.Background(), GenerationRequest{
		Input:       "what is Go?",
		SessionID:   "sess-1",
		Model:       "gemini-1.5-flash-8b",
		MaxTokens:   2048,
		Temperature: 0.7,
		TopK:        40,
		TopP:        0.95,
		Document:    "none",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "fine answer" {
		t.Errorf("unexpected answer %q", answer)
	}

	if gotPath != "/generate-question/gemini" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotPayload["chatInput"] != "what is Go?" || gotPayload["sessionId"] != "sess-1" {
		t.Errorf("unexpected payload %+v", gotPayload)
	}
	if gotPayload["action"] != "sendMessage" {
		t.Errorf("expected sendMessage action, got %v", gotPayload["action"])
	}
	if gotPayload["document"] != "none" {
		t.Errorf("expected document to pass through, got %v", gotPayload["document"])
	}
}

func TestWebhookGeneratorStripsFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"output": "```json\n{\"questions\":[]}\n```",
		})
	}))
	defer srv.Close()

	g := NewWebhookGenerator(srv.URL, "generate-question", "gemini")
	answer, err := g.Generate(context.Background(), GenerationRequest{Input: "quiz me"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "{\"questions\":[]}\n" {
		t.Errorf("fences not stripped, got %q", answer)
	}
}

func TestWebhookGeneratorUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"empty output", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"output": "  "})
		}},
		{"fences only", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"output": "```json\n```"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := NewWebhookGenerator(srv.URL, "generate-question", "gemini")
			if _, err := g.Generate(context.Background(), GenerationRequest{Input: "x"}); !errors.Is(err, model.ErrUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", "{\"a\":1}\n"},
		{"```json{\"a\":1}```", "{\"a\":1}"},
		{"no fences here", "no fences here"},
		{"``````", ""},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
