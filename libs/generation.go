package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// GenerationRequest carries the input plus the model and sampling
// parameters for one generation call. Callers pass it explicitly; there is
// no ambient generation configuration.
type GenerationRequest struct {
	Input       string
	SessionID   string
	Model       string
	MaxTokens   int
	Temperature float64
	TopK        float64
	TopP        float64
	Document    string

	// History is the prior conversation, oldest first. The webhook agent
	// keeps its own memory keyed by SessionID and ignores it.
	History []model.Message
}

// Generator produces an answer for a prompt. The output is opaque text:
// it may be prose or a serialized quiz payload, the renderer decides.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// WebhookGenerator delegates generation to the external agent webhook.
type WebhookGenerator struct {
	baseURL  string
	style    string
	platform string
	client   *http.Client
}

func NewWebhookGenerator(baseURL, style, platform string) *WebhookGenerator {
	return &WebhookGenerator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		style:    style,
		platform: strings.ToLower(platform),
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

func (g *WebhookGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	payload := map[string]any{
		"chatInput":   req.Input,
		"sessionId":   req.SessionID,
		"action":      "sendMessage",
		"model":       req.Model,
		"maxTokens":   req.MaxTokens,
		"temperature": req.Temperature,
		"topK":        req.TopK,
		"topP":        req.TopP,
		"document":    req.Document,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal webhook payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", g.baseURL, g.style, g.platform)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: webhook returned status %d", model.ErrUpstream, resp.StatusCode)
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode webhook response: %v", model.ErrUpstream, err)
	}

	answer := StripCodeFences(out.Output)
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty output", model.ErrUpstream)
	}
	return answer, nil
}

var jsonFenceRe = regexp.MustCompile("```json\n?")

// StripCodeFences removes the ```json fences some generators wrap quiz
// payloads in, so the stored text parses as plain JSON.
func StripCodeFences(s string) string {
	s = jsonFenceRe.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "```", "")
}

// GeminiGenerator talks to the Gemini API directly, bypassing the webhook.
type GeminiGenerator struct {
	apiKey string
}

func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{apiKey: apiKey}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("%w: init gemini client: %v", model.ErrUpstream, err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopK:            genai.Ptr(float32(req.TopK)),
		TopP:            genai.Ptr(float32(req.TopP)),
		MaxOutputTokens: int32(req.MaxTokens),
	}

	contents := historyContents(req.History, historyWindow)
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.Input}},
	})

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	var out string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			out += p.Text
		}
	}

	answer := StripCodeFences(out)
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty output", model.ErrUpstream)
	}
	return answer, nil
}

// historyWindow bounds how much prior conversation is replayed to the
// model per call.
const historyWindow = 6

// historyContents maps stored messages to Gemini contents, skipping empty
// entries and keeping only the most recent limit messages.
func historyContents(history []model.Message, limit int) []*genai.Content {
	var filtered []model.Message
	for _, m := range history {
		if len(m.Parts) > 0 && m.Parts[0].Text != "" {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	contents := make([]*genai.Content, 0, len(filtered))
	for _, m := range filtered {
		role := genai.RoleUser
		if m.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Parts[0].Text}},
		})
	}
	return contents
}
