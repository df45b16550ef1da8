package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Analyzer is the optional external semantic-analysis collaborator. An
// implementation may use any backend; callers treat every error as a
// signal to fall back to the rule-based profile.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Profile, error)
}

// HTTPAnalyzer calls a remote analysis service exposing a single JSON
// endpoint. The request carries the raw narration; the response mirrors
// the Profile shape.
type HTTPAnalyzer struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPAnalyzer constructs an analyzer client with a short caller-side
// timeout so a slow service never stalls a composition run.
func NewHTTPAnalyzer(baseURL, apiKey string, opts ...func(*HTTPAnalyzer)) *HTTPAnalyzer {
	a := &HTTPAnalyzer{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithHTTPClient overrides the internal HTTP client (useful for tests).
func WithHTTPClient(hc *http.Client) func(*HTTPAnalyzer) {
	return func(a *HTTPAnalyzer) { a.httpClient = hc }
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Emotion   string   `json:"emotion"`
	Intensity float64  `json:"intensity"`
	Pace      string   `json:"pace"`
	Keywords  []string `json:"keywords"`
	Mood      string   `json:"visual_mood"`
}

// Analyze posts the narration to the analysis service and maps the result
// onto a Profile. Any transport, status, or decode problem is returned as
// an error for the caller's fallback path.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) (Profile, error) {
	if a.baseURL == "" {
		return Profile{}, fmt.Errorf("analyzer: no endpoint configured")
	}

	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return Profile{}, fmt.Errorf("analyzer: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return Profile{}, fmt.Errorf("analyzer: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("analyzer: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Profile{}, fmt.Errorf("analyzer: api error %d: %s", resp.StatusCode, string(data))
	}

	var payload analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Profile{}, fmt.Errorf("analyzer: decode response: %w", err)
	}

	return Profile{
		Energy:      clampEnergy(payload.Intensity),
		Emotion:     parseEmotion(payload.Emotion),
		Pace:        parsePace(payload.Pace),
		VisualStyle: payload.Mood,
		KeywordHits: payload.Keywords,
	}, nil
}

func parseEmotion(s string) Emotion {
	switch Emotion(s) {
	case EmotionExcitement, EmotionCuriosity, EmotionCalm, EmotionFocus,
		EmotionInspired, EmotionSatisfied, EmotionMotivated:
		return Emotion(s)
	default:
		return EmotionNeutral
	}
}

func parsePace(s string) Pace {
	switch Pace(s) {
	case PaceSlow, PaceFast:
		return Pace(s)
	default:
		return PaceMedium
	}
}
