// Package genai talks to a Gemini generateContent endpoint and extracts
// JSON payloads from free-form model output.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/tidwall/gjson"
)

// Completion is either text or empty; Empty is set when the model produced
// no usable text.
type Completion struct {
	Text  string
	Empty bool
}

type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{httpClient: httpClient, cfg: cfg}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (Completion, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(c.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Kept out of the URL so transport errors never carry the key.
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Completion{}, models.WrapError(models.ErrUpstreamUnavailable, "AI guide failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Completion{}, models.WrapError(models.ErrUpstreamUnavailable, "AI guide failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Completion{}, models.WrapError(models.ErrUpstreamUnavailable, "AI guide failed",
			fmt.Errorf("gemini returned status: %d", resp.StatusCode))
	}
	return ExtractCompletion(raw), nil
}

// ExtractCompletion joins the text parts of the first candidate.
func ExtractCompletion(body []byte) Completion {
	var sb strings.Builder
	for _, t := range gjson.GetBytes(body, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(t.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Completion{Empty: true}
	}
	return Completion{Text: text}
}

var (
	codeFence  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON finds a JSON document in model output: the whole text first,
// then a fenced code block, then the outermost {...} substring.
func ExtractJSON(text string) (json.RawMessage, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if m := codeFence.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := jsonObject.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		if c != "" && gjson.Valid(c) {
			return json.RawMessage(c), true
		}
	}
	return nil, false
}
