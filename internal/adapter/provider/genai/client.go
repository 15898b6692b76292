// Package genai calls the external generative-language API used for content
// classification and text generation.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/config"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Client talks to the generative API over HTTP. One instance serves both the
// moderation classifier and the /api/generate proxy.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from config. The timeout doubles as the moderation
// fail-closed bound: a slow classifier surfaces as an error, never as a pass.
func New(cfg config.GenAIConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "genai"),
	}
}

type generateRequest struct {
	Model    string `json:"model"`
	Contents string `json:"contents"`
	Config   struct {
		SystemInstruction string `json:"systemInstruction"`
	} `json:"config"`
}

type generateResponse struct {
	Text string `json:"text"`
}

const classifierInstruction = `You are a content moderator. Respond with JSON only, no prose: ` +
	`{"inappropriate": <bool>, "words": [<each inappropriate word>]}. ` +
	`Flag profanity, hate speech and harassment. An empty words list means the text is clean.`

// Classify asks the model whether the text is inappropriate. The model reply
// must be a single JSON object in the verdict shape and nothing else; a null
// reply, prose or trailing data is an error, not a clean verdict.
func (c *Client) Classify(ctx context.Context, text string) (*domain.Verdict, error) {
	raw, err := c.generate(ctx, text, classifierInstruction)
	if err != nil {
		return nil, err
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		c.log.ErrorContext(ctx, "classifier returned malformed verdict", slog.String("error", err.Error()))
		return nil, err
	}
	return verdict, nil
}

func parseVerdict(raw string) (*domain.Verdict, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var verdict *domain.Verdict
	if err := dec.Decode(&verdict); err != nil {
		return nil, fmt.Errorf("genai: decode verdict: %w", err)
	}
	if verdict == nil {
		return nil, errors.New("genai: decode verdict: null reply")
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, errors.New("genai: decode verdict: trailing data after verdict")
	}
	return verdict, nil
}

// Generate produces free-form text for the given prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, "")
}

func (c *Client) generate(ctx context.Context, contents, systemInstruction string) (string, error) {
	reqBody := generateRequest{
		Model:    c.model,
		Contents: contents,
	}
	reqBody.Config.SystemInstruction = systemInstruction

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("genai: encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/models/%s:generate", c.baseURL, url.PathEscape(c.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("genai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	c.log.DebugContext(ctx, "genai request", slog.String("model", c.model))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "genai request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("genai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genai: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("genai: read body: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("genai: decode json: %w", err)
	}
	return out.Text, nil
}
