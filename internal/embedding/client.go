package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// maxInputChars is the provider limit for a single embedding call.
	// Longer input is truncated to a deterministic prefix before submission.
	maxInputChars = 25000

	// emptyInputPlaceholder replaces empty or whitespace-only input so the
	// request never degenerates to an empty string.
	emptyInputPlaceholder = "general"

	defaultBaseURL = "https://api.openai.com/v1"
)

// Client turns text into a fixed-dimension vector via an OpenAI-compatible
// embeddings endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, model string, dimensions int, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the provider endpoint, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Embed converts text into a vector. On any transport or provider error it
// returns a zero-length vector rather than an error: callers treat that as
// "no embedding available" and skip similarity scoring, never crashing a
// batch. Retry policy belongs to callers; this client makes one attempt.
func (c *Client) Embed(ctx context.Context, text string) []float32 {
	input := trimToPlaceholder(text)
	if len(input) > maxInputChars {
		input = input[:maxInputChars]
	}

	requestBody := map[string]interface{}{
		"model":      c.model,
		"input":      input,
		"dimensions": c.dimensions,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		c.logger.Error("failed to marshal embedding request", zap.Error(err))
		return []float32{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		c.logger.Error("failed to build embedding request", zap.Error(err))
		return []float32{}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("embedding request failed", zap.Error(err))
		return []float32{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("embedding API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return []float32{}
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("failed to decode embedding response", zap.Error(err))
		return []float32{}
	}
	if len(result.Data) == 0 {
		c.logger.Warn("no embedding returned")
		return []float32{}
	}

	return result.Data[0].Embedding
}

func trimToPlaceholder(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return emptyInputPlaceholder
	}
	return trimmed
}
