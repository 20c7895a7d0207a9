// Package gemini provides a minimal client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIEndpoint is the base URL for the generative text API.
const APIEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Client holds configuration for interacting with the generative text API.
type Client struct {
	// APIKey is the API key used for authentication.
	APIKey string
	// Model specifies the name of the model to use for generation.
	Model string
	// BaseURL overrides APIEndpoint, mainly for tests.
	BaseURL string
	// HTTPClient is an optional HTTP client to use for requests.
	HTTPClient *http.Client
}

// New creates a client for the given model.
func New(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GenerateContentParams is the request body for the GenerateContent API.
type GenerateContentParams struct {
	Contents []*Content `json:"contents"`
}

// Content represents a piece of text content with a list of Part objects.
type Content struct {
	Parts []*Part `json:"parts"`
}

// Part is a textual element within a Content object.
type Part struct {
	Text string `json:"text"`
}

// GenerateContentResponse is the response from the GenerateContent API.
type GenerateContentResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

// Candidate is one generated text alternative.
type Candidate struct {
	Content *Content `json:"content"`
}

// GenerateText sends a single-prompt generation request and returns the
// first candidate's concatenated text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	params := GenerateContentParams{
		Contents: []*Content{{Parts: []*Part{{Text: prompt}}}},
	}
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	base := c.BaseURL
	if base == "" {
		base = APIEndpoint
	}
	url := base + "/models/" + c.Model + ":generateContent"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, msg)
	}

	var out GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}

	var text string
	for _, p := range out.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", fmt.Errorf("gemini: empty candidate text")
	}
	return text, nil
}
