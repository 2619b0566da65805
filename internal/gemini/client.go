// Package gemini implements the external classifier collaborator over the
// Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
	"github.com/saurabhbakolia/disaster-response-platform/internal/metrics"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	requestTimeout = 30 * time.Second
)

// Client calls the Gemini generateContent endpoint. It implements
// domain.Classifier.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a classifier client for the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// --- wire types ---

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateText runs a text-only prompt and returns the model's raw reply.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []part{{Text: prompt}})
}

// ClassifyImage submits a prompt plus an inline image and returns the
// model's raw free-text reply.
func (c *Client) ClassifyImage(ctx context.Context, prompt string, image domain.ImagePayload) (string, error) {
	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{
			MimeType: image.MimeType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}},
	}
	return c.generate(ctx, parts)
}

func (c *Client) generate(ctx context.Context, parts []part) (string, error) {
	start := time.Now()
	defer func() {
		metrics.ClassifierRequestDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.ExternalError("classifier request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.ExternalError("failed to read classifier response", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", errors.ExternalError("classifier quota exceeded", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.ExternalError(
			fmt.Sprintf("classifier returned status %d", resp.StatusCode),
			fmt.Errorf("%s", bytes.TrimSpace(respBody)),
		)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.ExternalError("failed to decode classifier response", err)
	}
	if parsed.Error != nil {
		return "", errors.ExternalError("classifier error", fmt.Errorf("%s: %s", parsed.Error.Status, parsed.Error.Message))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.ExternalError("classifier returned no candidates", nil)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
