// Package claude implements field extraction using the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invodex/internal/config"
	"invodex/internal/domain"
	"invodex/internal/extract"
	"invodex/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

func init() {
	extract.RegisterProvider("claude", func(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.FieldExtractor using the Anthropic Messages API.
// Claude models are multimodal, so the same model serves both representation
// variants unless the config says otherwise.
type Extractor struct {
	apiKey      string
	visionModel string
	textModel   string
	endpoint    string
	client      *http.Client
}

// NewExtractor creates a Claude-based extractor from a provider config.
func NewExtractor(cfg *config.ExtractProviderConfig) *Extractor {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = defaultModel
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = visionModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:      cfg.APIKey,
		visionModel: visionModel,
		textModel:   textModel,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, rep domain.Representation) (*domain.ExtractedFields, error) {
	model, blocks, err := buildContentBlocks(rep, e.visionModel, e.textModel)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"max_tokens":  1024,
		"temperature": 0.1,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": blocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

func buildContentBlocks(rep domain.Representation, visionModel, textModel string) (string, []map[string]interface{}, error) {
	switch {
	case rep.Image != nil:
		blocks := []map[string]interface{}{
			{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": rep.Image.MediaType,
					"data":       base64.StdEncoding.EncodeToString(rep.Image.Bytes),
				},
			},
			{
				"type": "text",
				"text": extract.BuildInvoicePrompt(),
			},
		}
		return visionModel, blocks, nil
	case rep.Text != nil:
		blocks := []map[string]interface{}{
			{
				"type": "text",
				"text": extract.TextPrompt(rep.Text.RowText),
			},
		}
		return textModel, blocks, nil
	default:
		return "", nil, fmt.Errorf("representation has no payload")
	}
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (*domain.ExtractedFields, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens)")
	}
	return extract.DecodeFields(resp.Content[0].Text)
}
