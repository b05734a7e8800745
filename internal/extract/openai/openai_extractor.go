// Package openai implements field extraction against OpenAI-compatible chat
// completion APIs. The same client serves both api.openai.com and Groq's
// compatible endpoint; only the endpoint and default models differ.
package openai

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
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
	groqAPIURL   = "https://api.groq.com/openai/v1/chat/completions"
)

func init() {
	extract.RegisterProvider("openai", func(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error) {
		return NewExtractor("openai", cfg, openaiAPIURL, "gpt-4o", "gpt-4o-mini"), nil
	})
	extract.RegisterProvider("groq", func(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error) {
		return NewExtractor("groq", cfg, groqAPIURL,
			"meta-llama/llama-4-scout-17b-16e-instruct", "llama-3.3-70b-versatile"), nil
	})
}

// Extractor implements port.FieldExtractor using an OpenAI-compatible Chat
// Completions API.
type Extractor struct {
	provider    string
	apiKey      string
	visionModel string
	textModel   string
	endpoint    string
	client      *http.Client
}

// NewExtractor creates an Extractor for the named provider, filling in the
// provider's default endpoint and models where the config leaves them blank.
func NewExtractor(provider string, cfg *config.ExtractProviderConfig, defaultURL, defaultVision, defaultText string) *Extractor {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultURL
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = defaultVision
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = defaultText
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		provider:    provider,
		apiKey:      cfg.APIKey,
		visionModel: visionModel,
		textModel:   textModel,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, rep domain.Representation) (*domain.ExtractedFields, error) {
	model, content, err := buildMessageContent(rep, e.visionModel, e.textModel)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature":           0.1,
		"max_completion_tokens": 1024,
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s API: %w", e.provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("%s API error (status %d): %s", e.provider, resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError(e.provider, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// buildMessageContent picks the model and builds the message content for the
// populated representation variant.
func buildMessageContent(rep domain.Representation, visionModel, textModel string) (string, interface{}, error) {
	switch {
	case rep.Image != nil:
		dataURI := fmt.Sprintf("data:%s;base64,%s",
			rep.Image.MediaType, base64.StdEncoding.EncodeToString(rep.Image.Bytes))
		content := []map[string]interface{}{
			{
				"type": "text",
				"text": extract.BuildInvoicePrompt(),
			},
			{
				"type": "image_url",
				"image_url": map[string]interface{}{
					"url": dataURI,
				},
			},
		}
		return visionModel, content, nil
	case rep.Text != nil:
		return textModel, extract.TextPrompt(rep.Text.RowText), nil
	default:
		return "", nil, fmt.Errorf("representation has no payload")
	}
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (*domain.ExtractedFields, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length)")
	}
	return extract.DecodeFields(resp.Choices[0].Message.Content)
}
