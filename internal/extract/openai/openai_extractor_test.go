package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invodex/internal/config"
	"invodex/internal/domain"
	"invodex/internal/extract"
	openai "invodex/internal/extract/openai"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	cfg := &config.ExtractProviderConfig{
		Provider:    "groq",
		APIKey:      "test-groq-key",
		Endpoint:    serverURL,
		TimeoutSecs: 30,
	}
	return openai.NewExtractor("groq", cfg, serverURL,
		"meta-llama/llama-4-scout-17b-16e-instruct", "llama-3.3-70b-versatile")
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func imageRep() domain.Representation {
	return domain.Representation{
		Image: &domain.ImagePayload{Bytes: []byte("fake-png-bytes"), MediaType: "image/png"},
	}
}

func textRep(rowText string) domain.Representation {
	return domain.Representation{Text: &domain.TextPayload{RowText: rowText}}
}

func TestExtract_Image_Success(t *testing.T) {
	llmJSON := `{"invoice_number":"INV-001","vendor_name":"Acme Corp","invoice_date":"2024-03-15","pre_tax_amount":1000,"tax_amount":180,"total_amount":1180,"payment_status":"Paid"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-groq-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", reqBody["model"])
		assert.Equal(t, 0.1, reqBody["temperature"])

		rf := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", rf["type"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		content := msg["content"].([]interface{})
		require.Len(t, content, 2)

		textBlock := content[0].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.Contains(t, textBlock["text"], "invoice_number")

		imgBlock := content[1].(map[string]interface{})
		assert.Equal(t, "image_url", imgBlock["type"])
		url := imgBlock["image_url"].(map[string]interface{})["url"].(string)
		assert.Contains(t, url, "data:image/png;base64,")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	fields, err := e.Extract(context.Background(), imageRep())
	require.NoError(t, err)
	assert.Equal(t, "INV-001", fields.InvoiceNumber)
	assert.Equal(t, "Acme Corp", fields.VendorName)
	assert.Equal(t, 1180.0, fields.TotalAmount)
}

func TestExtract_Text_UsesTextModel(t *testing.T) {
	llmJSON := `{"invoice_number":"ROW-1"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "llama-3.3-70b-versatile", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		msg := messages[0].(map[string]interface{})
		// Text representations send a plain string prompt, not content blocks.
		prompt, ok := msg["content"].(string)
		require.True(t, ok)
		assert.Contains(t, prompt, "Invoice row data:")
		assert.Contains(t, prompt, "Vendor: Acme Corp")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	fields, err := e.Extract(context.Background(), textRep("Vendor: Acme Corp\nTotal: 99"))
	require.NoError(t, err)
	assert.Equal(t, "ROW-1", fields.InvoiceNumber)
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), imageRep())
	require.Error(t, err)

	var rlErr *extract.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "groq", rlErr.Provider)
	assert.Equal(t, float64(30), rlErr.RetryAfter.Seconds())
}

func TestExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), imageRep())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	var rlErr *extract.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestExtract_TruncatedOutput(t *testing.T) {
	resp := successResponse(`{"invoice_number":"INV`)
	resp["choices"].([]map[string]interface{})[0]["finish_reason"] = "length"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), imageRep())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestExtract_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), imageRep())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestExtract_NonJSONContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("Sure! Here are the fields you asked for."))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), imageRep())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON object")
}

func TestExtract_EmptyRepresentation(t *testing.T) {
	e := newTestExtractor("http://unused.invalid")
	_, err := e.Extract(context.Background(), domain.Representation{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload")
}
