package extract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"invodex/internal/config"
	"invodex/internal/domain"
	"invodex/internal/extract"
	"invodex/internal/port"

	_ "invodex/internal/extract/claude"
	_ "invodex/internal/extract/openai"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	extract.RegisterProvider("test-provider", func(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error) {
		return &stubExtractor{model: cfg.VisionModel}, nil
	})

	e, err := extract.NewExtractor(&config.ExtractProviderConfig{
		Provider:    "test-provider",
		VisionModel: "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, e)
}

func TestFactory_BuiltinProviders(t *testing.T) {
	for _, provider := range []string{"groq", "openai", "claude"} {
		e, err := extract.NewExtractor(&config.ExtractProviderConfig{Provider: provider, APIKey: "k"})
		assert.NoError(t, err, provider)
		assert.NotNil(t, e, provider)
	}
}

func TestFactory_UnknownProvider(t *testing.T) {
	e, err := extract.NewExtractor(&config.ExtractProviderConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, e)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction provider")
}

// stubExtractor is a minimal FieldExtractor for testing the factory.
type stubExtractor struct {
	model string
}

func (s *stubExtractor) Extract(_ context.Context, _ domain.Representation) (*domain.ExtractedFields, error) {
	return &domain.ExtractedFields{VendorName: s.model}, nil
}
