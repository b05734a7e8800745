package extract

import (
	"fmt"

	"invodex/internal/config"
	"invodex/internal/port"
)

// ProviderFactory is a function that creates a FieldExtractor from a
// provider config.
type ProviderFactory func(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error)

// registry of extraction provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a FieldExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ExtractProviderConfig) (port.FieldExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
