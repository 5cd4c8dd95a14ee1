package recognizer

import (
	"fmt"

	"agriverify/internal/config"
	"agriverify/internal/port"
)

// ProviderFactory is a function that creates a TextRecognizer from a provider config.
type ProviderFactory func(cfg *config.OCRProviderConfig) (port.TextRecognizer, error)

// registry of recognition provider factories, populated explicitly via
// RegisterProvider during startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a recognition provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewRecognizer creates a TextRecognizer from a provider config using the
// registered factory.
func NewRecognizer(cfg *config.OCRProviderConfig) (port.TextRecognizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
