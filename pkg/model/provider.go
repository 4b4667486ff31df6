package model

import "context"

// Provider constructs concrete Model implementations for a specific backend.
type Provider interface {
	Name() string
	NewModel(ctx context.Context, cfg ModelConfig) (Model, error)
}

// ModelConfig captures the settings required to build a Model instance.
// Extra holds provider-specific tweaks (max_tokens, temperature, system
// prompt) without bloating the common surface.
type ModelConfig struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Headers  map[string]string
	Extra    map[string]any
}
