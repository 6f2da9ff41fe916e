// Package detector is the adapter over interchangeable AI-text-detection
// providers. All providers satisfy the same Detect contract and are
// selected by a string key supplied per batch.
package detector

import (
	"context"

	"go.uber.org/zap"
)

// Labels attached to detection results.
const (
	LabelAIGenerated = "ai-generated"
	LabelHuman       = "human-written"
)

// Result is the outcome of one detection invocation.
type Result struct {
	IsAI       bool                   `json:"is_ai"`
	Score      float64                `json:"score"`
	Confidence float64                `json:"confidence"`
	Label      string                 `json:"label"`
	Provider   string                 `json:"provider"`
	Details    map[string]interface{} `json:"details"`
}

// Provider is one AI-text-detection backend. Detect classifies text
// against the caller-supplied threshold; the baseline contract is
// IsAI == (Score >= threshold), though a provider may override it with its
// own decision (the remote provider trusts the upstream verdict).
type Provider interface {
	Name() string
	Detect(ctx context.Context, text string, threshold float64) (*Result, error)
	Health(ctx context.Context) error
}

// Registry holds the configured providers and resolves the per-batch
// provider key. Unknown keys fall back to the default provider so a stale
// batch row can still be processed.
type Registry struct {
	providers   map[string]Provider
	defaultName string
	logger      *zap.Logger
}

func NewRegistry(defaultName string, logger *zap.Logger, providers ...Provider) *Registry {
	r := &Registry{
		providers:   make(map[string]Provider, len(providers)),
		defaultName: defaultName,
		logger:      logger,
	}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get resolves a provider by key, falling back to the default.
func (r *Registry) Get(name string) Provider {
	if p, ok := r.providers[name]; ok {
		return p
	}
	r.logger.Warn("Unknown detection provider, falling back to default",
		zap.String("requested", name), zap.String("default", r.defaultName))
	return r.providers[r.defaultName]
}

// Health probes every registered provider and reports availability by name.
func (r *Registry) Health(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(r.providers))
	for name, p := range r.providers {
		out[name] = p.Health(ctx) == nil
	}
	return out
}

func labelFor(isAI bool) string {
	if isAI {
		return LabelAIGenerated
	}
	return LabelHuman
}
