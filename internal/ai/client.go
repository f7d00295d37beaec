// Package ai integrates hosted LLM providers for content tooling (batch
// content generation, image alt text). Providers are gated on API-key
// presence; everything here must degrade to a non-AI default when no key is
// configured.
package ai

import "context"

// Generator produces a text completion for a prompt.
type Generator interface {
	// Enabled reports whether the provider is configured with credentials.
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pick returns the first enabled generator, or nil when none is configured.
func Pick(generators ...Generator) Generator {
	for _, g := range generators {
		if g != nil && g.Enabled() {
			return g
		}
	}
	return nil
}
