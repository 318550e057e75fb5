// Package ai defines the text-generation contract shared by the Gemini and
// Ollama providers and the explicit outcome tag callers branch on.
package ai

import "context"

// Generator produces free text from a prompt. Implementations make a single
// attempt; retry policy is the caller's concern.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// Outcome tags where a piece of generated content came from. Callers branch
// on the tag instead of guessing from the content itself.
type Outcome string

const (
	// OutcomeGenerated means an AI provider produced the content.
	OutcomeGenerated Outcome = "generated"
	// OutcomeFallback means every provider failed and a static template or
	// heuristic produced the content instead.
	OutcomeFallback Outcome = "fallback"
)

// Result carries generated text together with its provenance.
type Result struct {
	Text     string
	Outcome  Outcome
	Provider string
	// Err records the provider failure that forced a fallback. It is nil
	// when Outcome is OutcomeGenerated.
	Err error
}
