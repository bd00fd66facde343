package domain

import "context"

// GenerateResult is the raw text produced by the generation model.
type GenerateResult struct {
	Text string
	Done bool
}

// Generator is the hosted LLM the chat layer conditions on retrieved
// articles. The retrieval core itself never calls it.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*GenerateResult, error)
	Version() string
}
