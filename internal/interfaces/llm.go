package interfaces

import "context"

// GenerateOptions tunes a single text generation request.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float32
}

// Generator is a text generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
