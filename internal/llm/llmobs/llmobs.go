package llmobs

import (
	"context"

	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/trace"
)

// observableGenerator wraps a Generator with observability (logging & tracing)
type observableGenerator struct {
	provider  string
	generator interfaces.Generator
}

// Compile-time interface check
var _ interfaces.Generator = (*observableGenerator)(nil)

// Wrap wraps a generator with observability middleware
func Wrap(provider string, generator interfaces.Generator) interfaces.Generator {
	return &observableGenerator{provider: provider, generator: generator}
}

func (og *observableGenerator) Generate(ctx context.Context, prompt string, opts interfaces.GenerateOptions) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Generate")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting generation",
		"provider", og.provider,
		"prompt_chars", len(prompt),
		"max_tokens", opts.MaxTokens,
	)

	out, err := og.generator.Generate(ctx, prompt, opts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Generation failed", err, "provider", og.provider)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Generation received", "provider", og.provider, "output_chars", len(out))
	return out, nil
}
