package llm

import (
	"context"
	"fmt"

	"haven-planner/internal/config"
	"haven-planner/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewFromConfig builds the generator selected by cfg.StoryProvider.
// It returns nil, nil in local-only mode or when no provider is configured.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if cfg.LocalOnly {
		return nil, nil
	}
	switch cfg.StoryProvider {
	case "":
		return nil, nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown story provider %q", cfg.StoryProvider)
	}
}
