package chat

import (
	"context"
	"fmt"

	"github.com/hunny44/memegeneratorAI/internal/entity"
)

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	maxOutputTokens    = 2048
)

type Request struct {
	System      string
	Topic       string
	Temperature float32
}

// Prompt folds the system instructions and the user topic into the single message sent to the model.
func (r Request) Prompt() string {
	return r.System + "\n\nUser request: " + r.Topic
}

type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() entity.TextPlatform
}

type Config struct {
	Platform entity.TextPlatform
	APIKey   string
	Model    string
	BaseURL  string // пустая строка - адрес по умолчанию
}

// New builds a provider for one generation run. The returned value is never reconfigured.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key is not set", entity.ErrMissingCredential, cfg.Platform)
	}

	switch cfg.Platform {
	case entity.TextGemini, "":
		return NewGemini(ctx, cfg)
	case entity.TextOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown text platform %q", entity.ErrInvalidInput, cfg.Platform)
	}
}
