package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/sashabaranov/go-openai"
)

const defaultTimeout = 2 * time.Minute

type openAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg Config) Provider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: defaultTimeout,
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &openAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *openAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Topic},
		},
		Temperature: req.Temperature,
		TopP:        1,
		MaxTokens:   maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("received empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) Name() entity.TextPlatform {
	return entity.TextOpenAI
}
