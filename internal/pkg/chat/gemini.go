package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiProvider struct {
	models contentGenerator
	model  string
}

func NewGemini(ctx context.Context, cfg Config) (Provider, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiProvider(client.Models, cfg.Model), nil
}

func newGeminiProvider(models contentGenerator, model string) *geminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiProvider{models: models, model: model}
}

func (p *geminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt(), genai.RoleUser)},
		generationConfig(req.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	if resp == nil {
		return "", errors.New("received empty response from gemini")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("received empty response from gemini")
	}
	return text, nil
}

func (p *geminiProvider) Name() entity.TextPlatform {
	return entity.TextGemini
}

func generationConfig(temperature float32) *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	safety := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		TopP:            genai.Ptr[float32](1),
		TopK:            genai.Ptr[float32](1),
		MaxOutputTokens: maxOutputTokens,
		SafetySettings:  safety,
	}
}
