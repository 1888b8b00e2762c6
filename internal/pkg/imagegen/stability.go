package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hunny44/memegeneratorAI/internal/entity"
)

const (
	stabilityURL          = "https://api.stability.ai"
	DefaultStabilityModel = "stable-diffusion-xl-1024-v0-9"
)

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    float64      `json:"cfg_scale"`
	Steps       int          `json:"steps"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Samples     int          `json:"samples"`
	Sampler     string       `json:"sampler"`
}

type stability struct {
	apiKey string
	url    string
	client *http.Client
}

func newStability(cfg Config) *stability {
	base := cfg.BaseURL
	if base == "" {
		base = stabilityURL
	}
	engine := cfg.Engine
	if engine == "" {
		engine = DefaultStabilityModel
	}
	return &stability{
		apiKey: cfg.APIKey,
		url:    strings.TrimRight(base, "/") + "/v1/generation/" + engine + "/text-to-image",
		client: cfg.Client,
	}
}

func (s *stability) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(stabilityRequest{
		TextPrompts: []textPrompt{{Text: prompt, Weight: 1}},
		CfgScale:    7,
		Steps:       30,
		Width:       1024,
		Height:      1024,
		Samples:     1,
		Sampler:     "K_DPMPP_2M",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	return do(s.client, req, entity.PlatformStability)
}

func (s *stability) Platform() entity.ImagePlatform {
	return entity.PlatformStability
}
