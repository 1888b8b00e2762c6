package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/hunny44/memegeneratorAI/internal/entity"
)

const clipDropURL = "https://clipdrop-api.co/text-to-image/v1"

type clipDrop struct {
	apiKey string
	url    string
	client *http.Client
}

func newClipDrop(cfg Config) *clipDrop {
	url := cfg.BaseURL
	if url == "" {
		url = clipDropURL
	}
	return &clipDrop{apiKey: cfg.APIKey, url: url, client: cfg.Client}
}

func (c *clipDrop) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	return do(c.client, req, entity.PlatformClipDrop)
}

func (c *clipDrop) Platform() entity.ImagePlatform {
	return entity.PlatformClipDrop
}
