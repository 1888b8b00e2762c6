package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout  = 2 * time.Minute
	maxErrorBodyLen = 512
)

// Provider turns an image prompt into encoded image bytes.
type Provider interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
	Platform() entity.ImagePlatform
}

type Config struct {
	Platform entity.ImagePlatform
	APIKey   string
	BaseURL  string // пустая строка - адрес по умолчанию
	Engine   string // только для stability
	Client   *http.Client
}

func New(cfg Config) (Provider, error) {
	if _, ok := entity.ParseImagePlatform(string(cfg.Platform)); !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidProviderSelection, cfg.Platform)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key is not set", entity.ErrMissingCredential, cfg.Platform)
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: defaultTimeout}
	}

	switch cfg.Platform {
	case entity.PlatformStability:
		return newStability(cfg), nil
	default:
		return newClipDrop(cfg), nil
	}
}

// do executes the request and returns the body of a 2xx response.
func do(client *http.Client, req *http.Request, platform entity.ImagePlatform) ([]byte, error) {
	log := logrus.WithFields(logrus.Fields{
		"platform": platform,
		"url":      req.URL.String(),
	})

	log.Debug("Sending image generation request")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", entity.ErrImageProviderFailure, platform, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}
		log.WithField("status_code", resp.StatusCode).Error("Image provider returned non-OK status")
		return nil, fmt.Errorf("%w: %s returned status %d: %s", entity.ErrImageProviderFailure, platform, resp.StatusCode, string(body))
	}

	if readErr != nil {
		return nil, fmt.Errorf("%w: failed to read %s response body: %v", entity.ErrImageProviderFailure, platform, readErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty image", entity.ErrImageProviderFailure, platform)
	}

	log.WithField("bytes", len(body)).Debug("Image generation request succeeded")
	return body, nil
}
