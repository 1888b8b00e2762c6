package service

import (
	"strings"

	"github.com/hunny44/memegeneratorAI/internal/entity"
)

// Credentials are read once at startup and passed by value into every run.
type Credentials struct {
	Gemini    string
	OpenAI    string
	ClipDrop  string
	Stability string
}

func (c Credentials) Text(p entity.TextPlatform) string {
	if p == entity.TextOpenAI {
		return c.OpenAI
	}
	return c.Gemini
}

func (c Credentials) Image(p entity.ImagePlatform) string {
	switch p {
	case entity.PlatformClipDrop:
		return c.ClipDrop
	case entity.PlatformStability:
		return c.Stability
	}
	return ""
}

// Masked lists every key with all but the last 4 characters hidden.
func (c Credentials) Masked() map[string]string {
	return map[string]string{
		"gemini":    MaskKey(c.Gemini),
		"openai":    MaskKey(c.OpenAI),
		"clipdrop":  MaskKey(c.ClipDrop),
		"stability": MaskKey(c.Stability),
	}
}

func MaskKey(key string) string {
	if key == "" {
		return "Not found"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
