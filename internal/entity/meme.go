package entity

import (
	"strings"
	"time"
)

type ImagePlatform string

const (
	PlatformClipDrop  ImagePlatform = "clipdrop"
	PlatformStability ImagePlatform = "stability"
)

// ValidImagePlatforms lists platforms the orchestrator knows how to call.
var ValidImagePlatforms = []ImagePlatform{PlatformClipDrop, PlatformStability}

func ParseImagePlatform(s string) (ImagePlatform, bool) {
	p := ImagePlatform(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidImagePlatforms {
		if p == valid {
			return p, true
		}
	}
	return p, false
}

type TextPlatform string

const (
	TextGemini TextPlatform = "gemini"
	TextOpenAI TextPlatform = "openai"
)

const DefaultTopic = "anything"

type GenerationRequest struct {
	Topic               string        `json:"topic"`
	Count               int           `json:"count"`
	BasicInstructions   string        `json:"basic_instructions,omitempty"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`
	Temperature         float32       `json:"temperature"`
	ImagePlatform       ImagePlatform `json:"image_platform"`
	NoFileSave          bool          `json:"no_file_save"`
}

type ParsedMeme struct {
	CaptionText string `json:"caption_text"`
	ImagePrompt string `json:"image_prompt"`
}

type MemeResult struct {
	ID          string        `json:"id"`
	CaptionText string        `json:"caption_text"`
	ImagePrompt string        `json:"image_prompt"`
	FilePath    string        `json:"file_path,omitempty"`
	FileName    string        `json:"file_name"`
	Topic       string        `json:"topic"`
	Platform    ImagePlatform `json:"platform"`
	CreatedAt   time.Time     `json:"created_at"`
	ImageBytes  []byte        `json:"-"`
}

// GeneratedEvent is published once per meme, without the image payload.
type GeneratedEvent struct {
	MemeID      string        `json:"meme_id"`
	Topic       string        `json:"topic"`
	CaptionText string        `json:"caption_text"`
	ImagePrompt string        `json:"image_prompt"`
	Platform    ImagePlatform `json:"platform"`
	FileName    string        `json:"file_name"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewGeneratedEvent(m MemeResult) GeneratedEvent {
	return GeneratedEvent{
		MemeID:      m.ID,
		Topic:       m.Topic,
		CaptionText: m.CaptionText,
		ImagePrompt: m.ImagePrompt,
		Platform:    m.Platform,
		FileName:    m.FileName,
		CreatedAt:   m.CreatedAt,
	}
}

type GenerateMemesRequest struct {
	Topic               string  `json:"topic"`
	Count               int     `json:"count"`
	BasicInstructions   string  `json:"basic_instructions"`
	SpecialInstructions string  `json:"special_instructions"`
	Temperature         float32 `json:"temperature"`
	ImagePlatform       string  `json:"image_platform"`
	NoFileSave          bool    `json:"no_file_save"`
}

type QuickGenerateRequest struct {
	Prompt string `json:"prompt"`
}

type MemeResponse struct {
	ID          string    `json:"id"`
	CaptionText string    `json:"caption_text"`
	ImagePrompt string    `json:"image_prompt"`
	FileName    string    `json:"file_name"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}
