// Package parser extracts the meme caption and the image prompt from a chat model reply.
//
// The reply is expected to carry two labelled fields in order:
//
//	Meme Text: "caption, quoted or not"
//	Image Prompt: prompt text until the end of the reply
package parser

import (
	"strings"

	"github.com/hunny44/memegeneratorAI/internal/entity"
)

const (
	CaptionLabel = "Meme Text:"
	PromptLabel  = "Image Prompt:"
)

// Parse returns ok == false when either label is missing or the labels are out of order.
func Parse(text string) (entity.ParsedMeme, bool) {
	captionStart := strings.Index(text, CaptionLabel)
	if captionStart < 0 {
		return entity.ParsedMeme{}, false
	}
	afterCaption := text[captionStart+len(CaptionLabel):]

	promptStart := strings.Index(afterCaption, PromptLabel)
	if promptStart < 0 {
		return entity.ParsedMeme{}, false
	}

	caption := unquote(strings.TrimSpace(afterCaption[:promptStart]))

	prompt := afterCaption[promptStart+len(PromptLabel):]
	prompt = strings.TrimLeft(prompt, " \t")
	prompt = strings.TrimSuffix(prompt, "\n")
	prompt = strings.TrimSuffix(prompt, "\r")

	return entity.ParsedMeme{
		CaptionText: caption,
		ImagePrompt: prompt,
	}, true
}

// unquote strips one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
