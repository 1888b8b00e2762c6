package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantText   string
		wantPrompt string
	}{
		{
			name:       "quoted caption",
			input:      "Meme Text: \"Hello\"\nImage Prompt: a cat",
			wantText:   "Hello",
			wantPrompt: "a cat",
		},
		{
			name:       "unquoted caption with trailing spaces",
			input:      "Meme Text: When the build passes   \nImage Prompt: a developer cheering",
			wantText:   "When the build passes",
			wantPrompt: "a developer cheering",
		},
		{
			name:       "blank lines between labels",
			input:      "Meme Text: \"Monday again\"\n\n\n   Image Prompt: tired dog, photograph",
			wantText:   "Monday again",
			wantPrompt: "tired dog, photograph",
		},
		{
			name:       "preamble before labels",
			input:      "Sure! Here is your meme.\nMeme Text: \"Nope\"\nImage Prompt: a cat refusing a bath",
			wantText:   "Nope",
			wantPrompt: "a cat refusing a bath",
		},
		{
			name:       "prompt spans several lines",
			input:      "Meme Text: Hi\nImage Prompt: line one\nline two\n",
			wantText:   "Hi",
			wantPrompt: "line one\nline two",
		},
		{
			name:       "quotes only on one side are kept",
			input:      "Meme Text: \"Half quoted\nImage Prompt: x",
			wantText:   "\"Half quoted",
			wantPrompt: "x",
		},
		{
			name:       "inner quotes are kept",
			input:      "Meme Text: \"He said \"no\"\"\nImage Prompt: y",
			wantText:   "He said \"no\"",
			wantPrompt: "y",
		},
		{
			name:       "windows line endings",
			input:      "Meme Text: \"Hello\"\r\nImage Prompt: a cat\r\n",
			wantText:   "Hello",
			wantPrompt: "a cat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantText, got.CaptionText)
			assert.Equal(t, tt.wantPrompt, got.ImagePrompt)
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing caption label", input: "Image Prompt: a cat"},
		{name: "missing prompt label", input: "Meme Text: \"Hello\""},
		{name: "labels reversed", input: "Image Prompt: a cat\nMeme Text: \"Hello\""},
		{name: "lowercase labels", input: "meme text: hi\nimage prompt: cat"},
		{name: "free text", input: "I cannot help with that request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse(tt.input)
			assert.False(t, ok)
		})
	}
}

// Любая пара подписи и промпта без служебных меток должна разбираться обратно без потерь.
func TestParseRoundTripsGeneratedReplies(t *testing.T) {
	captions := []string{"Hello", "When it works on the first try", "42", "a, b; c!"}
	prompts := []string{"a cat", "photograph of a dog\nwearing a hat", "x"}

	for _, c := range captions {
		for _, p := range prompts {
			for _, quoted := range []bool{true, false} {
				caption := c
				if quoted {
					caption = `"` + c + `"`
				}
				reply := CaptionLabel + " " + caption + "\n" + PromptLabel + " " + p

				got, ok := Parse(reply)
				require.True(t, ok, reply)
				assert.Equal(t, c, got.CaptionText)
				assert.Equal(t, p, got.ImagePrompt)
				assert.False(t, strings.Contains(got.CaptionText, PromptLabel))
			}
		}
	}
}
