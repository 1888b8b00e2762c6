package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

// TestGeminiComplete тестирует отправку одного объединенного запроса
func TestGeminiComplete(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("Meme Text: hi\nImage Prompt: a dog")}
	p := newGeminiProvider(gen, "")

	out, err := p.Complete(context.Background(), Request{System: "SYS", Topic: "cats", Temperature: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "Meme Text: hi\nImage Prompt: a dog", out)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, DefaultGeminiModel, gen.model)
	require.Len(t, gen.contents, 1)
	require.Len(t, gen.contents[0].Parts, 1)
	assert.Equal(t, "SYS\n\nUser request: cats", gen.contents[0].Parts[0].Text)

	require.NotNil(t, gen.config)
	assert.Equal(t, float32(0.5), *gen.config.Temperature)
	assert.Equal(t, float32(1), *gen.config.TopP)
	assert.Equal(t, float32(1), *gen.config.TopK)
	assert.Equal(t, int32(2048), gen.config.MaxOutputTokens)
	require.Len(t, gen.config.SafetySettings, 4)
	for _, s := range gen.config.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}
}

func TestGeminiCompleteErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"nil response", &fakeGenerator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newGeminiProvider(tt.gen, "gemini-test")
			_, err := p.Complete(context.Background(), Request{Topic: "x"})
			assert.Error(t, err)
		})
	}
}

// TestOpenAIComplete тестирует запрос к OpenAI-совместимому API
func TestOpenAIComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float32 `json:"temperature"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Meme Text: yo\nImage Prompt: a frog"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL})
	out, err := p.Complete(context.Background(), Request{System: "SYS", Topic: "frogs", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Meme Text: yo\nImage Prompt: a frog", out)

	assert.Equal(t, DefaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "SYS", got.Messages[0].Content)
	assert.Equal(t, "frogs", got.Messages[1].Content)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), Request{Topic: "x"})
	assert.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	_, err := New(context.Background(), Config{Platform: entity.TextGemini})
	assert.ErrorIs(t, err, entity.ErrMissingCredential)

	_, err = New(context.Background(), Config{Platform: "bard", APIKey: "k"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	p, err := New(context.Background(), Config{Platform: entity.TextOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, entity.TextOpenAI, p.Name())
}
