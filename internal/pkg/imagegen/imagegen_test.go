package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngStub = []byte("\x89PNG\r\n\x1a\nstub")

// TestClipDropGenerate тестирует multipart-запрос к ClipDrop
func TestClipDropGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "clip-key", r.Header.Get("x-api-key"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "a cat on a keyboard", r.FormValue("prompt"))
		w.Write(pngStub)
	}))
	defer srv.Close()

	p, err := New(Config{Platform: entity.PlatformClipDrop, APIKey: "clip-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, entity.PlatformClipDrop, p.Platform())

	data, err := p.Generate(context.Background(), "a cat on a keyboard")
	require.NoError(t, err)
	assert.Equal(t, pngStub, data)
}

// TestStabilityGenerate тестирует JSON-запрос к Stability
func TestStabilityGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generation/"+DefaultStabilityModel+"/text-to-image", r.URL.Path)
		assert.Equal(t, "Bearer stab-key", r.Header.Get("Authorization"))
		assert.Equal(t, "image/png", r.Header.Get("Accept"))

		var body stabilityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.TextPrompts, 1)
		assert.Equal(t, "a dog", body.TextPrompts[0].Text)
		assert.Equal(t, 30, body.Steps)
		assert.Equal(t, 7.0, body.CfgScale)
		assert.Equal(t, 1024, body.Width)
		assert.Equal(t, 1024, body.Height)
		assert.Equal(t, "K_DPMPP_2M", body.Sampler)

		w.Write(pngStub)
	}))
	defer srv.Close()

	p, err := New(Config{Platform: entity.PlatformStability, APIKey: "stab-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	data, err := p.Generate(context.Background(), "a dog")
	require.NoError(t, err)
	assert.Equal(t, pngStub, data)
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"payment required", http.StatusPaymentRequired},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			for _, platform := range entity.ValidImagePlatforms {
				p, err := New(Config{Platform: platform, APIKey: "k", BaseURL: srv.URL})
				require.NoError(t, err)

				_, err = p.Generate(context.Background(), "prompt")
				require.ErrorIs(t, err, entity.ErrImageProviderFailure)
				assert.Contains(t, err.Error(), strconv.Itoa(tt.status))
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Platform: "dalle", APIKey: "k"})
	assert.ErrorIs(t, err, entity.ErrInvalidProviderSelection)

	_, err = New(Config{Platform: entity.PlatformStability})
	assert.ErrorIs(t, err, entity.ErrMissingCredential)
}
