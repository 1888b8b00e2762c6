package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemeService struct {
	lastReq entity.GenerationRequest
	results []entity.MemeResult
	err     error
	memes   map[string]entity.MemeResult
}

func (f *fakeMemeService) Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.MemeResult, error) {
	f.lastReq = req
	return f.results, f.err
}

func (f *fakeMemeService) Normalize(req entity.GenerationRequest) (entity.GenerationRequest, error) {
	return req, nil
}

func (f *fakeMemeService) GetMeme(id string) (*entity.MemeResult, error) {
	m, ok := f.memes[id]
	if !ok {
		return nil, entity.ErrMemeNotFound
	}
	return &m, nil
}

func (f *fakeMemeService) GetMemeImage(id string) ([]byte, error) {
	m, ok := f.memes[id]
	if !ok {
		return nil, entity.ErrMemeNotFound
	}
	return m.ImageBytes, nil
}

func (f *fakeMemeService) ListMemes(limit int) ([]entity.MemeResult, error) {
	out := make([]entity.MemeResult, 0, len(f.memes))
	for _, m := range f.memes {
		out = append(out, m)
	}
	return out, nil
}

type fakeJobService struct {
	jobs map[string]*entity.Job
	err  error
}

func (f *fakeJobService) Submit(ctx context.Context, req entity.GenerationRequest) (*entity.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	job := &entity.Job{ID: "job-1", Status: entity.JobStatusProcessing, Request: req}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobService) GetJob(id string) (*entity.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, entity.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobService) Process(ctx context.Context, task entity.JobTask) error { return nil }

func setupRouter(memes *fakeMemeService, jobs *fakeJobService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var jobHandler *JobHandler
	if jobs != nil {
		jobHandler = NewJobHandler(jobs)
	}
	return InitRoutes(NewMemeHandler(memes), jobHandler, 5)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleMeme() entity.MemeResult {
	return entity.MemeResult{
		ID:          "m1",
		CaptionText: "Hello\nthere",
		ImagePrompt: "a cat",
		FileName:    "meme_x_1.png",
		CreatedAt:   time.Now(),
		ImageBytes:  []byte("png-bytes"),
	}
}

// TestQuickGenerate тестирует ответ изображением и заголовки с текстом
func TestQuickGenerate(t *testing.T) {
	memes := &fakeMemeService{results: []entity.MemeResult{sampleMeme()}}
	router := setupRouter(memes, nil)

	w := doJSON(t, router, http.MethodPost, "/generate", gin.H{"prompt": "cats"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Equal(t, "Hello there", w.Header().Get("X-Meme-Text"))
	assert.Equal(t, "a cat", w.Header().Get("X-Image-Prompt"))

	assert.Equal(t, "cats", memes.lastReq.Topic)
	assert.Equal(t, 1, memes.lastReq.Count)
	assert.True(t, memes.lastReq.NoFileSave)
}

func TestQuickGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing key", fmt.Errorf("%w: gemini", entity.ErrMissingCredential), http.StatusBadRequest},
		{"bad platform", entity.ErrInvalidProviderSelection, http.StatusBadRequest},
		{"unparseable", entity.ErrUnparseableModelResponse, http.StatusBadGateway},
		{"image provider", fmt.Errorf("%w: status 500", entity.ErrImageProviderFailure), http.StatusBadGateway},
		{"font", entity.ErrFontAssetNotFound, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeMemeService{err: tt.err}, nil)
			w := doJSON(t, router, http.MethodPost, "/generate", gin.H{"prompt": "cats"})

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestQuickGenerateInvalidBody(t *testing.T) {
	router := setupRouter(&fakeMemeService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMemes(t *testing.T) {
	memes := &fakeMemeService{results: []entity.MemeResult{sampleMeme(), sampleMeme()}}
	router := setupRouter(memes, nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/memes", gin.H{
		"topic":          "dogs",
		"count":          2,
		"image_platform": "stability",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Memes []entity.MemeResponse `json:"memes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Memes, 2)
	assert.Equal(t, "/api/v1/memes/m1/image", body.Memes[0].ImageURL)

	assert.Equal(t, "dogs", memes.lastReq.Topic)
	assert.Equal(t, 2, memes.lastReq.Count)
	assert.Equal(t, entity.PlatformStability, memes.lastReq.ImagePlatform)
}

// TestCountLimit тестирует ограничение числа мемов в одном запросе
func TestCountLimit(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		count    int
		wantCode int
	}{
		{name: "memes at limit", path: "/api/v1/memes", count: maxMemeCount, wantCode: http.StatusCreated},
		{name: "memes over limit", path: "/api/v1/memes", count: maxMemeCount + 1, wantCode: http.StatusBadRequest},
		{name: "job at limit", path: "/api/v1/jobs", count: maxMemeCount, wantCode: http.StatusAccepted},
		{name: "job over limit", path: "/api/v1/jobs", count: 1000, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memes := &fakeMemeService{results: []entity.MemeResult{sampleMeme()}}
			jobs := &fakeJobService{jobs: map[string]*entity.Job{}}
			router := setupRouter(memes, jobs)

			w := doJSON(t, router, http.MethodPost, tt.path, gin.H{"topic": "dogs", "count": tt.count})
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusBadRequest {
				assert.Contains(t, w.Body.String(), "count must be at most")
				assert.Empty(t, memes.lastReq.Topic)
				assert.Empty(t, jobs.jobs)
			}
		})
	}
}

func TestGetMemeAndImage(t *testing.T) {
	m := sampleMeme()
	router := setupRouter(&fakeMemeService{memes: map[string]entity.MemeResult{m.ID: m}}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/memes/m1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp entity.MemeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a cat", resp.ImagePrompt)

	w = doJSON(t, router, http.MethodGet, "/api/v1/memes/m1/image", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/memes/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/memes?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/memes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJobs(t *testing.T) {
	jobs := &fakeJobService{jobs: map[string]*entity.Job{}}
	router := setupRouter(&fakeMemeService{}, jobs)

	w := doJSON(t, router, http.MethodPost, "/api/v1/jobs", gin.H{"topic": "dogs"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp entity.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.ID)
	assert.Equal(t, entity.JobStatusProcessing, resp.Status)
	assert.Equal(t, 1, jobs.jobs["job-1"].Request.Count)

	w = doJSON(t, router, http.MethodGet, "/api/v1/jobs/job-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobsDisabled(t *testing.T) {
	router := setupRouter(&fakeMemeService{}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/v1/jobs", gin.H{"topic": "dogs"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndCORS(t *testing.T) {
	router := setupRouter(&fakeMemeService{}, nil)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = doJSON(t, router, http.MethodOptions, "/generate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
