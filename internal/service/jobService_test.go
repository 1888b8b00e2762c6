package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hunny44/memegeneratorAI/internal/database"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobHarness(t *testing.T) (*harness, JobService, database.JobRepository) {
	h, memes := newHarness(t, defaultSettings(), fullCredentials())
	repo := database.NewJobRepository(storage.NewFileStorage(t.TempDir()))
	return h, NewJobService(memes, repo, h.producer, "meme-jobs"), repo
}

// TestJobSubmitAndProcess тестирует переход processing -> completed
func TestJobSubmitAndProcess(t *testing.T) {
	h, jobs, _ := newJobHarness(t)

	job, err := jobs.Submit(context.Background(), entity.GenerationRequest{Topic: "dogs", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusProcessing, job.Status)
	assert.Equal(t, entity.PlatformClipDrop, job.Request.ImagePlatform)

	require.Len(t, h.producer.messages, 1)
	task, ok := h.producer.messages[0].(entity.JobTask)
	require.True(t, ok)
	assert.Equal(t, job.ID, task.JobID)

	require.NoError(t, jobs.Process(context.Background(), task))

	got, err := jobs.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, got.Status)
	assert.Len(t, got.MemeIDs, 2)
	assert.Empty(t, got.Error)
}

func TestJobSubmitValidation(t *testing.T) {
	h, jobs, _ := newJobHarness(t)

	_, err := jobs.Submit(context.Background(), entity.GenerationRequest{Count: 0})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Empty(t, h.producer.messages)
}

func TestJobProcessFailure(t *testing.T) {
	h, jobs, _ := newJobHarness(t)

	job, err := jobs.Submit(context.Background(), entity.GenerationRequest{Topic: "dogs", Count: 1})
	require.NoError(t, err)

	h.image.err = errors.New("boom")
	err = jobs.Process(context.Background(), entity.JobTask{JobID: job.ID, Request: job.Request})
	require.Error(t, err)

	got, err := jobs.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusFailed, got.Status)
	assert.Contains(t, got.Error, "boom")
}

func TestJobSubmitQueueFailure(t *testing.T) {
	h, jobs, repo := newJobHarness(t)
	h.producer.err = errors.New("broker down")

	_, err := jobs.Submit(context.Background(), entity.GenerationRequest{Topic: "dogs", Count: 1})
	require.Error(t, err)

	// запись о задаче остается с причиной отказа
	require.Len(t, h.producer.messages, 1)
	task := h.producer.messages[0].(entity.JobTask)
	got, err := repo.FindByID(task.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusFailed, got.Status)
}

func TestGetJobNotFound(t *testing.T) {
	_, jobs, _ := newJobHarness(t)
	_, err := jobs.GetJob("missing")
	assert.ErrorIs(t, err, entity.ErrJobNotFound)
}
