package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/sirupsen/logrus"
)

// Submit validates the request, stores a processing job and queues it for the worker.
func (s *jobService) Submit(ctx context.Context, req entity.GenerationRequest) (*entity.Job, error) {
	req, err := s.memes.Normalize(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &entity.Job{
		ID:        uuid.New().String(),
		Status:    entity.JobStatusProcessing,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(job); err != nil {
		return nil, err
	}

	task := entity.JobTask{JobID: job.ID, Request: req}
	if err := s.producer.SendMessage(ctx, s.topic, job.ID, task); err != nil {
		s.fail(job, fmt.Errorf("failed to queue job: %w", err))
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"job_id": job.ID, "topic": req.Topic}).Info("Generation job queued")
	return job, nil
}

func (s *jobService) GetJob(id string) (*entity.Job, error) {
	return s.repo.FindByID(id)
}

// Process runs a queued job and records the outcome on the job.
func (s *jobService) Process(ctx context.Context, task entity.JobTask) error {
	job, err := s.repo.FindByID(task.JobID)
	if err != nil {
		// задача могла прийти раньше, чем запись о ней, или запись истекла
		logrus.Warnf("Job %s not found, recreating: %v", task.JobID, err)
		job = &entity.Job{
			ID:        task.JobID,
			Status:    entity.JobStatusProcessing,
			Request:   task.Request,
			CreatedAt: time.Now(),
		}
	}

	results, err := s.memes.Generate(ctx, task.Request)
	if err != nil {
		s.fail(job, err)
		return err
	}

	job.Status = entity.JobStatusCompleted
	job.MemeIDs = make([]string, 0, len(results))
	for _, r := range results {
		job.MemeIDs = append(job.MemeIDs, r.ID)
	}
	job.UpdatedAt = time.Now()

	if err := s.repo.Save(job); err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}

	logrus.WithFields(logrus.Fields{"job_id": job.ID, "memes": len(results)}).Info("Generation job completed")
	return nil
}

func (s *jobService) fail(job *entity.Job, cause error) {
	job.Status = entity.JobStatusFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now()
	if err := s.repo.Save(job); err != nil {
		logrus.Errorf("Failed to mark job %s as failed: %v", job.ID, err)
	}
}
