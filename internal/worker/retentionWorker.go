package worker

import (
	"context"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/database"
	"github.com/sirupsen/logrus"
)

// RetentionWorker periodically removes stored memes older than maxAge.
type RetentionWorker struct {
	repo     database.MemeRepository
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

func NewRetentionWorker(repo database.MemeRepository, interval, maxAge time.Duration) *RetentionWorker {
	return &RetentionWorker{
		repo:     repo,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"interval": w.interval.String(),
		"max_age":  w.maxAge.String(),
	}).Info("Meme retention worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Meme retention worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

// cleanup удаляет мемы старше maxAge
func (w *RetentionWorker) cleanup() int {
	cutoff := w.now().Add(-w.maxAge)

	deleted, err := w.repo.DeleteOlderThan(cutoff)
	if err != nil {
		logrus.Errorf("Failed to delete expired memes: %v", err)
		return 0
	}

	if len(deleted) == 0 {
		logrus.Debug("No expired memes found for cleanup")
		return 0
	}

	logrus.Infof("Expired memes cleanup completed: %d deleted", len(deleted))
	return len(deleted)
}
