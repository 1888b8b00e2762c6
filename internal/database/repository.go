package database

import (
	"time"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
)

type MemeRepository interface {
	Save(meme *entity.MemeResult) error
	FindByID(id string) (*entity.MemeResult, error)
	GetImage(id string) ([]byte, error)
	// List returns the newest memes first; limit <= 0 means no limit.
	List(limit int) ([]entity.MemeResult, error)
	Delete(id string) error
	DeleteOlderThan(cutoff time.Time) ([]string, error)
}

type JobRepository interface {
	Save(job *entity.Job) error
	FindByID(id string) (*entity.Job, error)
}

type fileMemeRepository struct {
	storage storage.FileStorage
}

type fileJobRepository struct {
	storage storage.FileStorage
}
