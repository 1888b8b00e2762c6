package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
)

const jobsDir = "jobs"

func NewJobRepository(storage storage.FileStorage) JobRepository {
	return &fileJobRepository{storage: storage}
}

func (r *fileJobRepository) Save(job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.storage.Save(r.getJobPath(job.ID), bytes.NewReader(data))
}

func (r *fileJobRepository) FindByID(id string) (*entity.Job, error) {
	reader, err := r.storage.Get(r.getJobPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.ErrJobNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var job entity.Job
	if err := json.NewDecoder(reader).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *fileJobRepository) getJobPath(id string) string {
	return filepath.Join(jobsDir, filepath.Base(id)+".json")
}
