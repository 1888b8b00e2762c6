package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

const (
	metadataDir = "metadata"
	imagesDir   = "images"
)

func NewMemeRepository(storage storage.FileStorage) MemeRepository {
	return &fileMemeRepository{storage: storage}
}

func (r *fileMemeRepository) Save(meme *entity.MemeResult) error {
	if meme.ID == "" {
		return errors.New("meme id is empty")
	}

	data, err := json.Marshal(meme)
	if err != nil {
		return err
	}

	if len(meme.ImageBytes) > 0 {
		if err := r.storage.Save(r.getImagePath(meme.ID), bytes.NewReader(meme.ImageBytes)); err != nil {
			return err
		}
	}

	return r.storage.Save(r.getMetadataPath(meme.ID), bytes.NewReader(data))
}

func (r *fileMemeRepository) FindByID(id string) (*entity.MemeResult, error) {
	reader, err := r.storage.Get(r.getMetadataPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.ErrMemeNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var meme entity.MemeResult
	if err := json.NewDecoder(reader).Decode(&meme); err != nil {
		return nil, err
	}

	return &meme, nil
}

func (r *fileMemeRepository) GetImage(id string) ([]byte, error) {
	reader, err := r.storage.Get(r.getImagePath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.ErrMemeNotFound
		}
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (r *fileMemeRepository) List(limit int) ([]entity.MemeResult, error) {
	names, err := r.storage.List(metadataDir)
	if err != nil {
		return nil, err
	}

	memes := make([]entity.MemeResult, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		meme, err := r.FindByID(strings.TrimSuffix(name, ".json"))
		if err != nil {
			logrus.Warnf("Skipping unreadable meme metadata %s: %v", name, err)
			continue
		}
		memes = append(memes, *meme)
	}

	sort.Slice(memes, func(i, j int) bool {
		return memes[i].CreatedAt.After(memes[j].CreatedAt)
	})

	if limit > 0 && len(memes) > limit {
		memes = memes[:limit]
	}
	return memes, nil
}

func (r *fileMemeRepository) Delete(id string) error {
	if !r.storage.Exists(r.getMetadataPath(id)) {
		return entity.ErrMemeNotFound
	}

	if err := r.storage.Delete(r.getImagePath(id)); err != nil {
		return err
	}
	return r.storage.Delete(r.getMetadataPath(id))
}

// DeleteOlderThan removes memes created before cutoff and returns their ids.
func (r *fileMemeRepository) DeleteOlderThan(cutoff time.Time) ([]string, error) {
	memes, err := r.List(0)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, m := range memes {
		if !m.CreatedAt.Before(cutoff) {
			continue
		}
		if err := r.Delete(m.ID); err != nil {
			logrus.Errorf("Failed to delete meme %s: %v", m.ID, err)
			continue
		}
		deleted = append(deleted, m.ID)
	}
	return deleted, nil
}

func (r *fileMemeRepository) getMetadataPath(id string) string {
	return filepath.Join(metadataDir, filepath.Base(id)+".json")
}

func (r *fileMemeRepository) getImagePath(id string) string {
	return filepath.Join(imagesDir, filepath.Base(id)+".png")
}
