package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/database"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const recentKey = "memes:recent"

// CacheRepository keeps recent memes in redis in front of the file repository.
type CacheRepository struct {
	base   database.MemeRepository
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewCacheRepository(base database.MemeRepository, client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		base:   base,
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

func (r *CacheRepository) Save(meme *entity.MemeResult) error {
	if err := r.base.Save(meme); err != nil {
		return err
	}

	if err := r.setMeme(meme); err != nil {
		logrus.Warnf("Failed to cache meme %s: %v", meme.ID, err)
	}
	if len(meme.ImageBytes) > 0 {
		if err := r.client.Set(r.ctx, imageKey(meme.ID), meme.ImageBytes, r.ttl).Err(); err != nil {
			logrus.Warnf("Failed to cache meme image %s: %v", meme.ID, err)
		}
	}

	// мем уже сохранен в файлах: ошибки кеша не прерывают генерацию
	if err := r.client.ZAdd(r.ctx, recentKey, redis.Z{
		Score:  float64(meme.CreatedAt.Unix()),
		Member: meme.ID,
	}).Err(); err != nil {
		logrus.Warnf("Failed to index meme %s in redis: %v", meme.ID, err)
	}
	return nil
}

func (r *CacheRepository) FindByID(id string) (*entity.MemeResult, error) {
	data, err := r.client.Get(r.ctx, memeKey(id)).Result()
	if err == nil {
		var meme entity.MemeResult
		if err := json.Unmarshal([]byte(data), &meme); err == nil {
			return &meme, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logrus.Warnf("Redis get failed for meme %s: %v", id, err)
	}

	meme, err := r.base.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.setMeme(meme); err != nil {
		logrus.Warnf("Failed to cache meme %s: %v", id, err)
	}
	return meme, nil
}

func (r *CacheRepository) GetImage(id string) ([]byte, error) {
	data, err := r.client.Get(r.ctx, imageKey(id)).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		logrus.Warnf("Redis get failed for meme image %s: %v", id, err)
	}

	data, err = r.base.GetImage(id)
	if err != nil {
		return nil, err
	}
	r.client.Set(r.ctx, imageKey(id), data, r.ttl)
	return data, nil
}

func (r *CacheRepository) List(limit int) ([]entity.MemeResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := r.client.ZRevRange(r.ctx, recentKey, 0, stop).Result()
	if err != nil || len(ids) == 0 {
		return r.base.List(limit)
	}

	memes := make([]entity.MemeResult, 0, len(ids))
	for _, id := range ids {
		meme, err := r.FindByID(id)
		if err != nil {
			if errors.Is(err, entity.ErrMemeNotFound) {
				r.client.ZRem(r.ctx, recentKey, id)
				continue
			}
			return nil, err
		}
		memes = append(memes, *meme)
	}
	return memes, nil
}

func (r *CacheRepository) Delete(id string) error {
	if err := r.base.Delete(id); err != nil {
		return err
	}
	return r.evict(id)
}

func (r *CacheRepository) DeleteOlderThan(cutoff time.Time) ([]string, error) {
	deleted, err := r.base.DeleteOlderThan(cutoff)
	if err != nil {
		return nil, err
	}

	for _, id := range deleted {
		if err := r.evict(id); err != nil {
			logrus.Warnf("Failed to evict meme %s from cache: %v", id, err)
		}
	}

	max := "(" + strconv.FormatInt(cutoff.Unix(), 10)
	if err := r.client.ZRemRangeByScore(r.ctx, recentKey, "-inf", max).Err(); err != nil {
		logrus.Warnf("Failed to trim recent memes: %v", err)
	}
	return deleted, nil
}

func (r *CacheRepository) setMeme(meme *entity.MemeResult) error {
	data, err := json.Marshal(meme)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, memeKey(meme.ID), data, r.ttl).Err()
}

func (r *CacheRepository) evict(id string) error {
	if err := r.client.Del(r.ctx, memeKey(id), imageKey(id)).Err(); err != nil {
		return err
	}
	return r.client.ZRem(r.ctx, recentKey, id).Err()
}

func memeKey(id string) string  { return "meme:" + id }
func imageKey(id string) string { return "meme:" + id + ":png" }

// JobRepository stores job records so the API and the worker share status.
type JobRepository struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewJobRepository(client *redis.Client, ttl time.Duration) *JobRepository {
	return &JobRepository{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

func (r *JobRepository) Save(job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, "job:"+job.ID, data, r.ttl).Err()
}

func (r *JobRepository) FindByID(id string) (*entity.Job, error) {
	data, err := r.client.Get(r.ctx, "job:"+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entity.ErrJobNotFound
		}
		return nil, err
	}

	var job entity.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

var (
	_ database.MemeRepository = (*CacheRepository)(nil)
	_ database.JobRepository  = (*JobRepository)(nil)
)
