package appServer

import (
	"fmt"

	"github.com/hunny44/memegeneratorAI/config"
	"github.com/hunny44/memegeneratorAI/internal/database"
	redisRepo "github.com/hunny44/memegeneratorAI/internal/database/redis"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/fonts"
	"github.com/hunny44/memegeneratorAI/internal/pkg/kafka"
	"github.com/hunny44/memegeneratorAI/internal/pkg/processor"
	"github.com/hunny44/memegeneratorAI/internal/pkg/redis"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
	"github.com/hunny44/memegeneratorAI/internal/service"
	"github.com/sirupsen/logrus"
)

// Components is everything the server and the worker share.
type Components struct {
	Memes    service.MemeService
	Jobs     service.JobService // nil when kafka is disabled or unreachable
	MemeRepo database.MemeRepository

	closers []func() error
}

func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logrus.Errorf("error occured on closing component: %s", err.Error())
		}
	}
}

func CredentialsFromConfig(cfg *config.Config) service.Credentials {
	return service.Credentials{
		Gemini:    cfg.Keys.Gemini,
		OpenAI:    cfg.Keys.OpenAI,
		ClipDrop:  cfg.Keys.ClipDrop,
		Stability: cfg.Keys.Stability,
	}
}

func SettingsFromConfig(cfg *config.Config) service.Settings {
	return service.Settings{
		TextPlatform:         entity.TextPlatform(cfg.App.TextPlatform),
		TextModel:            cfg.App.TextModel,
		Temperature:          cfg.App.Temperature,
		BasicInstructions:    cfg.App.BasicInstructions,
		SpecialInstructions:  cfg.App.ImageSpecialInstructions,
		ImagePlatform:        entity.ImagePlatform(cfg.App.ImagePlatform),
		StabilityEngine:      cfg.App.StabilityEngine,
		FallbackOnModelError: cfg.App.FallbackOnModelError,
		EventsTopic:          cfg.Kafka.EventsTopic,
	}
}

// NewMemeService resolves the font and builds the orchestrator. repo and producer may be nil.
func NewMemeService(cfg *config.Config, repo database.MemeRepository, producer kafka.Producer) (service.MemeService, error) {
	font, err := fonts.Load(cfg.App.FontFile, fonts.SearchDirs())
	if err != nil {
		return nil, err
	}

	output := storage.NewOutputFolder(storage.NewFileStorage(cfg.App.OutputFolder), cfg.App.BaseFileName)

	return service.NewMemeService(SettingsFromConfig(cfg), CredentialsFromConfig(cfg), service.Deps{
		Compositor: processor.NewCompositor(font, processor.DefaultOptions()),
		Output:     output,
		Repo:       repo,
		Producer:   producer,
	}), nil
}

func Build(cfg *config.Config) (*Components, error) {
	c := &Components{}

	fileStorage := storage.NewFileStorage(cfg.Server.StoragePath)
	var (
		memeRepo = database.NewMemeRepository(fileStorage)
		jobRepo  = database.NewJobRepository(fileStorage)
	)

	if cfg.Redis.Enabled {
		client, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.Warnf("Redis unavailable, using file repositories only: %v", err)
		} else {
			c.closers = append(c.closers, client.Close)
			memeRepo = redisRepo.NewCacheRepository(memeRepo, client, cfg.Redis.TTL)
			jobRepo = redisRepo.NewJobRepository(client, cfg.Redis.TTL)
		}
	}
	c.MemeRepo = memeRepo

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.JobsTopic, cfg.Kafka.EventsTopic)
		if err != nil {
			// без брокера задачи не принимаются: маршруты /api/v1/jobs не регистрируются
			logrus.Warnf("Kafka unavailable, async jobs and events disabled: %v", err)
		} else {
			producer = p
			c.closers = append(c.closers, producer.Close)
		}
	}

	memes, err := NewMemeService(cfg, memeRepo, producer)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build meme service: %w", err)
	}
	c.Memes = memes

	if producer != nil {
		c.Jobs = service.NewJobService(memes, jobRepo, producer, cfg.Kafka.JobsTopic)
	}

	return c, nil
}
