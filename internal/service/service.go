package service

import (
	"context"
	"time"

	"github.com/hunny44/memegeneratorAI/internal/database"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/chat"
	"github.com/hunny44/memegeneratorAI/internal/pkg/imagegen"
	"github.com/hunny44/memegeneratorAI/internal/pkg/kafka"
	"github.com/hunny44/memegeneratorAI/internal/pkg/processor"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
)

type MemeService interface {
	// Generate runs the whole pipeline req.Count times and returns every meme, or the first error.
	Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.MemeResult, error)
	// Normalize fills defaults and checks the request without calling any provider.
	Normalize(req entity.GenerationRequest) (entity.GenerationRequest, error)
	GetMeme(id string) (*entity.MemeResult, error)
	GetMemeImage(id string) ([]byte, error)
	ListMemes(limit int) ([]entity.MemeResult, error)
}

type JobService interface {
	Submit(ctx context.Context, req entity.GenerationRequest) (*entity.Job, error)
	GetJob(id string) (*entity.Job, error)
	Process(ctx context.Context, task entity.JobTask) error
}

type (
	ChatFactory  func(ctx context.Context, cfg chat.Config) (chat.Provider, error)
	ImageFactory func(cfg imagegen.Config) (imagegen.Provider, error)
)

type Settings struct {
	TextPlatform         entity.TextPlatform
	TextModel            string
	Temperature          float32
	BasicInstructions    string
	SpecialInstructions  string
	ImagePlatform        entity.ImagePlatform
	StabilityEngine      string
	FallbackOnModelError bool
	EventsTopic          string
}

// Deps are the collaborators of MemeService. Repo and Producer may be nil.
type Deps struct {
	Compositor processor.Compositor
	Output     storage.OutputFolder
	Repo       database.MemeRepository
	Producer   kafka.Producer
	NewChat    ChatFactory
	NewImage   ImageFactory
	Now        func() time.Time
}

type memeService struct {
	settings Settings
	creds    Credentials
	deps     Deps
}

func NewMemeService(settings Settings, creds Credentials, deps Deps) MemeService {
	if deps.NewChat == nil {
		deps.NewChat = chat.New
	}
	if deps.NewImage == nil {
		deps.NewImage = imagegen.New
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if settings.TextPlatform == "" {
		settings.TextPlatform = entity.TextGemini
	}
	return &memeService{
		settings: settings,
		creds:    creds,
		deps:     deps,
	}
}

type jobService struct {
	memes    MemeService
	repo     database.JobRepository
	producer kafka.Producer
	topic    string
}

func NewJobService(memes MemeService, repo database.JobRepository, producer kafka.Producer, topic string) JobService {
	return &jobService{
		memes:    memes,
		repo:     repo,
		producer: producer,
		topic:    topic,
	}
}
