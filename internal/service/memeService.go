package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/chat"
	"github.com/hunny44/memegeneratorAI/internal/pkg/imagegen"
	"github.com/hunny44/memegeneratorAI/internal/pkg/parser"
	"github.com/hunny44/memegeneratorAI/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

// FallbackResponse stands in for the model reply when the chat provider fails.
const FallbackResponse = "Meme Text: \"Error: AI had trouble generating the meme\"\nImage Prompt: A frustrated cat typing on a keyboard"

// Run states
const (
	stateIdle          = "idle"
	stateValidating    = "validating"
	stateAwaitingModel = "awaiting_model"
	stateAwaitingImage = "awaiting_image"
	stateCompositing   = "compositing"
	stateCompleted     = "completed"
	stateFailed        = "failed"
)

func (s *memeService) Normalize(req entity.GenerationRequest) (entity.GenerationRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		req.Topic = entity.DefaultTopic
	}
	if req.Count < 1 {
		return req, fmt.Errorf("%w: meme count must be at least 1, got %d", entity.ErrInvalidInput, req.Count)
	}
	if req.BasicInstructions == "" {
		req.BasicInstructions = s.settings.BasicInstructions
	}
	if req.SpecialInstructions == "" {
		req.SpecialInstructions = s.settings.SpecialInstructions
	}
	if req.Temperature == 0 {
		req.Temperature = s.settings.Temperature
	}
	if req.ImagePlatform == "" {
		req.ImagePlatform = s.settings.ImagePlatform
	}

	if s.creds.Text(s.settings.TextPlatform) == "" {
		return req, fmt.Errorf("%w: no %s API key found, it is required to write the meme text and image prompt",
			entity.ErrMissingCredential, s.settings.TextPlatform)
	}

	platform, ok := entity.ParseImagePlatform(string(req.ImagePlatform))
	if !ok {
		return req, fmt.Errorf("%w: %q, valid image platforms are: %v",
			entity.ErrInvalidProviderSelection, req.ImagePlatform, entity.ValidImagePlatforms)
	}
	req.ImagePlatform = platform

	if s.creds.Image(platform) == "" {
		return req, fmt.Errorf("%w: %s was set as the image platform, but no %s API key was found",
			entity.ErrMissingCredential, platform, platform)
	}

	return req, nil
}

func (s *memeService) Generate(ctx context.Context, req entity.GenerationRequest) ([]entity.MemeResult, error) {
	log := logrus.WithField("run_id", uuid.New().String())
	log.WithField("state", stateIdle).Debug("Generation run created")

	log.WithField("state", stateValidating).Info("Validating generation request")
	req, err := s.Normalize(req)
	if err != nil {
		log.WithField("state", stateFailed).Errorf("Validation failed: %v", err)
		return nil, err
	}

	textProvider, err := s.deps.NewChat(ctx, chat.Config{
		Platform: s.settings.TextPlatform,
		APIKey:   s.creds.Text(s.settings.TextPlatform),
		Model:    s.settings.TextModel,
	})
	if err != nil {
		log.WithField("state", stateFailed).Errorf("Failed to create chat provider: %v", err)
		return nil, err
	}

	imageProvider, err := s.deps.NewImage(imagegen.Config{
		Platform: req.ImagePlatform,
		APIKey:   s.creds.Image(req.ImagePlatform),
		Engine:   s.settings.StabilityEngine,
	})
	if err != nil {
		log.WithField("state", stateFailed).Errorf("Failed to create image provider: %v", err)
		return nil, err
	}

	systemPrompt := BuildSystemPrompt(req.BasicInstructions, req.SpecialInstructions)

	log = log.WithFields(logrus.Fields{
		"topic":          req.Topic,
		"count":          req.Count,
		"image_platform": req.ImagePlatform,
		"text_platform":  s.settings.TextPlatform,
	})

	results := make([]entity.MemeResult, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		iterLog := log.WithField("iteration", fmt.Sprintf("%d/%d", i+1, req.Count))

		result, err := s.generateOne(ctx, iterLog, req, systemPrompt, textProvider, imageProvider)
		if err != nil {
			iterLog.WithField("state", stateFailed).Errorf("Meme generation failed: %v", err)
			return nil, err
		}
		results = append(results, *result)
	}

	log.WithField("state", stateCompleted).Infof("Generated %d memes", len(results))
	return results, nil
}

func (s *memeService) generateOne(
	ctx context.Context,
	log *logrus.Entry,
	req entity.GenerationRequest,
	systemPrompt string,
	textProvider chat.Provider,
	imageProvider imagegen.Provider,
) (*entity.MemeResult, error) {
	log.WithField("state", stateAwaitingModel).Info("Sending request to write meme")
	response, err := textProvider.Complete(ctx, chat.Request{
		System:      systemPrompt,
		Topic:       req.Topic,
		Temperature: req.Temperature,
	})
	if err != nil {
		if !s.settings.FallbackOnModelError || ctx.Err() != nil {
			return nil, fmt.Errorf("chat model request failed: %w", err)
		}
		log.Warnf("Chat model request failed, using fallback meme: %v", err)
		response = FallbackResponse
	}

	parsed, ok := parser.Parse(response)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnparseableModelResponse, truncate(response, 200))
	}
	log.WithFields(logrus.Fields{
		"meme_text":    parsed.CaptionText,
		"image_prompt": parsed.ImagePrompt,
	}).Info("Meme text received")

	log.WithField("state", stateAwaitingImage).Info("Sending image creation request")
	source, err := imageProvider.Generate(ctx, parsed.ImagePrompt)
	if err != nil {
		return nil, err
	}

	log.WithField("state", stateCompositing).Info("Creating meme image")
	now := s.deps.Now()
	filePath, fileName, err := s.deps.Output.NextFile(now)
	if err != nil {
		return nil, fmt.Errorf("failed to pick output file name: %w", err)
	}

	target := filePath
	if req.NoFileSave {
		target = ""
	}
	composed, err := s.deps.Compositor.Compose(source, parsed.CaptionText, target)
	if err != nil {
		return nil, err
	}

	result := &entity.MemeResult{
		ID:          uuid.New().String(),
		CaptionText: parsed.CaptionText,
		ImagePrompt: parsed.ImagePrompt,
		FileName:    fileName,
		Topic:       req.Topic,
		Platform:    req.ImagePlatform,
		CreatedAt:   now,
		ImageBytes:  composed.PNG,
	}

	if !req.NoFileSave {
		if abs, err := filepath.Abs(filePath); err == nil {
			result.FilePath = abs
		} else {
			result.FilePath = filePath
		}

		if err := s.deps.Output.AppendLog(storage.LogEntry{
			FileName:            fileName,
			BasicInstructions:   req.BasicInstructions,
			SpecialInstructions: req.SpecialInstructions,
			UserPrompt:          req.Topic,
			CaptionText:         parsed.CaptionText,
			ImagePrompt:         parsed.ImagePrompt,
			Platform:            string(req.ImagePlatform),
		}); err != nil {
			return nil, fmt.Errorf("failed to write log file: %w", err)
		}
	}

	if s.deps.Repo != nil {
		if err := s.deps.Repo.Save(result); err != nil {
			return nil, fmt.Errorf("failed to store meme: %w", err)
		}
	}

	if s.deps.Producer != nil && s.settings.EventsTopic != "" {
		if err := s.deps.Producer.SendMessage(ctx, s.settings.EventsTopic, result.ID, entity.NewGeneratedEvent(*result)); err != nil {
			log.Warnf("Failed to publish generated event: %v", err)
		}
	}

	log.WithFields(logrus.Fields{
		"meme_id":   result.ID,
		"file_name": fileName,
	}).Info("Meme created")

	return result, nil
}

func (s *memeService) GetMeme(id string) (*entity.MemeResult, error) {
	if s.deps.Repo == nil {
		return nil, entity.ErrMemeNotFound
	}
	return s.deps.Repo.FindByID(id)
}

func (s *memeService) GetMemeImage(id string) ([]byte, error) {
	if s.deps.Repo == nil {
		return nil, entity.ErrMemeNotFound
	}
	return s.deps.Repo.GetImage(id)
}

func (s *memeService) ListMemes(limit int) ([]entity.MemeResult, error) {
	if s.deps.Repo == nil {
		return nil, nil
	}
	return s.deps.Repo.List(limit)
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
