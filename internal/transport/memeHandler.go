package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hunny44/memegeneratorAI/internal/entity"
)

const (
	maxListLimit = 100
	maxMemeCount = 10
)

// QuickGenerate creates one meme and answers with the PNG itself.
func (h *MemeHandler) QuickGenerate(c *gin.Context) {
	var req entity.QuickGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	results, err := h.service.Generate(c.Request.Context(), entity.GenerationRequest{
		Topic:      req.Prompt,
		Count:      1,
		NoFileSave: true,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(results) == 0 || len(results[0].ImageBytes) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate meme"})
		return
	}

	meme := results[0]
	c.Header("X-Meme-Id", meme.ID)
	c.Header("X-Meme-Text", headerSafe(meme.CaptionText))
	c.Header("X-Image-Prompt", headerSafe(meme.ImagePrompt))
	c.Data(http.StatusOK, "image/png", meme.ImageBytes)
}

func (h *MemeHandler) GenerateMemes(c *gin.Context) {
	var req entity.GenerateMemesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := normalizeCount(&req); err != nil {
		abortWithError(c, err)
		return
	}

	results, err := h.service.Generate(c.Request.Context(), toGenerationRequest(req))
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]entity.MemeResponse, 0, len(results))
	for _, m := range results {
		response = append(response, toMemeResponse(m))
	}
	c.JSON(http.StatusCreated, gin.H{"memes": response})
}

func (h *MemeHandler) ListMemes(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	memes, err := h.service.ListMemes(limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]entity.MemeResponse, 0, len(memes))
	for _, m := range memes {
		response = append(response, toMemeResponse(m))
	}
	c.JSON(http.StatusOK, gin.H{"memes": response})
}

func (h *MemeHandler) GetMeme(c *gin.Context) {
	meme, err := h.service.GetMeme(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemeResponse(*meme))
}

func (h *MemeHandler) GetMemeImage(c *gin.Context) {
	data, err := h.service.GetMemeImage(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// normalizeCount defaults a missing count to one and caps it for HTTP callers.
func normalizeCount(req *entity.GenerateMemesRequest) error {
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count > maxMemeCount {
		return fmt.Errorf("%w: count must be at most %d", entity.ErrInvalidInput, maxMemeCount)
	}
	return nil
}

func toGenerationRequest(req entity.GenerateMemesRequest) entity.GenerationRequest {
	return entity.GenerationRequest{
		Topic:               req.Topic,
		Count:               req.Count,
		BasicInstructions:   req.BasicInstructions,
		SpecialInstructions: req.SpecialInstructions,
		Temperature:         req.Temperature,
		ImagePlatform:       entity.ImagePlatform(req.ImagePlatform),
		NoFileSave:          req.NoFileSave,
	}
}

func toMemeResponse(m entity.MemeResult) entity.MemeResponse {
	return entity.MemeResponse{
		ID:          m.ID,
		CaptionText: m.CaptionText,
		ImagePrompt: m.ImagePrompt,
		FileName:    m.FileName,
		ImageURL:    "/api/v1/memes/" + m.ID + "/image",
		CreatedAt:   m.CreatedAt,
	}
}

// headerSafe drops characters that are not allowed in header values.
func headerSafe(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n':
			out = append(out, ' ')
		case r < 0x20 || r > 0x7e:
			out = append(out, '?')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
