package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/service"
	"github.com/sirupsen/logrus"
)

type MemeHandler struct {
	service service.MemeService
}

func NewMemeHandler(service service.MemeService) *MemeHandler {
	return &MemeHandler{service: service}
}

type JobHandler struct {
	service service.JobService
}

func NewJobHandler(service service.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// statusFor maps generation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrMissingCredential),
		errors.Is(err, entity.ErrInvalidProviderSelection),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrMemeNotFound), errors.Is(err, entity.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUnparseableModelResponse), errors.Is(err, entity.ErrImageProviderFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logrus.WithField("path", c.Request.URL.Path).Errorf("Request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
