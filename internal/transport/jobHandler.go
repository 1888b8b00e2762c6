package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hunny44/memegeneratorAI/internal/entity"
)

func (h *JobHandler) SubmitJob(c *gin.Context) {
	var req entity.GenerateMemesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := normalizeCount(&req); err != nil {
		abortWithError(c, err)
		return
	}

	job, err := h.service.Submit(c.Request.Context(), toGenerationRequest(req))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, toJobResponse(job))
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func toJobResponse(job *entity.Job) entity.JobResponse {
	return entity.JobResponse{
		ID:      job.ID,
		Status:  job.Status,
		MemeIDs: job.MemeIDs,
		Error:   job.Error,
	}
}
