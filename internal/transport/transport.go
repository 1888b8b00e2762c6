package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hunny44/memegeneratorAI/internal/transport/middleware"
)

// InitRoutes wires the handlers. jobHandler may be nil when the job queue is disabled.
func InitRoutes(memeHandler *MemeHandler, jobHandler *JobHandler, requestTimeout int) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Expose-Headers", "X-Meme-Id, X-Meme-Text, X-Image-Prompt")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	generation := router.Group("/", middleware.Timeout(requestTimeout))
	generation.POST("/generate", memeHandler.QuickGenerate)

	api := router.Group("/api/v1")
	{
		api.POST("/memes", middleware.Timeout(requestTimeout), memeHandler.GenerateMemes)
		api.GET("/memes", memeHandler.ListMemes)
		api.GET("/memes/:id", memeHandler.GetMeme)
		api.GET("/memes/:id/image", memeHandler.GetMemeImage)

		if jobHandler != nil {
			api.POST("/jobs", jobHandler.SubmitJob)
			api.GET("/jobs/:id", jobHandler.GetJob)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "meme-generator",
		})
	})
	return router
}
