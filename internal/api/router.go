package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivlev/script2video/internal/composer"
)

// NewRouter wires the HTTP surface over a Composer. The API is a thin
// adapter: all decisions happen in the composer and its components.
func NewRouter(c *composer.Composer, logger zerolog.Logger) *gin.Engine {
	h := &Handler{
		composer: c,
		logger:   logger.With().Str("component", "api").Logger(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLog(h.logger))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/compose", h.Compose)
		apiGroup.POST("/compose/dry-run", h.DryRun)
		apiGroup.POST("/compose/coverage", h.CoverageReport)
		apiGroup.POST("/transitions/preview", h.PreviewTransitions)
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("request_id", id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}

func requestLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		logger.Info().
			Str("request_id", ctx.GetString("request_id")).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Msg("request")
	}
}
