package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServeUpload streams a stored photo by its generated filename.
func (h *Handler) ServeUpload(c *gin.Context) {
	filename := c.Param("filename")
	if !h.files.Exists(filename) {
		jsonError(c, http.StatusNotFound, "File not found")
		return
	}

	path, err := h.files.Path(filename)
	if err != nil {
		jsonError(c, http.StatusNotFound, "File not found")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"time":   time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
