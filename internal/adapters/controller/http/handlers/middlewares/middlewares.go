package middlewares

import (
	"net/http"
	"time"

	"github.com/courierhub/labelqr/pkg/logger/types"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	logger *types.Logger
}

func New(logger *types.Logger) *Handler {
	return &Handler{logger: logger}
}

// Logger writes one line per request through zap.
func (h *Handler) Logger(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"latency", time.Since(start),
		"ip", c.ClientIP(),
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "errors", c.Errors.String())
	}
	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Errorw("request", fields...)
	case status >= http.StatusBadRequest:
		h.logger.Warnw("request", fields...)
	default:
		h.logger.Debugw("request", fields...)
	}
}

// Recovery turns a panic in a handler into a 500 and logs it.
func (h *Handler) Recovery(c *gin.Context, recovered interface{}) {
	h.logger.Errorf("panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
