package status

import (
	"net/http"
	"strconv"

	"github.com/courierhub/labelqr/cmd/server"
	"github.com/courierhub/labelqr/pkg/logger/types"
	"github.com/gin-gonic/gin"
)

const maxWarnings = 500

type journal interface {
	Entries(name string) []types.Log
}

type Handler struct {
	journal journal
}

func New(s *server.Server) *Handler {
	return NewHandler(s.Journal)
}

func NewHandler(j journal) *Handler {
	return &Handler{journal: j}
}

func (h *Handler) Setup(root gin.IRouter, api gin.IRouter) {
	root.GET("/healthz", h.Health)
	api.GET("/log/warnings", h.Warnings)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type warningsRequest struct {
	Logger string `form:"logger"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Warnings lists the newest journal entries, optionally only those of one
// logger ("render", "http").
func (h *Handler) Warnings(c *gin.Context) {
	var req warningsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = maxWarnings
	}

	entries := h.journal.Entries(req.Logger)
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	c.Header("X-Total-Count", strconv.Itoa(len(entries)))
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
