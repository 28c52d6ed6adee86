package labels

import (
	"context"
	"errors"
	"net/http"

	"github.com/courierhub/labelqr/cmd/server"
	"github.com/courierhub/labelqr/internal/adapters/database/postgres"
	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/courierhub/labelqr/internal/domain/entity"
	"github.com/courierhub/labelqr/internal/domain/service"
	"github.com/courierhub/labelqr/internal/domain/utils/baseurl"
	"github.com/courierhub/labelqr/pkg/logger/types"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/gin-gonic/gin"
)

type qrService interface {
	LabelQR(ctx context.Context, trackingCode string, opts qr.Options) (entity.CachedRender, error)
	Render(ctx context.Context, payload string, opts qr.Options) (entity.CachedRender, error)
	Get(ctx context.Context, codeID string) (*entity.QRCode, error)
	List(ctx context.Context, trackingCode string) ([]entity.QRCode, error)
	Revoke(ctx context.Context, codeID string) error
}

type Handler struct {
	qrService qrService
	defaults  qr.Options
	logger    *types.Logger
}

func New(s *server.Server) *Handler {
	qrStorage := postgres.NewQRCodeStorage(s.DB)
	qrServiceLocal := service.NewQrService(
		s.Renderer,
		s.Files,
		qrStorage,
		s.Redis.Renders,
		baseurl.Default(),
		s.CacheTTL,
		s.Logger.SugaredLogger,
	)
	return NewHandler(qrServiceLocal, s.Options, s.Logger)
}

func NewHandler(qrService qrService, defaults qr.Options, logger *types.Logger) *Handler {
	registerValidations()
	return &Handler{
		qrService: qrService,
		defaults:  defaults,
		logger:    logger,
	}
}

func (h *Handler) Setup(r gin.IRouter) {
	r.GET("/qr", h.Render)

	group := r.Group("/labels")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/image", h.Image)
	group.DELETE("/:id", h.Revoke)
}

type renderRequest struct {
	styleParams
	Payload  string `form:"payload" binding:"required"`
	Response string `form:"response" binding:"omitempty,oneof=image json"`
}

type labelRequest struct {
	styleParams
	TrackingCode string `json:"tracking_code" binding:"required,tracking_code"`
}

type renderResponse struct {
	CodeID     string   `json:"code_id,omitempty"`
	Payload    string   `json:"payload"`
	Format     string   `json:"format,omitempty"`
	Width      int      `json:"width,omitempty"`
	MatrixSize int      `json:"matrix_size"`
	Level      string   `json:"level"`
	Strategy   string   `json:"strategy"`
	Degraded   bool     `json:"degraded"`
	Warnings   []string `json:"warnings,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
	DataURI    string   `json:"data_uri,omitempty"`
}

// Render serves an ad hoc code. The image is returned as is unless
// response=json is asked for or every image strategy failed, in which case
// the payload comes back as JSON for printing as text.
func (h *Handler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.apply(h.defaults)
	if err != nil {
		h.fail(c, err)
		return
	}

	render, err := h.qrService.Render(c.Request.Context(), req.Payload, opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	setRenderHeaders(c, render)
	if render.Image == nil || req.Response == "json" {
		c.JSON(http.StatusOK, toResponse(render, true))
		return
	}
	c.Data(http.StatusOK, mimeType(render.Format), render.Image)
}

// Create renders the label code for a tracking code and stores it.
func (h *Handler) Create(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.apply(h.defaults)
	if err != nil {
		h.fail(c, err)
		return
	}

	render, err := h.qrService.LabelQR(c.Request.Context(), req.TrackingCode, opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Infof("(tracking: %s) label %s rendered with %s", req.TrackingCode, render.CodeID, render.Strategy)
	setRenderHeaders(c, render)
	c.JSON(http.StatusCreated, toResponse(render, false))
}

func (h *Handler) Get(c *gin.Context) {
	record, err := h.qrService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recordResponse(record))
}

type listRequest struct {
	TrackingCode string `form:"tracking_code" binding:"required,tracking_code"`
}

// List returns the label codes stored for a tracking code, newest first.
func (h *Handler) List(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := h.qrService.List(c.Request.Context(), req.TrackingCode)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]renderResponse, 0, len(records))
	for i := range records {
		resp = append(resp, recordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tracking_code": req.TrackingCode, "labels": resp})
}

// Image serves the stored image of a label. Labels that fell back to text
// have none.
func (h *Handler) Image(c *gin.Context) {
	record, err := h.qrService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if record.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "label has no image", "payload": record.Payload})
		return
	}
	c.Header("Content-Type", mimeType(record.Format))
	c.File(record.FilePath)
}

func (h *Handler) Revoke(c *gin.Context) {
	if err := h.qrService.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, errorz.ErrRenderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case service.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr code"})
	}
}

func setRenderHeaders(c *gin.Context, r entity.CachedRender) {
	c.Header("X-QR-Strategy", r.Strategy)
	if r.Degraded {
		c.Header("X-QR-Degraded", "true")
	}
}

func toResponse(r entity.CachedRender, inline bool) renderResponse {
	resp := renderResponse{
		CodeID:     r.CodeID,
		Payload:    r.Payload,
		Format:     r.Format,
		Width:      r.Width,
		MatrixSize: r.MatrixSize,
		Level:      r.Level,
		Strategy:   r.Strategy,
		Degraded:   r.Degraded,
		Warnings:   r.Warnings,
		ImageURL:   imageURL(r.CodeID, r.FilePath),
	}
	if inline && r.Image != nil {
		if f, err := qr.ParseFormat(r.Format); err == nil {
			resp.DataURI = qr.DataURI(r.Image, f)
		}
	}
	return resp
}

func recordResponse(r *entity.QRCode) renderResponse {
	return renderResponse{
		CodeID:   r.CodeID,
		Payload:  r.Payload,
		Format:   r.Format,
		Width:    r.Width,
		Level:    r.Level,
		Strategy: r.Strategy,
		Degraded: r.Degraded,
		Warnings: r.Warnings,
		ImageURL: imageURL(r.CodeID, r.FilePath),
	}
}

func imageURL(codeID, filePath string) string {
	if codeID == "" || filePath == "" {
		return ""
	}
	return "/api/labels/" + codeID + "/image"
}

func mimeType(format string) string {
	f, err := qr.ParseFormat(format)
	if err != nil {
		return "application/octet-stream"
	}
	return f.MimeType()
}
