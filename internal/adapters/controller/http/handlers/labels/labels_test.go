package labels

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/courierhub/labelqr/internal/domain/entity"
	"github.com/courierhub/labelqr/pkg/logger/types"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	render  entity.CachedRender
	record  *entity.QRCode
	err     error
	opts    qr.Options
	payload string
	revoked string
	listed  []entity.QRCode
}

func (f *fakeService) LabelQR(_ context.Context, trackingCode string, opts qr.Options) (entity.CachedRender, error) {
	f.payload, f.opts = trackingCode, opts
	return f.render, f.err
}

func (f *fakeService) Render(_ context.Context, payload string, opts qr.Options) (entity.CachedRender, error) {
	f.payload, f.opts = payload, opts
	return f.render, f.err
}

func (f *fakeService) Get(_ context.Context, codeID string) (*entity.QRCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.record == nil || f.record.CodeID != codeID {
		return nil, errorz.ErrRenderNotFound
	}
	return f.record, nil
}

func (f *fakeService) List(_ context.Context, trackingCode string) ([]entity.QRCode, error) {
	f.payload = trackingCode
	return f.listed, f.err
}

func (f *fakeService) Revoke(_ context.Context, codeID string) error {
	f.revoked = codeID
	return f.err
}

func newRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, qr.LabelOptions(), &types.Logger{SugaredLogger: zap.NewNop().Sugar()})
	h.Setup(r.Group("/api"))
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pngRender() entity.CachedRender {
	return entity.CachedRender{
		Image:      []byte("\x89PNG fake"),
		Format:     "png",
		Width:      540,
		MatrixSize: 41,
		Level:      "H",
		Payload:    "https://track.example/PKG-0001",
		Strategy:   qr.StrategyOrganic,
	}
}

func TestRenderServesImage(t *testing.T) {
	svc := &fakeService{render: pngRender()}
	w := do(newRouter(svc), http.MethodGet, "/api/qr?payload=https://track.example/PKG-0001", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, qr.StrategyOrganic, w.Header().Get("X-QR-Strategy"))
	assert.Empty(t, w.Header().Get("X-QR-Degraded"))
	assert.Equal(t, []byte("\x89PNG fake"), w.Body.Bytes())
	assert.Equal(t, "https://track.example/PKG-0001", svc.payload)
	assert.Equal(t, qr.LabelOptions().Fingerprint(), svc.opts.Fingerprint())
}

func TestRenderAppliesStyleParams(t *testing.T) {
	svc := &fakeService{render: pngRender()}
	w := do(newRouter(svc), http.MethodGet, "/api/qr?payload=abc&fg=%23333333&mono=true&format=bmp&module_size=6&border=0&level=q", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.opts.Monochrome)
	assert.Equal(t, qr.FormatBMP, svc.opts.Format)
	assert.Equal(t, qr.LevelQ, svc.opts.Level)
	assert.Equal(t, 6, svc.opts.ModuleSize)
	assert.Equal(t, 0, svc.opts.BorderSize)
	assert.Nil(t, svc.opts.Gradient)
}

func TestRenderRejectsBadRequests(t *testing.T) {
	cases := map[string]string{
		"missing payload":   "/api/qr",
		"bad colour":        "/api/qr?payload=abc&fg=nope",
		"low contrast":      "/api/qr?payload=abc&fg=%23fafafa",
		"module too small":  "/api/qr?payload=abc&module_size=2",
		"half gradient":     "/api/qr?payload=abc&gradient_start=%23000000",
		"unknown response":  "/api/qr?payload=abc&response=xml",
		"unknown level":     "/api/qr?payload=abc&level=z",
		"unknown image fmt": "/api/qr?payload=abc&format=gif",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{render: pngRender()}
			w := do(newRouter(svc), http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, svc.payload)
		})
	}
}

func TestRenderTextFallbackIsJSON(t *testing.T) {
	svc := &fakeService{render: entity.CachedRender{
		Payload:  "https://track.example/PKG-0001",
		Level:    "H",
		Strategy: qr.StrategyText,
		Degraded: true,
		Warnings: []string{"render degraded: plain: boom"},
	}}
	w := do(newRouter(svc), http.MethodGet, "/api/qr?payload=https://track.example/PKG-0001", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-QR-Degraded"))
	var resp renderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, qr.StrategyText, resp.Strategy)
	assert.Equal(t, "https://track.example/PKG-0001", resp.Payload)
	assert.True(t, resp.Degraded)
	assert.Empty(t, resp.DataURI)
	assert.Len(t, resp.Warnings, 1)
}

func TestRenderJSONResponseInlinesImage(t *testing.T) {
	svc := &fakeService{render: pngRender()}
	w := do(newRouter(svc), http.MethodGet, "/api/qr?payload=abc&response=json", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp renderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.DataURI, "data:image/png;base64,"))
	assert.Equal(t, 540, resp.Width)
}

func TestCreateLabel(t *testing.T) {
	render := pngRender()
	render.CodeID = "c0de"
	render.FilePath = "/tmp/c0de.png"
	svc := &fakeService{render: render}
	w := do(newRouter(svc), http.MethodPost, "/api/labels", `{"tracking_code":"PKG-0001","gradient_kind":"radial"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp renderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "c0de", resp.CodeID)
	assert.Equal(t, "/api/labels/c0de/image", resp.ImageURL)
	assert.Empty(t, resp.DataURI)
	assert.Equal(t, "PKG-0001", svc.payload)
	require.NotNil(t, svc.opts.Gradient)
	assert.Equal(t, qr.GradientRadial, svc.opts.Gradient.Kind)
	assert.Equal(t, qr.LabelOptions().Gradient.Start, svc.opts.Gradient.Start)
}

func TestCreateLabelErrors(t *testing.T) {
	t.Run("missing tracking code", func(t *testing.T) {
		w := do(newRouter(&fakeService{}), http.MethodPost, "/api/labels", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("invalid tracking code", func(t *testing.T) {
		svc := &fakeService{render: pngRender()}
		w := do(newRouter(svc), http.MethodPost, "/api/labels", `{"tracking_code":"bad code"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.payload)
	})
	t.Run("service rejects payload", func(t *testing.T) {
		svc := &fakeService{err: errorz.ErrInvalidPayload}
		w := do(newRouter(svc), http.MethodPost, "/api/labels", `{"tracking_code":"PKG-0001"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("storage failure", func(t *testing.T) {
		svc := &fakeService{err: errors.New("connection refused")}
		w := do(newRouter(svc), http.MethodPost, "/api/labels", `{"tracking_code":"PKG-0001"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestGetLabel(t *testing.T) {
	svc := &fakeService{record: &entity.QRCode{
		CodeID:   "c0de",
		Payload:  "https://track.example/PKG-0001",
		FilePath: "/tmp/c0de.png",
		Format:   "png",
		Strategy: qr.StrategyOrganic,
	}}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/labels/c0de", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp renderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/api/labels/c0de/image", resp.ImageURL)

	w = do(r, http.MethodGet, "/api/labels/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLabelImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c0de.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG stored"), 0644))
	svc := &fakeService{record: &entity.QRCode{CodeID: "c0de", FilePath: path, Format: "png"}}

	w := do(newRouter(svc), http.MethodGet, "/api/labels/c0de/image", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG stored", w.Body.String())
}

func TestLabelImageMissingForTextFallback(t *testing.T) {
	svc := &fakeService{record: &entity.QRCode{CodeID: "c0de", Payload: "https://track.example/PKG-0001", Strategy: qr.StrategyText}}

	w := do(newRouter(svc), http.MethodGet, "/api/labels/c0de/image", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "https://track.example/PKG-0001")
}

func TestRevokeLabel(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc), http.MethodDelete, "/api/labels/c0de", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c0de", svc.revoked)

	svc = &fakeService{err: errorz.ErrRenderNotFound}
	w = do(newRouter(svc), http.MethodDelete, "/api/labels/c0de", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLabels(t *testing.T) {
	svc := &fakeService{listed: []entity.QRCode{
		{CodeID: "new", TrackingCode: "PKG-0001", FilePath: "/tmp/new.png", Format: "png"},
		{CodeID: "old", TrackingCode: "PKG-0001", Strategy: qr.StrategyText},
	}}
	w := do(newRouter(svc), http.MethodGet, "/api/labels?tracking_code=PKG-0001", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TrackingCode string           `json:"tracking_code"`
		Labels       []renderResponse `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PKG-0001", svc.payload)
	require.Len(t, resp.Labels, 2)
	assert.Equal(t, "/api/labels/new/image", resp.Labels[0].ImageURL)
	assert.Empty(t, resp.Labels[1].ImageURL)

	for _, target := range []string{"/api/labels", "/api/labels?tracking_code=PKG%200001"} {
		svc = &fakeService{}
		w = do(newRouter(svc), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Empty(t, svc.payload)
	}
}
