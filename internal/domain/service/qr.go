package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/courierhub/labelqr/internal/domain/common/errorz"
	"github.com/courierhub/labelqr/internal/domain/entity"
	"github.com/courierhub/labelqr/internal/domain/utils/validator"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type qrRenderer interface {
	Render(payload []byte, opts qr.Options) (*qr.Result, error)
}

type qrFileStore interface {
	Save(res *qr.Result) (id, path string, err error)
	Delete(filePath string) error
}

type qrCodeStorage interface {
	Create(ctx context.Context, code *entity.QRCode) (*entity.QRCode, error)
	Get(ctx context.Context, codeID string) (*entity.QRCode, error)
	GetByTrackingCode(ctx context.Context, trackingCode string) ([]entity.QRCode, error)
	Delete(ctx context.Context, codeID string) error
}

type qrRenderCache interface {
	Get(ctx context.Context, key string) (entity.CachedRender, bool, error)
	Set(ctx context.Context, key string, render entity.CachedRender, expiration time.Duration) error
	Clear(ctx context.Context, key string) error
}

type baseURLResolver interface {
	Resolve() (string, error)
}

type QrService struct {
	renderer qrRenderer
	files    qrFileStore
	storage  qrCodeStorage
	cache    qrRenderCache
	baseURL  baseURLResolver
	cacheTTL time.Duration
	log      *zap.SugaredLogger
}

// NewQrService wires the label pipeline. cache may be nil.
func NewQrService(renderer qrRenderer, files qrFileStore, storage qrCodeStorage, cache qrRenderCache, baseURL baseURLResolver, cacheTTL time.Duration, log *zap.SugaredLogger) *QrService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &QrService{
		renderer: renderer,
		files:    files,
		storage:  storage,
		cache:    cache,
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// LabelPayload builds the tracking URL printed on a parcel label.
func (s *QrService) LabelPayload(trackingCode string) (string, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return "", errorz.ErrEmptyTrackingCode
	}
	if !validator.TrackingCode(code) {
		return "", fmt.Errorf("%w: tracking code %q", errorz.ErrInvalidPayload, code)
	}
	base, err := s.baseURL.Resolve()
	if err != nil {
		return "", err
	}
	return base + "/track/" + url.PathEscape(code), nil
}

// LabelQR renders, stores and caches the label code of a parcel. When every
// image strategy failed the returned render has no image and the payload
// should be printed as text.
func (s *QrService) LabelQR(ctx context.Context, trackingCode string, opts qr.Options) (entity.CachedRender, error) {
	payload, err := s.LabelPayload(trackingCode)
	if err != nil {
		return entity.CachedRender{}, err
	}
	key := cacheKey("label", payload, opts)
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	res, err := s.renderer.Render([]byte(payload), opts)
	if err != nil {
		return entity.CachedRender{}, err
	}
	codeID, path, err := s.files.Save(res)
	if err != nil {
		return entity.CachedRender{}, err
	}
	if codeID == "" {
		codeID = uuid.New().String()
	}

	record := &entity.QRCode{
		CodeID:       codeID,
		TrackingCode: strings.TrimSpace(trackingCode),
		Payload:      payload,
		CacheKey:     key,
		FilePath:     path,
		Level:        res.Level.String(),
		Strategy:     res.Strategy,
		Degraded:     res.Degraded,
		Monochrome:   opts.Monochrome,
		Width:        res.Width,
		Warnings:     warningStrings(res.Warnings),
	}
	if res.Image != nil {
		record.Format = res.Format.String()
	}
	if _, err = s.storage.Create(ctx, record); err != nil {
		if delErr := s.files.Delete(path); delErr != nil {
			s.log.Errorw("failed to remove orphaned qr file", "path", path, "error", delErr)
		}
		return entity.CachedRender{}, fmt.Errorf("failed to store qr code: %w", err)
	}

	render := toCachedRender(res, codeID, path)
	s.store(ctx, key, render)
	s.log.Infow("label qr rendered", "code_id", codeID, "tracking_code", record.TrackingCode, "strategy", res.Strategy, "degraded", res.Degraded)
	return render, nil
}

// Render renders an arbitrary payload without persisting it.
func (s *QrService) Render(ctx context.Context, payload string, opts qr.Options) (entity.CachedRender, error) {
	if strings.TrimSpace(payload) == "" {
		return entity.CachedRender{}, fmt.Errorf("%w: empty payload", errorz.ErrInvalidPayload)
	}
	key := cacheKey("adhoc", payload, opts)
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}
	res, err := s.renderer.Render([]byte(payload), opts)
	if err != nil {
		return entity.CachedRender{}, err
	}
	render := toCachedRender(res, "", "")
	s.store(ctx, key, render)
	return render, nil
}

func (s *QrService) Get(ctx context.Context, codeID string) (*entity.QRCode, error) {
	return s.storage.Get(ctx, codeID)
}

// List returns the stored label codes of a parcel, newest first.
func (s *QrService) List(ctx context.Context, trackingCode string) ([]entity.QRCode, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return nil, errorz.ErrEmptyTrackingCode
	}
	if !validator.TrackingCode(code) {
		return nil, fmt.Errorf("%w: tracking code %q", errorz.ErrInvalidPayload, code)
	}
	return s.storage.GetByTrackingCode(ctx, code)
}

// Revoke deletes a stored label code, its image file and its cache entry.
func (s *QrService) Revoke(ctx context.Context, codeID string) error {
	record, err := s.storage.Get(ctx, codeID)
	if err != nil {
		return err
	}
	if err = s.storage.Delete(ctx, codeID); err != nil {
		return err
	}
	if err = s.files.Delete(record.FilePath); err != nil {
		s.log.Warnw("failed to delete qr file", "code_id", codeID, "error", err)
	}
	if s.cache != nil && record.CacheKey != "" {
		if err = s.cache.Clear(ctx, record.CacheKey); err != nil {
			s.log.Warnw("failed to clear cached render", "code_id", codeID, "error", err)
		}
	}
	return nil
}

func (s *QrService) cached(ctx context.Context, key string) (entity.CachedRender, bool) {
	if s.cache == nil {
		return entity.CachedRender{}, false
	}
	render, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warnw("render cache read failed", "error", err)
		return entity.CachedRender{}, false
	}
	return render, ok
}

func (s *QrService) store(ctx context.Context, key string, render entity.CachedRender) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, render, s.cacheTTL); err != nil {
		s.log.Warnw("render cache write failed", "error", err)
	}
}

func cacheKey(kind, payload string, opts qr.Options) string {
	sum := sha256.Sum256([]byte(kind + "|" + payload + "|" + opts.Fingerprint()))
	return hex.EncodeToString(sum[:])
}

func toCachedRender(res *qr.Result, codeID, path string) entity.CachedRender {
	r := entity.CachedRender{
		CodeID:     codeID,
		FilePath:   path,
		Image:      res.Image,
		Width:      res.Width,
		MatrixSize: res.MatrixSize,
		Level:      res.Level.String(),
		Payload:    res.Payload,
		Strategy:   res.Strategy,
		Degraded:   res.Degraded,
		Warnings:   warningStrings(res.Warnings),
	}
	if res.Image != nil {
		r.Format = res.Format.String()
	}
	return r
}

func warningStrings(warnings []error) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Error())
	}
	return out
}

// IsClientError reports whether err was caused by the request rather than
// by the service.
func IsClientError(err error) bool {
	return errors.Is(err, errorz.ErrEmptyTrackingCode) ||
		errors.Is(err, errorz.ErrInvalidPayload) ||
		errors.Is(err, qr.ErrInvalidOptions) ||
		errors.Is(err, qr.ErrEncoding)
}
