package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/courierhub/labelqr/internal/adapters/config"
	"github.com/courierhub/labelqr/internal/adapters/database/redis"
	"github.com/courierhub/labelqr/pkg/generator"
	"github.com/courierhub/labelqr/pkg/logger"
	"github.com/courierhub/labelqr/pkg/logger/types"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type Server struct {
	*gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Renderer *qr.Renderer
	Files    *generator.QRCode
	Options  qr.Options
	CacheTTL time.Duration
	Logger   *types.Logger
	// Journal holds recent entries at or above settings.log-hook-level.
	Journal *logger.Journal
}

func New(cfg *config.Config) (*Server, error) {
	serverLogger, err := logger.Named("http")
	if err != nil {
		return nil, err
	}
	renderLogger, err := logger.Named("render")
	if err != nil {
		return nil, err
	}

	provider, err := config.Provider()
	if err != nil {
		return nil, err
	}
	opts, err := config.RenderOptions()
	if err != nil {
		return nil, err
	}
	renderer := qr.NewRenderer(provider, renderLogger.SugaredLogger)

	journal := logger.NewJournal(viper.GetInt("settings.log-journal-size"))
	logger.SetLogHook(journal.Add)

	if !viper.GetBool("settings.debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Server{
		Engine:   engine,
		DB:       cfg.Database,
		Redis:    cfg.Redis,
		Renderer: renderer,
		Files:    generator.NewQrCode(renderer, viper.GetString("qr.output-dir")),
		Options:  opts,
		CacheTTL: viper.GetDuration("qr.cache-ttl"),
		Logger:   serverLogger,
		Journal:  journal,
	}, nil
}

// Start serves HTTP until SIGINT or SIGTERM and then drains open requests.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("service.http.port")),
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
