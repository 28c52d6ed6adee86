package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	postgresStorage "github.com/courierhub/labelqr/internal/adapters/database/postgres"
	"github.com/courierhub/labelqr/internal/adapters/database/redis"
	"github.com/courierhub/labelqr/pkg/logger"
	qr "github.com/courierhub/labelqr/pkg/qrcode"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Config struct {
	Database *gorm.DB
	Redis    *redis.Client
}

func setDefaults() {
	viper.SetDefault("settings.timezone", "UTC")
	viper.SetDefault("settings.log-hook-level", "warn")
	viper.SetDefault("settings.log-journal-size", 200)
	viper.SetDefault("service.http.port", 8080)
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.redis.renders-db", 0)

	viper.SetDefault("qr.default-base-url", "http://localhost:8080")
	viper.SetDefault("qr.output-dir", "qrcodes")
	viper.SetDefault("qr.cache-ttl", "24h")
	viper.SetDefault("qr.provider", "skip2")
	viper.SetDefault("qr.format", "png")

	d := qr.LabelOptions()
	viper.SetDefault("qr.module-size", d.ModuleSize)
	viper.SetDefault("qr.border-size", d.BorderSize)
	viper.SetDefault("qr.max-corner-radius", d.MaxCornerRadius)
	viper.SetDefault("qr.background", "#ffffff")
	viper.SetDefault("qr.foreground", "#102040")
	viper.SetDefault("qr.gradient.start", "#102040")
	viper.SetDefault("qr.gradient.end", "#005c5c")
	viper.SetDefault("qr.gradient.kind", "diagonal")
	viper.SetDefault("qr.level", d.Level.String())
	viper.SetDefault("qr.occlusion-budget", qr.DefaultOcclusionBudget)
	viper.SetDefault("qr.logo.zoom", 1.0)
}

// Load reads config.yaml from the working directory, if present, and the
// environment. QR_MODULE_SIZE overrides qr.module-size and so on.
func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var loc *time.Location
	if tz := viper.GetString("settings.timezone"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid settings.timezone: %w", err)
		}
		loc = l
	}
	var hookLevel zapcore.Level
	if err := hookLevel.UnmarshalText([]byte(viper.GetString("settings.log-hook-level"))); err != nil {
		return fmt.Errorf("invalid settings.log-hook-level: %w", err)
	}
	return logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: loc,
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
		Prefix:       viper.GetString("settings.log-prefix"),
		HookLevel:    hookLevel,
	})
}

// Get connects to postgres and redis. It panics when either is unreachable.
func Get() *Config {
	if err := Load(); err != nil {
		panic(err)
	}

	var gormConfig *gorm.Config
	if viper.GetBool("settings.debug") {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{}
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=%s",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
		viper.GetString("settings.timezone"),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}

	redisClient, err := redis.New(context.Background(), redis.Options{
		Host:      viper.GetString("service.redis.host"),
		Port:      viper.GetString("service.redis.port"),
		Password:  viper.GetString("service.redis.password"),
		RendersDB: viper.GetInt("service.redis.renders-db"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	return &Config{
		Database: database,
		Redis:    redisClient,
	}
}
