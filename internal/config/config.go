package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database    DatabaseConfig   `json:"database"`
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	JWTTTLHours int              `json:"jwt_ttl_hours"`
	LogConfig   logger.LogConfig `json:"log_config"`
	FileStore   FileStoreConfig  `json:"file_store"`
	Export      ExportConfig     `json:"export"`
	CORSOrigins []string         `json:"cors_origins"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ExportConfig struct {
	// OpTimeoutSeconds bounds every remote store call; a hung backend
	// surfaces as a timeout instead of wedging the caller forever.
	OpTimeoutSeconds int `json:"op_timeout_seconds"`
	// ArtifactMaxAgeHours is how long generated PDFs stay downloadable.
	ArtifactMaxAgeHours int `json:"artifact_max_age_hours"`
	// CleanupSpec is a five-field cron expression for the pruning job.
	CleanupSpec string `json:"cleanup_spec"`
	// ImageCacheSize caps the decoded embedded-image LRU.
	ImageCacheSize int `json:"image_cache_size"`
	// RateLimitSeconds is the minimum gap between export triggers.
	RateLimitSeconds int `json:"rate_limit_seconds"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	if cfg.Export.OpTimeoutSeconds <= 0 {
		cfg.Export.OpTimeoutSeconds = 10
	}
	if cfg.Export.ArtifactMaxAgeHours <= 0 {
		cfg.Export.ArtifactMaxAgeHours = 72
	}
	if cfg.Export.CleanupSpec == "" {
		cfg.Export.CleanupSpec = "30 3 * * *"
	}
	if cfg.Export.ImageCacheSize <= 0 {
		cfg.Export.ImageCacheSize = 32
	}
	if cfg.Export.RateLimitSeconds <= 0 {
		cfg.Export.RateLimitSeconds = 10
	}
	return &cfg, nil
}
