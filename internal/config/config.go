// Package config provides configuration loading for mailscrub.
//
// Values come from an optional YAML file overridden by environment
// variables, with hardcoded defaults underneath. Deployment-flat names
// (BOT_TOKEN, PORT, LOG_LEVEL) are accepted alongside the canonical
// SECTION_FIELD forms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the complete mailscrub configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Telegram TelegramConfig `koanf:"telegram"`
	Cleaner  CleanerConfig  `koanf:"cleaner"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int      `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// TelegramConfig holds bot API configuration.
type TelegramConfig struct {
	Token         Secret   `koanf:"token"`
	PollTimeout   Duration `koanf:"poll_timeout"`
	MaxFileSizeMB int      `koanf:"max_file_size_mb" validate:"min=1,max=50"`
	SendRate      float64  `koanf:"send_rate" validate:"gt=0"`
}

// MaxFileSize returns the document size cap in bytes.
func (t TelegramConfig) MaxFileSize() int64 {
	return int64(t.MaxFileSizeMB) << 20
}

// CleanerConfig toggles the optional cleaning stages.
type CleanerConfig struct {
	Deobfuscate   bool `koanf:"deobfuscate"`
	RepairDomains bool `koanf:"repair_domains"`
	SortByDomain  bool `koanf:"sort_by_domain"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

var validate = validator.New()

// Validate checks field constraints. Token presence is not checked here:
// only the serve path needs one, and it enforces that itself.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 10000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = Duration(30 * time.Second)
	}
	if cfg.Telegram.MaxFileSizeMB == 0 {
		cfg.Telegram.MaxFileSizeMB = 20
	}
	if cfg.Telegram.SendRate == 0 {
		cfg.Telegram.SendRate = 25
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// applyEnvAliases maps deployment-flat environment names onto config
// fields. An alias overrides file values but loses to the canonical
// SECTION_FIELD environment form.
func applyEnvAliases(cfg *Config) {
	if os.Getenv("TELEGRAM_TOKEN") == "" {
		for _, key := range []string{"BOT_TOKEN", "TELEGRAM_BOT_TOKEN"} {
			if v := os.Getenv(key); v != "" {
				cfg.Telegram.Token = Secret(v)
				break
			}
		}
	}
	if os.Getenv("SERVER_PORT") == "" {
		if v := os.Getenv("PORT"); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				cfg.Server.Port = port
			}
		}
	}
	if os.Getenv("LOGGING_LEVEL") == "" {
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			cfg.Logging.Level = v
		}
	}
	if os.Getenv("LOGGING_FORMAT") == "" {
		if v := os.Getenv("LOG_FORMAT"); v != "" {
			cfg.Logging.Format = v
		}
	}
}
