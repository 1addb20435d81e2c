// Package config loads server configuration from config.yaml and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr    string `mapstructure:"addr"`
	BaseURL string `mapstructure:"base_url"`
	DataDir string `mapstructure:"data_dir"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// AdminEmails are promoted to the admin role at startup so every
	// employee always has an admin counterpart to message.
	AdminEmails []string `mapstructure:"admin_emails"`

	// KeepCompletedAt preserves the first completion timestamp when a
	// tracking item is reopened instead of clearing it.
	KeepCompletedAt bool `mapstructure:"keep_completed_at"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("formdesk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("session_ttl", 30*24*time.Hour)
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("keep_completed_at", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	for i, email := range cfg.AdminEmails {
		cfg.AdminEmails[i] = strings.TrimSpace(strings.ToLower(email))
	}

	return cfg, nil
}
