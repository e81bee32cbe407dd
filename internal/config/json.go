package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/naazbookdepot/shopauth/internal/flagx"
)

// jsonConfig mirrors Config for file loading. Absent keys keep the value
// already in Config.
type jsonConfig struct {
	Addr            *string `json:"addr"`
	DatabaseDSN     *string `json:"database_dsn"`
	SecretKey       *string `json:"secret_key"`
	RedisAddr       *string `json:"redis_addr"`
	Environment     *string `json:"environment"`
	MetricsEnabled  *bool   `json:"metrics_enabled"`
	LogLevel        *string `json:"log_level"`
	ShutdownTimeout *string `json:"shutdown_timeout"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var c jsonConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Addr, c.Addr)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	setString(&cfg.RedisAddr, c.RedisAddr)
	setString(&cfg.Environment, c.Environment)
	setString(&cfg.LogLevel, c.LogLevel)
	if c.MetricsEnabled != nil {
		cfg.MetricsEnabled = *c.MetricsEnabled
	}
	if c.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*c.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
