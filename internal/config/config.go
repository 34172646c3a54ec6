package config

import (
	"fmt"
	"os"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/analytics"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/loader"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the analyzer.
type Config struct {
	General GeneralConfig        `yaml:"general"`
	Data    DataConfig           `yaml:"data"`
	Server  ServerConfig         `yaml:"server"`
	Risk    analytics.RiskConfig `yaml:"risk"`
}

type GeneralConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json|text
}

type DataConfig struct {
	// Dir holds one CSV strategy log per file.
	Dir string `yaml:"dir"`
	// RefreshCron is a cron spec (with seconds) for re-scanning Dir while
	// serving. Empty disables periodic refresh.
	RefreshCron string        `yaml:"refresh_cron"`
	Schema      loader.Schema `yaml:"schema"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply defaults
	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.General.LogFormat == "" {
		cfg.General.LogFormat = "json"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.RefreshCron == "" {
		cfg.Data.RefreshCron = "0 */5 * * * *" // every 5 minutes
	}
	if cfg.Data.Schema.Date == "" {
		cfg.Data.Schema.Date = "Date"
	}
	if cfg.Data.Schema.Profit == "" {
		cfg.Data.Schema.Profit = "Profit"
	}
	if cfg.Data.Schema.PnLPercentage == "" {
		cfg.Data.Schema.PnLPercentage = "Pnl_Percentage"
	}
	if cfg.Data.Schema.TradeCount == "" {
		cfg.Data.Schema.TradeCount = "No_of_Trades"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8087"
	}
	if cfg.Risk.AnnualizationFactor == 0 {
		cfg.Risk.AnnualizationFactor = 252
	}
	if cfg.Risk.AnnualRiskFreeRate == 0 {
		cfg.Risk.AnnualRiskFreeRate = 0.05
	}
}
