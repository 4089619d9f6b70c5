package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Report sinks
const (
	ReportSinkFile     = "file"
	ReportSinkPostgres = "postgres"
	ReportSinkNone     = "none"
)

// ReportConfig selects where run reports are written
type ReportConfig struct {
	Sink     string
	Dir      string
	Postgres *PostgresConfig
}

// LoadReportConfig loads report sink configuration from environment variables
func LoadReportConfig(getenv func(string) string) (*ReportConfig, error) {
	config := &ReportConfig{
		Sink: strings.ToLower(getenv("REPORT_SINK")),
		Dir:  getenv("REPORT_DIR"),
	}
	if config.Sink == "" {
		config.Sink = ReportSinkFile
	}
	if config.Dir == "" {
		config.Dir = "reports"
	}

	switch config.Sink {
	case ReportSinkFile, ReportSinkNone:
	case ReportSinkPostgres:
		pg, err := LoadPostgresConfig(getenv)
		if err != nil {
			return nil, fmt.Errorf("postgres report sink: %w", err)
		}
		config.Postgres = pg
	default:
		return nil, fmt.Errorf("unsupported REPORT_SINK: %s", config.Sink)
	}

	return config, nil
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// LoadLoggerConfig loads logging configuration from environment variables
func LoadLoggerConfig(getenv func(string) string) LoggerConfig {
	config := LoggerConfig{
		Level:      strings.ToLower(getenv("LOG_LEVEL")),
		File:       getenv("LOG_FILE"),
		MaxSizeMB:  atoiOr(getenv("LOG_MAX_SIZE_MB"), 10),
		MaxBackups: atoiOr(getenv("LOG_MAX_BACKUPS"), 3),
	}
	if config.Level == "" {
		config.Level = "info"
	}
	if getenv("DEBUG") == "true" {
		config.Level = "debug"
	}
	return config
}

func atoiOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
