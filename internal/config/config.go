package config

import (
	"fmt"
	"time"
)

type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Server    ServerConfig    `mapstructure:"server"`
	Report    ReportConfig    `mapstructure:"report"`
}

type LoggerConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	ExporterType string  `mapstructure:"exporter_type"`
	Endpoint     string  `mapstructure:"endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

type ScannerConfig struct {
	PortTimeout time.Duration `mapstructure:"port_timeout"`
	TLSTimeout  time.Duration `mapstructure:"tls_timeout"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Workers     int           `mapstructure:"workers"`
	// Politeness limit applied to outbound path probes.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
	// Bound on the per-scan URL result cache.
	CacheSize int `mapstructure:"cache_size"`
}

type ServerConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	BurstSize         int `mapstructure:"burst_size"`
}

type ReportConfig struct {
	Directory string `mapstructure:"directory"`
}

func (c *Config) Validate() error {
	if c.Scanner.Workers <= 0 {
		return fmt.Errorf("scanner.workers must be positive, got %d", c.Scanner.Workers)
	}
	if c.Scanner.PortTimeout <= 0 || c.Scanner.TLSTimeout <= 0 || c.Scanner.HTTPTimeout <= 0 {
		return fmt.Errorf("scanner timeouts must be positive")
	}
	if c.Report.Directory == "" {
		return fmt.Errorf("report.directory must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stdout"},
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "webscan",
			ExporterType: "otlp",
			Endpoint:     "localhost:4318",
			SampleRate:   1.0,
		},
		Scanner: ScannerConfig{
			PortTimeout:       1 * time.Second,
			TLSTimeout:        10 * time.Second,
			HTTPTimeout:       5 * time.Second,
			Workers:           20,
			RequestsPerSecond: 50,
			BurstSize:         20,
			CacheSize:         256,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				BurstSize:         20,
			},
		},
		Report: ReportConfig{
			Directory: "document",
		},
	}
}
