package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/core"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/internal/telemetry"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	tel     core.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "webscan",
	Short: "External reconnaissance scanner for a single host",
	Long: `webscan looks at a host the way an outsider would: it probes the common
service ports, inspects the TLS certificate for expiry, sweeps well-known
admin and API paths over HTTPS and classifies each response, then writes
everything to an xlsx report.

USAGE:
  webscan scan example.com            # Run one scan, print the findings table
  webscan scan https://example.com/x  # Scheme and path are stripped first
  webscan serve                       # Start the web front-end

CHECKS:
  Port Check    TCP connect against 18 common service ports
  SSL Check     Certificate chain on 443, expiry and days remaining
  URL Check     50 admin/API/login paths per open port, title-based triage

Findings are ordered deterministically and written under the report
directory (default "document").`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			cfg.Logger.Level = "debug"
		}

		var err error
		log, err = logger.New(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		tel, err = telemetry.New(cmd.Context(), cfg.Telemetry)
		if err != nil {
			log.Warnw("Telemetry initialization failed, continuing without it",
				"error", err,
			)
			tel = telemetry.NewNop()
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tel != nil {
			if err := tel.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to shut down telemetry: %v\n", err)
			}
		}
		if log != nil {
			// Sync errors on stdout/stderr are expected on Linux and can be safely ignored
			if err := log.Sync(); err != nil {
				if err.Error() != "sync /dev/stdout: invalid argument" && err.Error() != "sync /dev/stderr: invalid argument" {
					fmt.Fprintf(os.Stderr, "Warning: failed to sync logger: %v\n", err)
				}
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .webscan.yaml)")

	// Logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (json, console)")
	rootCmd.PersistentFlags().Bool("debug", false, "shorthand for --log-level debug")
	viper.BindPFlag("logger.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logger.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindEnv("logger.level", "WEBSCAN_LOG_LEVEL")
	viper.BindEnv("logger.format", "WEBSCAN_LOG_FORMAT")

	// Scanner defaults; all overridable from the config file or WEBSCAN_* env
	viper.SetDefault("scanner.port_timeout", "1s")
	viper.SetDefault("scanner.tls_timeout", "10s")
	viper.SetDefault("scanner.http_timeout", "5s")
	viper.SetDefault("scanner.workers", 20)
	viper.SetDefault("scanner.requests_per_second", 50.0)
	viper.SetDefault("scanner.burst_size", 20)
	viper.SetDefault("scanner.cache_size", 256)

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.rate_limit.requests_per_second", 10)
	viper.SetDefault("server.rate_limit.burst_size", 20)

	viper.SetDefault("report.directory", "document")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.service_name", "webscan")
	viper.SetDefault("telemetry.exporter_type", "otlp")
	viper.SetDefault("telemetry.endpoint", "localhost:4318")
	viper.SetDefault("telemetry.sample_rate", 1.0)

	viper.SetDefault("logger.output_paths", []string{"stdout"})
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".webscan")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WEBSCAN")

	// A missing config file is fine; flags, env and defaults cover everything.
	// An explicitly named or malformed file is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
