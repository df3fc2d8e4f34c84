package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDownloadURL is the upstream Windows installer. No mirror or
// version negotiation exists upstream; the URL always points at the
// latest build.
const DefaultDownloadURL = "https://storage.googleapis.com/osprey-downloads-c02f6a0d-347c-492b-a752-3e0651722e97/nest-win-x64/Claude-Setup-x64.exe"

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Build   BuildConfig   `mapstructure:"build"`
	Desktop DesktopConfig `mapstructure:"desktop"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	WorkDir   string `mapstructure:"work_dir"`
	OutputDir string `mapstructure:"output_dir"`
	DBFile    string `mapstructure:"db_file"`
	LogFile   string `mapstructure:"log_file"`
}

// BuildConfig controls the repackaging pipeline
type BuildConfig struct {
	DownloadURL string `mapstructure:"download_url"`
	// Sha256 gates the downloaded installer when non-empty. Upstream
	// publishes no digests, so the default is no verification.
	Sha256          string `mapstructure:"sha256"`
	ElectronCommand string `mapstructure:"electron_command"`
	AsarCommand     string `mapstructure:"asar_command"`
	NpmCommand      string `mapstructure:"npm_command"`
}

// DesktopConfig contains desktop integration configuration
type DesktopConfig struct {
	ElectronDisableSandbox bool `mapstructure:"electron_disable_sandbox"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "claudeport"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("CLAUDEPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.WorkDir = expandPath(cfg.Paths.WorkDir)
	cfg.Paths.OutputDir = expandPath(cfg.Paths.OutputDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "claudeport")

	viper.SetDefault("paths.data_dir", dataDir)
	viper.SetDefault("paths.work_dir", filepath.Join(dataDir, "work"))
	viper.SetDefault("paths.output_dir", filepath.Join(dataDir, "output"))
	viper.SetDefault("paths.db_file", filepath.Join(dataDir, "builds.db"))
	viper.SetDefault("paths.log_file", filepath.Join(dataDir, "claudeport.log"))

	viper.SetDefault("build.download_url", DefaultDownloadURL)
	viper.SetDefault("build.sha256", "")
	viper.SetDefault("build.electron_command", "electron")
	viper.SetDefault("build.asar_command", "asar")
	viper.SetDefault("build.npm_command", "npm")

	viper.SetDefault("desktop.electron_disable_sandbox", false) // Sandbox enabled by default for security

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	path = os.ExpandEnv(path)

	return path
}
