package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SettingsFileEnvVar  = "SETTINGS_FILE"
	EnvPathEnvVar       = "PORTRAIT_SCREENSHOT"
	DefaultSettingsName = ".portrait_screenshot_settings.json"
	DefaultLogFileName  = "portrait_screenshot_debug.log"
)

// ErrConfig marks malformed or unreadable configuration. Callers recover by
// falling back to defaults.
var ErrConfig = errors.New("config error")

type LoadOptions struct {
	SettingsPathOverride string
	LogFileOverride      string
}

// Config is the process-level configuration resolved from the environment.
// User-editable settings live in the Settings file it points at.
type Config struct {
	SettingsPath      string
	EnableFileLogging bool
	LogFile           string
	HotkeyOverride    string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) .env in the executable directory
	// 2) otherwise the file named by PORTRAIT_SCREENSHOT
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		SettingsPath:      resolveSettingsPath(opts),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		LogFile:           getEnvWithDefault("LOG_FILE", DefaultLogFileName),
		HotkeyOverride:    strings.TrimSpace(os.Getenv("HOTKEY")),
	}
	if override := strings.TrimSpace(opts.LogFileOverride); override != "" {
		cfg.LogFile = override
		cfg.EnableFileLogging = true
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveSettingsPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.SettingsPathOverride); override != "" {
		return override
	}
	if envPath := strings.TrimSpace(os.Getenv(SettingsFileEnvVar)); envPath != "" {
		return envPath
	}
	return filepath.Join(homeDir(), DefaultSettingsName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
