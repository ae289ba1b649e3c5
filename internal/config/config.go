package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Plex
	PlexURL       string
	PlexToken     string // explicit token, overrides Preferences.xml
	PlexPrefsPath string // Preferences.xml location when no token is set

	// Libraries
	TVLibraryID   string // preferred TV library, first matching used if empty
	FilmLibraryID string // preferred film library, first matching used if empty

	// Channels to record from; empty means every channel in the lineup
	Channels []string

	// Outbound request limits
	MaxInflightRequests int // simultaneous requests to the Plex server (default: 5)

	// History
	HistoryRetentionDays int // days to keep recording journal entries (default: 30)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/recordarr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("PLEX_URL", "http://localhost:32400")
	viper.SetDefault("MAX_INFLIGHT_REQUESTS", 5)
	viper.SetDefault("HISTORY_RETENTION_DAYS", 30)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "recordarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Plex
		PlexURL:       viper.GetString("PLEX_URL"),
		PlexToken:     viper.GetString("PLEX_TOKEN"),
		PlexPrefsPath: viper.GetString("PLEX_PREFS_PATH"),

		// Libraries
		TVLibraryID:   viper.GetString("TV_LIBRARY_ID"),
		FilmLibraryID: viper.GetString("FILM_LIBRARY_ID"),

		// Channels
		Channels: splitList(viper.GetString("CHANNELS")),

		// Outbound request limits
		MaxInflightRequests: viper.GetInt("MAX_INFLIGHT_REQUESTS"),

		// History
		HistoryRetentionDays: viper.GetInt("HISTORY_RETENTION_DAYS"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "recordarr.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate
	if config.MaxInflightRequests < 1 {
		return nil, fmt.Errorf("MAX_INFLIGHT_REQUESTS must be at least 1")
	}
	if config.HistoryRetentionDays < 1 {
		return nil, fmt.Errorf("HISTORY_RETENTION_DAYS must be at least 1")
	}

	return config, nil
}

// splitList parses a comma-separated value into trimmed, non-empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
