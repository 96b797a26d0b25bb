package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable that overrides bot_token from the file.
const TokenEnv = "BOT_TOKEN"

// Config contains the bot configuration
type Config struct {
	BotToken               string        `yaml:"bot_token"`
	Verbose                bool          `yaml:"verbose"`
	MaxConcurrentDownloads int           `yaml:"max_concurrent_downloads"`
	SearchLimit            int           `yaml:"search_limit"`
	AudioFormat            string        `yaml:"audio_format"`
	AudioQuality           string        `yaml:"audio_quality"`
	CookiesBrowser         string        `yaml:"cookies_browser"`
	TempDir                string        `yaml:"temp_dir"`
	Tagger                 string        `yaml:"tagger"`
	StatusAddr             string        `yaml:"status_addr"`
	CoverLookup            bool          `yaml:"cover_lookup"`
	SearchTimeout          time.Duration `yaml:"search_timeout"`
	LyricsTimeout          time.Duration `yaml:"lyrics_timeout"`
	DownloadTimeout        time.Duration `yaml:"download_timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Verbose:                false,
		MaxConcurrentDownloads: 3,
		SearchLimit:            20,
		AudioFormat:            "mp3",
		AudioQuality:           "192K",
		TempDir:                os.TempDir(),
		Tagger:                 "taglib",
		CoverLookup:            true,
		SearchTimeout:          15 * time.Second,
		LyricsTimeout:          10 * time.Second,
		DownloadTimeout:        5 * time.Minute,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
// The BOT_TOKEN environment variable, when set, wins over the file.
func LoadConfigFile(path string) (Config, error) {
	cfg, err := loadFile(path)
	if tok := os.Getenv(TokenEnv); tok != "" {
		cfg.BotToken = tok
	}
	return cfg, err
}

func loadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.TempDir = ExpandHome(cfg.TempDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./ytmusicbot.yaml",
		"./ytmusicbot.yml",
		filepath.Join(home, ".config", "ytmusicbot", "config.yaml"),
		filepath.Join(home, ".config", "ytmusicbot", "config.yml"),
		filepath.Join(home, ".ytmusicbot.yaml"),
		filepath.Join(home, ".ytmusicbot.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold the bot token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "ytmusicbot", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "ytmusicbot", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot_token cannot be empty (set it in the config file or %s)", TokenEnv)
	}

	if c.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max_concurrent_downloads must be at least 1, got %d", c.MaxConcurrentDownloads)
	}
	if c.MaxConcurrentDownloads > 10 {
		return fmt.Errorf("max_concurrent_downloads cannot exceed 10 (to avoid rate limiting), got %d", c.MaxConcurrentDownloads)
	}

	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		return fmt.Errorf("search_limit must be between 1 and 50, got %d", c.SearchLimit)
	}

	validFormats := []string{"mp3", "m4a", "opus"}
	isValid := false
	for _, format := range validFormats {
		if c.AudioFormat == format {
			isValid = true
			break
		}
	}
	if !isValid {
		return fmt.Errorf("unsupported audio format '%s', valid formats: %v", c.AudioFormat, validFormats)
	}

	if c.Tagger != "taglib" && c.Tagger != "id3v2" {
		return fmt.Errorf("unknown tagger %q, valid taggers: taglib, id3v2", c.Tagger)
	}
	if c.Tagger == "id3v2" && c.AudioFormat != "mp3" {
		return fmt.Errorf("tagger id3v2 only supports mp3, got audio format %q", c.AudioFormat)
	}

	if c.TempDir == "" {
		return fmt.Errorf("temp_dir cannot be empty")
	}

	if c.SearchTimeout <= 0 || c.LyricsTimeout <= 0 || c.DownloadTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	return nil
}
