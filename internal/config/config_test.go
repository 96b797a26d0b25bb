package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.BotToken = "123:abc"
		cfg.TempDir = "/tmp"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "missing token",
			modify:  func(c *Config) { c.BotToken = "" },
			wantErr: true,
		},
		{
			name:    "concurrency 0",
			modify:  func(c *Config) { c.MaxConcurrentDownloads = 0 },
			wantErr: true,
		},
		{
			name:    "concurrency 11",
			modify:  func(c *Config) { c.MaxConcurrentDownloads = 11 },
			wantErr: true,
		},
		{
			name:   "concurrency 10",
			modify: func(c *Config) { c.MaxConcurrentDownloads = 10 },
		},
		{
			name:    "search limit 0",
			modify:  func(c *Config) { c.SearchLimit = 0 },
			wantErr: true,
		},
		{
			name:    "search limit 51",
			modify:  func(c *Config) { c.SearchLimit = 51 },
			wantErr: true,
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.AudioFormat = "wma" },
			wantErr: true,
		},
		{
			name:   "opus with taglib",
			modify: func(c *Config) { c.AudioFormat = "opus" },
		},
		{
			name:    "unknown tagger",
			modify:  func(c *Config) { c.Tagger = "mutagen" },
			wantErr: true,
		},
		{
			name:   "id3v2 with mp3",
			modify: func(c *Config) { c.Tagger = "id3v2" },
		},
		{
			name: "id3v2 with m4a",
			modify: func(c *Config) {
				c.Tagger = "id3v2"
				c.AudioFormat = "m4a"
			},
			wantErr: true,
		},
		{
			name:    "empty temp dir",
			modify:  func(c *Config) { c.TempDir = "" },
			wantErr: true,
		},
		{
			name:    "zero download timeout",
			modify:  func(c *Config) { c.DownloadTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(TokenEnv, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `bot_token: "42:file"
max_concurrent_downloads: 5
search_limit: 10
audio_quality: 320K
tagger: id3v2
lyrics_timeout: 3s
cover_lookup: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}

	if cfg.BotToken != "42:file" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "42:file")
	}
	if cfg.MaxConcurrentDownloads != 5 {
		t.Errorf("MaxConcurrentDownloads = %d, want 5", cfg.MaxConcurrentDownloads)
	}
	if cfg.SearchLimit != 10 {
		t.Errorf("SearchLimit = %d, want 10", cfg.SearchLimit)
	}
	if cfg.AudioQuality != "320K" {
		t.Errorf("AudioQuality = %q, want %q", cfg.AudioQuality, "320K")
	}
	if cfg.Tagger != "id3v2" {
		t.Errorf("Tagger = %q, want %q", cfg.Tagger, "id3v2")
	}
	if cfg.LyricsTimeout != 3*time.Second {
		t.Errorf("LyricsTimeout = %v, want 3s", cfg.LyricsTimeout)
	}
	if cfg.CoverLookup {
		t.Error("CoverLookup = true, want false from file")
	}
	// untouched keys keep defaults
	if cfg.AudioFormat != "mp3" {
		t.Errorf("AudioFormat = %q, want default mp3", cfg.AudioFormat)
	}
}

func TestLoadConfigFileTokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "99:env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bot_token: \"42:file\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}
	if cfg.BotToken != "99:env" {
		t.Errorf("BotToken = %q, want env value %q", cfg.BotToken, "99:env")
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	cfg, err := LoadConfigFile("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfigFile() should return defaults for missing file, got error: %v", err)
	}
	if cfg.MaxConcurrentDownloads != 3 {
		t.Errorf("expected default MaxConcurrentDownloads=3, got %d", cfg.MaxConcurrentDownloads)
	}
	if cfg.SearchLimit != 20 {
		t.Errorf("expected default SearchLimit=20, got %d", cfg.SearchLimit)
	}
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	t.Setenv(TokenEnv, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.BotToken = "1:x"
	cfg.StatusAddr = ":8080"

	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("SaveConfigFile() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}
	if loaded.StatusAddr != ":8080" || loaded.DownloadTimeout != cfg.DownloadTimeout {
		t.Errorf("round trip mismatch: got %+v", loaded)
	}
}

func TestExpandHome(t *testing.T) {
	home := homeDir()
	tests := []struct {
		input string
		want  string
	}{
		{"~/tmp", filepath.Join(home, "tmp")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~notslash", "~notslash"},
	}

	for _, tt := range tests {
		got := ExpandHome(tt.input)
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
