package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Supported audio file extensions
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".opus": true,
	".ogg":  true,
	".aac":  true,
	".webm": true,
}

var installHints = map[string]string{
	"yt-dlp": "pip install yt-dlp",
	"ffmpeg": "install it with your package manager",
}

// CheckDependencies verifies that the external commands the bot shells out to
// are installed.
func CheckDependencies(commands ...string) error {
	if len(commands) == 0 {
		commands = []string{"yt-dlp", "ffmpeg"}
	}
	for _, name := range commands {
		if _, err := exec.LookPath(name); err != nil {
			hint := installHints[name]
			if hint == "" {
				return fmt.Errorf("required command '%s' not found in PATH", name)
			}
			return fmt.Errorf("required command '%s' not found in PATH. Install with: %s", name, hint)
		}
	}
	return nil
}

// CreateTempDir creates a fresh directory under parent (os.TempDir() when empty).
func CreateTempDir(parent, pattern string) (string, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return "", fmt.Errorf("failed to create temp root %s: %w", parent, err)
		}
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes dir and everything in it.
// Safety check: only deletes directories strictly inside root.
func Cleanup(dir, root string) error {
	if dir == "" {
		return nil
	}

	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to delete directory outside temp folder: %s", dir)
	}

	return os.RemoveAll(dir)
}

// RemoveFile deletes path. A file that is already gone is not an error.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FindAudioFiles lists the audio files directly inside dir.
func FindAudioFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

const maxFileNameBytes = 200

// SanitizeFileName makes name safe to use as a file name on common
// filesystems. It returns "" when nothing usable is left.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(strings.TrimSpace(b.String()), ".")
	for len(out) > maxFileNameBytes {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	return strings.TrimSpace(out)
}
