package metadata

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"go.senan.xyz/taglib"
)

// Minimal valid JPEG (smallest valid JFIF)
var fakeImage = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9,
}

// createTestAudioFile generates a minimal MP3 using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping tagger test")
	}

	path := filepath.Join(dir, "test.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", "-q:a", "9", path)
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

func TestNewTagger(t *testing.T) {
	for name, want := range map[string]string{"": "taglib", "taglib": "taglib", "id3v2": "id3v2"} {
		tg, err := NewTagger(name)
		if err != nil {
			t.Fatalf("NewTagger(%q) error: %v", name, err)
		}
		if tg.Name() != want {
			t.Errorf("NewTagger(%q).Name() = %q, want %q", name, tg.Name(), want)
		}
	}
	if _, err := NewTagger("mutagen"); err == nil {
		t.Error("expected error for unknown tagger")
	}
}

func TestTaglibWriteTags(t *testing.T) {
	path := createTestAudioFile(t, t.TempDir())

	err := TaglibTagger{}.WriteTags(path, Tags{Title: "Test Song", Artist: "Test Artist", Artwork: fakeImage})
	if err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatalf("failed to read tags: %v", err)
	}
	checks := map[string]string{
		taglib.Title:  "Test Song",
		taglib.Artist: "Test Artist",
	}
	for key, want := range checks {
		got := ""
		if vals, ok := tags[key]; ok && len(vals) > 0 {
			got = vals[0]
		}
		if got != want {
			t.Errorf("tag %s = %q, want %q", key, got, want)
		}
	}

	data, err := taglib.ReadImage(path)
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected embedded image data, got empty")
	}
}

func TestTaglibWriteTagsEmpty(t *testing.T) {
	path := createTestAudioFile(t, t.TempDir())

	if err := (TaglibTagger{}).WriteTags(path, Tags{}); err != nil {
		t.Fatalf("WriteTags with empty tags failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file missing after empty write: %v", err)
	}
}

func TestTaglibWriteTagsNonexistentFile(t *testing.T) {
	if err := (TaglibTagger{}).WriteTags("/nonexistent/file.mp3", Tags{Title: "x"}); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestID3WriteTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	audio := []byte("not really mpeg frames but id3v2 does not care")
	if err := os.WriteFile(path, audio, 0644); err != nil {
		t.Fatal(err)
	}

	err := ID3Tagger{}.WriteTags(path, Tags{Title: "Кукушка", Artist: "Кино", Artwork: fakeImage})
	if err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Кукушка" {
		t.Errorf("Title = %q", tag.Title())
	}
	if tag.Artist() != "Кино" {
		t.Errorf("Artist = %q", tag.Artist())
	}
	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("expected 1 picture frame, got %d", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok || pic.PictureType != id3v2.PTFrontCover {
		t.Errorf("expected front cover picture, got %#v", pics[0])
	}
}

func TestID3WriteTagsTwiceKeepsOneCover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	os.WriteFile(path, []byte("audio"), 0644)

	tg := ID3Tagger{}
	for i := 0; i < 2; i++ {
		if err := tg.WriteTags(path, Tags{Title: "x", Artwork: fakeImage}); err != nil {
			t.Fatalf("WriteTags #%d failed: %v", i+1, err)
		}
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 1 {
		t.Errorf("expected 1 picture frame, got %d", n)
	}
}

func TestID3WriteTagsNonexistentFile(t *testing.T) {
	if err := (ID3Tagger{}).WriteTags("/nonexistent/file.mp3", Tags{Title: "x"}); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
