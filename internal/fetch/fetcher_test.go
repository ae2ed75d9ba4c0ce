package fetch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputNameUnique(t *testing.T) {
	first := outputName("Sandstorm", "Darude")
	second := outputName("Sandstorm", "Darude")

	if first == second {
		t.Error("Expected unique output names for identical tracks")
	}

	if !strings.HasPrefix(first, "Sandstorm - Darude") {
		t.Errorf("Expected name derived from title and artist, got %q", first)
	}
}

func TestOutputNameSanitized(t *testing.T) {
	name := outputName(`AC/DC: "Thunderstruck"`, "AC/DC")

	if strings.ContainsAny(name, `/\<>:"|?*`) {
		t.Errorf("Expected sanitized name, got %q", name)
	}
}

func TestCleanupPartial(t *testing.T) {
	tmpDir := t.TempDir()
	f := New(tmpDir)

	// The bracketed ID suffix is the interesting case: it must not be
	// interpreted as a glob character class.
	base := filepath.Join(tmpDir, outputName("Sandstorm", "Darude"))
	for _, ext := range []string{".mp3.part", ".webm", ".mp3"} {
		if err := os.WriteFile(base+ext, []byte("partial"), 0644); err != nil {
			t.Fatalf("Failed to create fixture: %v", err)
		}
	}
	unrelated := filepath.Join(tmpDir, "other.mp3")
	if err := os.WriteFile(unrelated, []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}

	f.cleanupPartial(base)

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read download dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "other.mp3" {
			t.Errorf("Expected partial artifact %q removed", entry.Name())
		}
	}

	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Expected unrelated file to survive cleanup")
	}
}

func TestClassifyRunError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"ERROR: [youtube:search] query: No video results", ErrSourceNotFound},
		{"playlist does not contain any videos", ErrSourceNotFound},
		{"write /downloads/x.mp3: no space left on device", ErrIO},
		{"open /downloads: permission denied", ErrIO},
		{"ERROR: Postprocessing: ffmpeg exited with code 1", ErrTranscode},
		{"something unexpected", ErrTranscode},
	}

	for _, tt := range tests {
		got := classifyRunError(errors.New(tt.msg))
		if !errors.Is(got, tt.want) {
			t.Errorf("classifyRunError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
