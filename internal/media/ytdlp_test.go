package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnumerateFrames(t *testing.T) {
	dir := t.TempDir()
	// Out of lexical order on purpose, plus files ffmpeg never wrote.
	for _, name := range []string{"00003.jpg", "00001.jpg", "00002.jpg", "notes.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	frames, err := enumerateFrames(dir)
	if err != nil {
		t.Fatalf("enumerateFrames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, frame := range frames {
		if frame.Timestamp != float64(i) {
			t.Errorf("frame %d: expected timestamp %d, got %v", i, i, frame.Timestamp)
		}
	}
	if filepath.Base(frames[0].Path) != "00001.jpg" {
		t.Errorf("expected first frame 00001.jpg, got %s", frames[0].Path)
	}
}

func TestEnumerateFrames_EmptyDir(t *testing.T) {
	frames, err := enumerateFrames(t.TempDir())
	if err != nil {
		t.Fatalf("enumerateFrames: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("expected no frames, got %d", len(frames))
	}
}

func TestExtraction_CloseRemovesWorkspace(t *testing.T) {
	dir, err := os.MkdirTemp(t.TempDir(), "credibly-*")
	if err != nil {
		t.Fatal(err)
	}
	ext := &Extraction{workDir: dir}
	if err := ext.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected workspace removed, stat err = %v", err)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"only line", "only line"},
		{"first\nsecond\nthird\n", "third"},
	}
	for _, tt := range tests {
		if got := lastLine(tt.in); got != tt.want {
			t.Errorf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
