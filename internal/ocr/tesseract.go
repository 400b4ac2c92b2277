package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Tesseract reads frame text by shelling out to the tesseract binary
type Tesseract struct {
	logger   zerolog.Logger
	binPath  string
	language string
}

// NewTesseract creates a frame reader after resolving the binary in PATH
func NewTesseract(logger zerolog.Logger, binPath, language string) (*Tesseract, error) {
	if binPath == "" {
		binPath = "tesseract"
	}
	if language == "" {
		language = "eng"
	}

	resolved, err := exec.LookPath(binPath)
	if err != nil {
		return nil, fmt.Errorf("tesseract not found in PATH: %w", err)
	}

	return &Tesseract{
		logger:   logger.With().Str("component", "ocr").Logger(),
		binPath:  resolved,
		language: language,
	}, nil
}

// ReadFrame runs tesseract over one frame image and returns the non-empty
// text lines it recognized. A frame with no text yields an empty slice, not
// an error.
func (t *Tesseract) ReadFrame(ctx context.Context, framePath string) ([]string, error) {
	cmd := exec.CommandContext(ctx, t.binPath, framePath, "stdout", "-l", t.language, "--psm", "6")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrOCRFailed, framePath, err, strings.TrimSpace(stderr.String()))
	}

	var fragments []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			fragments = append(fragments, line)
		}
	}

	t.logger.Debug().Str("frame", framePath).Int("fragments", len(fragments)).Msg("frame read")
	return fragments, nil
}
