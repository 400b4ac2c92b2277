// Package ocr reads on-screen text out of sampled video frames.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrOCRFailed indicates the text recognizer failed on a frame
var ErrOCRFailed = errors.New("ocr failed")

// Observation is the on-screen text found in one sampled frame
type Observation struct {
	Timestamp float64  `json:"timestamp"` // seconds from start of footage
	Fragments []string `json:"fragments"`
}

// FrameReader extracts text fragments from a single frame image
type FrameReader interface {
	ReadFrame(ctx context.Context, framePath string) ([]string, error)
}

// Blob renders observations as a single text block, one timestamped line per
// frame that actually contained text.
func Blob(observations []Observation) string {
	var b strings.Builder
	first := true
	for _, obs := range observations {
		if len(obs.Fragments) == 0 {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		fmt.Fprintf(&b, "%.0fs: %s", obs.Timestamp, strings.Join(obs.Fragments, " "))
	}
	return b.String()
}
