// Package media turns a source URL into local artifacts the rest of the
// pipeline can consume: a mono 16 kHz audio track and video frames sampled at
// one frame per second of footage.
package media

import (
	"context"
	"errors"
	"os"
)

// ErrSourceUnavailable indicates the source could not be downloaded or decoded
var ErrSourceUnavailable = errors.New("source unavailable")

// Frame is one decoded video frame written to disk
type Frame struct {
	Timestamp float64 // seconds from start of footage
	Path      string
}

// Extraction is the product of one download+transcode run. It owns a
// temporary workspace; callers must Close it on every path.
type Extraction struct {
	AudioPath string
	Frames    []Frame

	workDir string
}

// Close removes the extraction workspace and everything in it
func (e *Extraction) Close() error {
	if e.workDir == "" {
		return nil
	}
	return os.RemoveAll(e.workDir)
}

// Extractor downloads a source URL and decodes it into local artifacts
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extraction, error)
}
