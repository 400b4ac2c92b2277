// Package transcribe converts an audio track into timestamped text segments.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrTranscriptionFailed indicates the speech-to-text engine failed
var ErrTranscriptionFailed = errors.New("transcription failed")

// Segment is one timestamped piece of transcribed speech
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Duration returns the segment length in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Transcriber produces timestamped segments from an audio file
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// Blob renders segments as a single text block, one segment per line, each
// line prefixed with the segment duration formatted to two decimals.
func Blob(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%.2fs: %s", seg.Duration(), strings.TrimSpace(seg.Text))
	}
	return b.String()
}
