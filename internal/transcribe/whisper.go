package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Whisper transcribes audio through the OpenAI transcription API
type Whisper struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewWhisper creates a Whisper transcriber
func NewWhisper(logger zerolog.Logger, apiKey, baseURL, model string) (*Whisper, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcription API key is required")
	}
	if model == "" {
		model = "whisper-1"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Whisper{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.With().Str("component", "transcribe").Logger(),
	}, nil
}

// Transcribe runs speech-to-text over the audio file and returns timestamped
// segments in footage order.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	w.logger.Info().Str("audio", audioPath).Str("model", w.model).Msg("transcribing")

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: text})
	}

	// Some deployments return plain text only; fall back to one segment so
	// short clips still produce claims.
	if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		segments = append(segments, Segment{Start: 0, End: resp.Duration, Text: strings.TrimSpace(resp.Text)})
	}

	w.logger.Debug().Int("segments", len(segments)).Msg("transcription complete")
	return segments, nil
}
