package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// YtDlp downloads videos with yt-dlp and decodes them with ffmpeg
type YtDlp struct {
	logger     zerolog.Logger
	ytdlpPath  string
	ffmpegPath string
	workRoot   string        // parent for per-run workspaces; empty means os.TempDir
	timeout    time.Duration // per-run deadline covering download and transcode
}

// NewYtDlp creates an extractor after resolving both binaries in PATH
func NewYtDlp(logger zerolog.Logger, ytdlpPath, ffmpegPath, workRoot string, timeout time.Duration) (*YtDlp, error) {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	resolvedYtDlp, err := exec.LookPath(ytdlpPath)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp not found in PATH: %w", err)
	}
	resolvedFFmpeg, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	return &YtDlp{
		logger:     logger.With().Str("component", "media").Logger(),
		ytdlpPath:  resolvedYtDlp,
		ffmpegPath: resolvedFFmpeg,
		workRoot:   workRoot,
		timeout:    timeout,
	}, nil
}

// Extract downloads the URL and produces the audio track and sampled frames.
// The workspace is removed before returning on every failure path; on success
// the caller owns it through Extraction.Close.
func (y *YtDlp) Extract(ctx context.Context, url string) (*Extraction, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp(y.workRoot, "credibly-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	extraction, err := y.extractInto(ctx, url, workDir)
	if err != nil {
		_ = os.RemoveAll(workDir)
		return nil, err
	}
	return extraction, nil
}

func (y *YtDlp) extractInto(ctx context.Context, url, workDir string) (*Extraction, error) {
	videoPath := filepath.Join(workDir, "video.mp4")

	y.logger.Info().Str("url", url).Msg("downloading source")
	if err := y.run(ctx, y.ytdlpPath,
		"--no-playlist",
		"--force-overwrites",
		"-f", "mp4/bestvideo*+bestaudio/best",
		"-o", videoPath,
		url,
	); err != nil {
		return nil, fmt.Errorf("%w: download %s: %s", ErrSourceUnavailable, url, err)
	}

	audioPath := filepath.Join(workDir, "audio.wav")
	y.logger.Debug().Str("video", videoPath).Msg("extracting audio track")
	if err := y.run(ctx, y.ffmpegPath,
		"-y", "-hide_banner",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	); err != nil {
		return nil, fmt.Errorf("%w: extract audio: %s", ErrSourceUnavailable, err)
	}

	framesDir := filepath.Join(workDir, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}

	// One frame per second of footage, regardless of the raw frame rate.
	y.logger.Debug().Str("video", videoPath).Msg("sampling frames")
	if err := y.run(ctx, y.ffmpegPath,
		"-y", "-hide_banner",
		"-i", videoPath,
		"-vf", "fps=1",
		filepath.Join(framesDir, "%05d.jpg"),
	); err != nil {
		return nil, fmt.Errorf("%w: sample frames: %s", ErrSourceUnavailable, err)
	}

	frames, err := enumerateFrames(framesDir)
	if err != nil {
		return nil, err
	}

	y.logger.Info().Int("frames", len(frames)).Msg("extraction complete")
	return &Extraction{
		AudioPath: audioPath,
		Frames:    frames,
		workDir:   workDir,
	}, nil
}

func (y *YtDlp) run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	y.logger.Debug().Str("cmd", bin).Strs("args", args).Msg("executing")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", filepath.Base(bin), err, lastLine(stderr.String()))
	}
	return nil
}

// enumerateFrames maps ffmpeg's 1-based %05d.jpg output back to timestamps.
// With fps=1 the n-th frame represents second n-1 of footage.
func enumerateFrames(framesDir string) ([]Frame, error) {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	frames := make([]Frame, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		index, err := strconv.Atoi(base)
		if err != nil {
			continue
		}
		frames = append(frames, Frame{
			Timestamp: float64(index - 1),
			Path:      filepath.Join(framesDir, name),
		})
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].Timestamp < frames[j].Timestamp })
	return frames, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}
