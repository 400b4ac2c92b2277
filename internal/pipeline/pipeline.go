// Package pipeline orchestrates the media analysis run: download, transcode,
// transcribe, per-frame OCR, sentence scoring, verification dispatch and
// aggregation, under the completion-cache contract.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/credibly/internal/bias"
	"github.com/ppiankov/credibly/internal/media"
	"github.com/ppiankov/credibly/internal/model"
	"github.com/ppiankov/credibly/internal/ocr"
	"github.com/ppiankov/credibly/internal/store"
	"github.com/ppiankov/credibly/internal/transcribe"
	"github.com/ppiankov/credibly/internal/worker"
)

// ErrInvalidURL indicates the request carried a syntactically invalid locator
var ErrInvalidURL = errors.New("invalid url")

// Dispatcher is the fire-and-forget background submission boundary
type Dispatcher interface {
	Submit(job worker.Job)
}

// Result is the outcome of one analysis request
type Result struct {
	Media   *model.Media
	Claims  []model.Claim
	Summary model.Summary
}

// Analyzer coordinates the full analysis of one URL
type Analyzer struct {
	store       store.Store
	extractor   media.Extractor
	transcriber transcribe.Transcriber
	frameReader ocr.FrameReader
	scorer      *bias.Scorer
	verifier    worker.ClaimVerifier
	dispatcher  Dispatcher
	logger      zerolog.Logger

	// Per-URL locks enforcing at-most-one in-flight extraction inside this
	// process; the store's unique constraint covers the cross-process case.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAnalyzer creates an analyzer over the given collaborators
func NewAnalyzer(
	logger zerolog.Logger,
	s store.Store,
	extractor media.Extractor,
	transcriber transcribe.Transcriber,
	frameReader ocr.FrameReader,
	verifier worker.ClaimVerifier,
	dispatcher Dispatcher,
) *Analyzer {
	return &Analyzer{
		store:       s,
		extractor:   extractor,
		transcriber: transcriber,
		frameReader: frameReader,
		scorer:      bias.NewScorer(),
		verifier:    verifier,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("component", "pipeline").Logger(),
	}
}

// Analyze runs the full pipeline for one URL. A URL already marked complete
// short-circuits to aggregation with zero adapter calls. On any extraction
// failure the media item is left incomplete so a later request retries from
// scratch.
func (a *Analyzer) Analyze(ctx context.Context, rawURL, name string) (*Result, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	// The losing concurrent caller for the same URL blocks here and then
	// observes the winner's completed run as a cache hit.
	lock := a.urlLock(rawURL)
	lock.Lock()
	defer lock.Unlock()

	item, err := a.store.GetMediaByURL(ctx, rawURL)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if item, err = a.store.CreateMedia(ctx, rawURL, name); err != nil {
			return nil, fmt.Errorf("create media: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup media: %w", err)
	}

	if item.Complete {
		a.logger.Debug().Str("url", rawURL).Msg("completion cache hit")
		return a.finish(ctx, item)
	}

	if err := a.extract(ctx, item); err != nil {
		return nil, err
	}

	item.Complete = true
	if err := a.store.SaveMedia(ctx, item); err != nil {
		return nil, fmt.Errorf("mark complete: %w", err)
	}

	return a.finish(ctx, item)
}

// extract runs download, transcription, OCR and claim creation for an
// incomplete media item. It never flips the complete flag itself.
func (a *Analyzer) extract(ctx context.Context, item *model.Media) error {
	a.logger.Info().Str("url", item.URL).Msg("starting extraction")

	extraction, err := a.extractor.Extract(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("extract %s: %w", item.URL, err)
	}
	defer func() {
		if closeErr := extraction.Close(); closeErr != nil {
			a.logger.Warn().Err(closeErr).Msg("workspace cleanup failed")
		}
	}()

	// Transcription and per-frame OCR are independent; their outputs are
	// merged afterward in timestamp order.
	var (
		segments     []transcribe.Segment
		observations []ocr.Observation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		segments, err = a.transcriber.Transcribe(gctx, extraction.AudioPath)
		return err
	})
	g.Go(func() error {
		var err error
		observations, err = a.readFrames(gctx, extraction.Frames)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("extract %s: %w", item.URL, err)
	}

	claims := a.scoreClaims(item, segments, observations)

	// An earlier run may have died mid-batch, leaving claims behind under
	// this still-incomplete item. Discard them so the item never carries
	// two generations of claims.
	if err := a.store.DeleteClaims(ctx, item.ID); err != nil {
		return fmt.Errorf("discard stale claims: %w", err)
	}

	for i := range claims {
		if err := a.store.CreateClaim(ctx, &claims[i]); err != nil {
			return fmt.Errorf("persist claim: %w", err)
		}
		a.dispatcher.Submit(&worker.VerifyJob{ClaimID: claims[i].ID, Verifier: a.verifier})
	}

	a.logger.Info().Str("url", item.URL).Int("claims", len(claims)).Msg("extraction complete")
	return nil
}

// readFrames runs OCR over every sampled frame, keeping only frames that
// contained text, in timestamp order.
func (a *Analyzer) readFrames(ctx context.Context, frames []media.Frame) ([]ocr.Observation, error) {
	var observations []ocr.Observation
	for _, frame := range frames {
		fragments, err := a.frameReader.ReadFrame(ctx, frame.Path)
		if err != nil {
			return nil, err
		}
		if len(fragments) == 0 {
			continue
		}
		observations = append(observations, ocr.Observation{
			Timestamp: frame.Timestamp,
			Fragments: fragments,
		})
	}
	return observations, nil
}

// scoreClaims turns the transcript and on-screen observations into scored
// claims in stable order: audio first, then on-screen text by timestamp.
// On-screen text is scored too - the spoken word is not the only place a
// short-form video makes assertions.
func (a *Analyzer) scoreClaims(item *model.Media, segments []transcribe.Segment, observations []ocr.Observation) []model.Claim {
	var claims []model.Claim

	for _, sentence := range a.scorer.Score(transcribe.Blob(segments)) {
		claims = append(claims, model.Claim{
			MediaID:      item.ID,
			Content:      sentence.Text,
			BiasStrength: sentence.Subjectivity,
		})
	}

	for _, obs := range observations {
		ts := obs.Timestamp
		for _, sentence := range a.scorer.Score(strings.Join(obs.Fragments, " ")) {
			claims = append(claims, model.Claim{
				MediaID:      item.ID,
				Content:      sentence.Text,
				Timestamp:    &ts,
				BiasStrength: sentence.Subjectivity,
			})
		}
	}

	return claims
}

// finish aggregates over the media item's persisted claims
func (a *Analyzer) finish(ctx context.Context, item *model.Media) (*Result, error) {
	claims, err := a.store.ListClaims(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return &Result{
		Media:   item,
		Claims:  claims,
		Summary: Summarize(claims),
	}, nil
}

// urlLock returns the mutex guarding extraction for one URL
func (a *Analyzer) urlLock(rawURL string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.locks == nil {
		a.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := a.locks[rawURL]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[rawURL] = lock
	}
	return lock
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return nil
}
