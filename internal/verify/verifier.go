package verify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ppiankov/credibly/internal/store"
)

// MinCertainty is the threshold below which a judgment is discarded: the
// claim's accuracy stays null and no retry is scheduled.
const MinCertainty = 0.5

// Verifier runs one-shot fact-check judgments for persisted claims. Every
// unit of work is re-derivable from a claim ID alone, so jobs survive being
// queued long after the claims were written.
//
// Errors at this boundary are swallowed: a failed or inconclusive judgment
// must never break the batch it was dispatched from. They are logged and the
// claim simply stays unverified.
type Verifier struct {
	store   store.Store
	judge   Judge
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewVerifier creates a verifier. perSecond/burst bound the request rate to
// the external judge.
func NewVerifier(logger zerolog.Logger, s store.Store, judge Judge, perSecond float64, burst int) *Verifier {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Verifier{
		store:   s,
		judge:   judge,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger.With().Str("component", "verify").Logger(),
	}
}

// Verify re-reads the claim, asks the judge for a misinformation estimate and
// commits accuracy = 1 - misinformation together with the reported certainty,
// but only when that certainty clears MinCertainty.
func (v *Verifier) Verify(ctx context.Context, claimID int64) {
	if v.judge == nil {
		return
	}

	claim, err := v.store.GetClaim(ctx, claimID)
	if err != nil {
		v.logger.Warn().Int64("claim", claimID).Err(err).Msg("claim lookup failed, skipping verification")
		return
	}

	if err := v.limiter.Wait(ctx); err != nil {
		v.logger.Warn().Int64("claim", claimID).Err(err).Msg("rate limiter interrupted")
		return
	}

	judgment, err := v.judge.Judge(ctx, claim.Content)
	if err != nil {
		v.logger.Warn().Int64("claim", claimID).Err(err).Msg("judgment failed, claim stays unverified")
		return
	}

	if judgment.Certainty < MinCertainty {
		v.logger.Info().
			Int64("claim", claimID).
			Float64("certainty", judgment.Certainty).
			Msg("judgment below certainty threshold, discarded")
		return
	}

	accuracy := 1 - judgment.MisinformationAmount
	if err := v.store.UpdateClaimAccuracy(ctx, claimID, accuracy, judgment.Certainty); err != nil {
		v.logger.Error().Int64("claim", claimID).Err(err).Msg("failed to commit judgment")
		return
	}

	v.logger.Debug().
		Int64("claim", claimID).
		Float64("accuracy", accuracy).
		Float64("certainty", judgment.Certainty).
		Msg("judgment committed")
}
