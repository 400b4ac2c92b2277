package model

// Claim represents a single sentence-level statement extracted from a media
// item, scored for subjectivity at creation and fact-checked asynchronously.
type Claim struct {
	ID      int64  `json:"-"`
	MediaID int64  `json:"-"`
	Content string `json:"content"`

	// Position in the source footage, when known. Audio-derived claims carry
	// no per-sentence position; on-screen claims carry their frame timestamp.
	Timestamp *float64 `json:"timestamp,omitempty"` // seconds from start
	Duration  *float64 `json:"duration,omitempty"`  // seconds

	// BiasStrength is the subjectivity estimate in [0,1], set at creation.
	BiasStrength float64 `json:"bias_strength"`

	// Accuracy is 1 - estimated misinformation amount, in [0,1]. Nil until a
	// verification job commits a judgment with certainty >= 0.5; stays nil
	// permanently for inconclusive judgments.
	Accuracy *float64 `json:"accuracy"`

	// AccuracyCertainty is the certainty the judge reported alongside the
	// committed accuracy. Nil whenever Accuracy is nil.
	AccuracyCertainty *float64 `json:"accuracy_certainty,omitempty"`
}

// Verified reports whether a judgment has been committed for this claim.
func (c *Claim) Verified() bool {
	return c.Accuracy != nil
}
