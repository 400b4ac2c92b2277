package model

// Summary holds the aggregate credibility statistics for one media item
type Summary struct {
	// AverageBias is the arithmetic mean of bias strength over all claims.
	// Zero for an empty claim set.
	AverageBias float64 `json:"average_bias"`

	// AverageAccuracy is the mean accuracy over verified claims only. Nil
	// when no claim has a committed accuracy - never a fabricated number.
	AverageAccuracy *float64 `json:"average_misinformation_confidence"`

	VerifiedClaims int `json:"verified_claims"`
	TotalClaims    int `json:"total_claims"`
}

// MediaReport is the full media payload returned to clients
type MediaReport struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Complete bool    `json:"complete"`
	Content  []Claim `json:"content"`
}

// SummaryReport is the aggregate payload returned to clients
type SummaryReport struct {
	Summary
	Contents []Claim `json:"contents"`
}
