package pipeline

import "github.com/ppiankov/credibly/internal/model"

// Summarize computes the aggregate credibility statistics over one media
// item's claims. Average bias over an empty set is 0; average accuracy is
// computed over verified claims only and stays nil when there are none.
func Summarize(claims []model.Claim) model.Summary {
	summary := model.Summary{TotalClaims: len(claims)}
	if len(claims) == 0 {
		return summary
	}

	var biasSum, accuracySum float64
	for _, claim := range claims {
		biasSum += claim.BiasStrength
		if claim.Accuracy != nil {
			accuracySum += *claim.Accuracy
			summary.VerifiedClaims++
		}
	}

	summary.AverageBias = biasSum / float64(len(claims))
	if summary.VerifiedClaims > 0 {
		avg := accuracySum / float64(summary.VerifiedClaims)
		summary.AverageAccuracy = &avg
	}
	return summary
}
