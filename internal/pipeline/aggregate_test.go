package pipeline

import (
	"testing"

	"github.com/ppiankov/credibly/internal/model"
)

func f(v float64) *float64 { return &v }

func TestSummarize_EmptyClaimSet(t *testing.T) {
	summary := Summarize(nil)

	if summary.AverageBias != 0 {
		t.Errorf("expected average bias 0 for empty set, got %f", summary.AverageBias)
	}
	if summary.AverageAccuracy != nil {
		t.Errorf("expected nil average accuracy for empty set, got %f", *summary.AverageAccuracy)
	}
	if summary.TotalClaims != 0 || summary.VerifiedClaims != 0 {
		t.Errorf("expected zero counts, got total=%d verified=%d", summary.TotalClaims, summary.VerifiedClaims)
	}
}

func TestSummarize_AverageBias(t *testing.T) {
	claims := []model.Claim{
		{BiasStrength: 0.2},
		{BiasStrength: 0.4},
		{BiasStrength: 0.9},
	}

	summary := Summarize(claims)

	want := (0.2 + 0.4 + 0.9) / 3
	if summary.AverageBias != want {
		t.Errorf("expected average bias %f, got %f", want, summary.AverageBias)
	}
	if summary.AverageBias < 0 || summary.AverageBias > 1 {
		t.Errorf("average bias %f out of [0,1]", summary.AverageBias)
	}
}

func TestSummarize_AccuracyOverVerifiedOnly(t *testing.T) {
	claims := []model.Claim{
		{BiasStrength: 0.5, Accuracy: f(0.8), AccuracyCertainty: f(0.9)},
		{BiasStrength: 0.5}, // unverified, must not drag the mean down
		{BiasStrength: 0.5, Accuracy: f(0.6), AccuracyCertainty: f(0.7)},
	}

	summary := Summarize(claims)

	if summary.AverageAccuracy == nil {
		t.Fatal("expected average accuracy to be set")
	}
	want := (0.8 + 0.6) / 2
	if *summary.AverageAccuracy != want {
		t.Errorf("expected average accuracy %f, got %f", want, *summary.AverageAccuracy)
	}
	if summary.VerifiedClaims != 2 || summary.TotalClaims != 3 {
		t.Errorf("expected verified=2 total=3, got verified=%d total=%d",
			summary.VerifiedClaims, summary.TotalClaims)
	}
}

func TestSummarize_NoVerifiedClaims(t *testing.T) {
	claims := []model.Claim{
		{BiasStrength: 0.1},
		{BiasStrength: 0.9},
	}

	summary := Summarize(claims)

	if summary.AverageAccuracy != nil {
		t.Errorf("expected nil average accuracy when nothing is verified, got %f", *summary.AverageAccuracy)
	}
}
