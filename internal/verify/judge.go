// Package verify asks an external reasoning service for a misinformation
// estimate per claim and conditionally commits the result.
package verify

import (
	"context"
	"fmt"
	"strings"
)

// Judgment is the external service's estimate for one statement. Both fields
// are on a 0-to-1 scale.
type Judgment struct {
	MisinformationAmount float64 `json:"misinformation_amount"`
	Certainty            float64 `json:"certainty"`
}

// Judge produces a misinformation judgment for a single statement
type Judge interface {
	// Name returns the provider name
	Name() string

	// Judge estimates the misinformation amount and certainty for the exact
	// statement text. Implementations must return both fields clamped to
	// [0,1] or an error; they never invent a judgment for an unparseable
	// response.
	Judge(ctx context.Context, statement string) (Judgment, error)
}

// Config holds judge provider configuration
type Config struct {
	// Provider name: "openai", "" disables verification
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for one judgment request, in seconds
	Timeout int

	// MaxTokens for the response
	MaxTokens int
}

// NewJudge creates a judge based on configuration. A nil, nil return means
// verification is disabled.
func NewJudge(config Config) (Judge, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIJudge(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown judge provider: %s (supported: openai)", config.Provider)
	}
}

// buildPrompt constructs the fixed judgment request for one statement
func buildPrompt(statement string) string {
	return fmt.Sprintf(
		"What is the amount of misinformation in this statement, on a scale of 0 to 1? "+
			"How certain are you in your decision on a scale of 0 to 1?\n%q\n\n"+
			"Respond strictly as a JSON object with exactly two numeric fields: "+
			`{"misinformation_amount": <0..1>, "certainty": <0..1>}. No other text.`,
		statement)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
