package worker

import "context"

// ClaimVerifier is the consumer-side contract for verification jobs
type ClaimVerifier interface {
	Verify(ctx context.Context, claimID int64)
}

// VerifyJob asks the verifier to judge one claim. The job holds only the
// claim ID; the claim text is re-read from storage at execution time, so a
// job is still valid long after submission.
type VerifyJob struct {
	ClaimID  int64
	Verifier ClaimVerifier
}

// Execute runs the verification. The verifier swallows its own failures, so
// a verify job never reports an error to the pool.
func (j *VerifyJob) Execute(ctx context.Context) error {
	j.Verifier.Verify(ctx, j.ClaimID)
	return nil
}
