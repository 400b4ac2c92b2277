package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ppiankov/credibly/internal/model"
	"github.com/ppiankov/credibly/internal/store"
)

type fakeJudge struct {
	judgment Judgment
	err      error
	calls    int
	lastText string
}

func (f *fakeJudge) Name() string { return "fake" }

func (f *fakeJudge) Judge(_ context.Context, statement string) (Judgment, error) {
	f.calls++
	f.lastText = statement
	return f.judgment, f.err
}

func seedClaim(t *testing.T, s store.Store, content string) *model.Claim {
	t.Helper()

	item, err := s.CreateMedia(context.Background(), "https://example.com/clip", "clip")
	if err != nil {
		t.Fatalf("create media: %v", err)
	}
	claim := &model.Claim{MediaID: item.ID, Content: content, BiasStrength: 0.5}
	if err := s.CreateClaim(context.Background(), claim); err != nil {
		t.Fatalf("create claim: %v", err)
	}
	return claim
}

func TestVerifier_Verify_CommitsConfidentJudgment(t *testing.T) {
	mem := store.NewMemory()
	claim := seedClaim(t, mem, "The moon is made of cheese.")
	judge := &fakeJudge{judgment: Judgment{MisinformationAmount: 0.9, Certainty: 0.8}}

	v := NewVerifier(zerolog.Nop(), mem, judge, 100, 10)
	v.Verify(context.Background(), claim.ID)

	got, err := mem.GetClaim(context.Background(), claim.ID)
	if err != nil {
		t.Fatalf("get claim: %v", err)
	}
	if got.Accuracy == nil || got.AccuracyCertainty == nil {
		t.Fatal("expected accuracy and certainty committed together")
	}
	if want := 1 - 0.9; *got.Accuracy != want {
		t.Errorf("expected accuracy %f, got %f", want, *got.Accuracy)
	}
	if *got.AccuracyCertainty != 0.8 {
		t.Errorf("expected certainty 0.8, got %f", *got.AccuracyCertainty)
	}
	if judge.lastText != claim.Content {
		t.Errorf("judge saw %q, expected the exact claim text %q", judge.lastText, claim.Content)
	}
}

func TestVerifier_Verify_DiscardsLowCertainty(t *testing.T) {
	mem := store.NewMemory()
	claim := seedClaim(t, mem, "Something vague happened somewhere.")
	judge := &fakeJudge{judgment: Judgment{MisinformationAmount: 0.2, Certainty: 0.49}}

	v := NewVerifier(zerolog.Nop(), mem, judge, 100, 10)
	v.Verify(context.Background(), claim.ID)

	got, _ := mem.GetClaim(context.Background(), claim.ID)
	if got.Accuracy != nil || got.AccuracyCertainty != nil {
		t.Errorf("expected accuracy to stay nil below certainty threshold, got %+v", got)
	}
	if judge.calls != 1 {
		t.Errorf("expected judge consulted once, got %d", judge.calls)
	}
}

func TestVerifier_Verify_ThresholdIsInclusive(t *testing.T) {
	mem := store.NewMemory()
	claim := seedClaim(t, mem, "Water boils at 100 degrees Celsius at sea level.")
	judge := &fakeJudge{judgment: Judgment{MisinformationAmount: 0.0, Certainty: MinCertainty}}

	v := NewVerifier(zerolog.Nop(), mem, judge, 100, 10)
	v.Verify(context.Background(), claim.ID)

	got, _ := mem.GetClaim(context.Background(), claim.ID)
	if got.Accuracy == nil {
		t.Fatal("expected judgment at exactly the threshold to be committed")
	}
	if *got.Accuracy != 1.0 {
		t.Errorf("expected accuracy 1.0, got %f", *got.Accuracy)
	}
}

func TestVerifier_Verify_SwallowsJudgeFailure(t *testing.T) {
	mem := store.NewMemory()
	claim := seedClaim(t, mem, "An unverifiable statement.")
	judge := &fakeJudge{err: errors.New("service unavailable")}

	v := NewVerifier(zerolog.Nop(), mem, judge, 100, 10)
	// Must not panic or propagate; the claim simply stays unverified.
	v.Verify(context.Background(), claim.ID)

	got, _ := mem.GetClaim(context.Background(), claim.ID)
	if got.Accuracy != nil {
		t.Error("expected accuracy to stay nil after judge failure")
	}
}

func TestVerifier_Verify_UnknownClaim(t *testing.T) {
	mem := store.NewMemory()
	judge := &fakeJudge{judgment: Judgment{MisinformationAmount: 0.5, Certainty: 0.9}}

	v := NewVerifier(zerolog.Nop(), mem, judge, 100, 10)
	v.Verify(context.Background(), 12345)

	if judge.calls != 0 {
		t.Errorf("expected no judge call for an unknown claim, got %d", judge.calls)
	}
}

func TestVerifier_Verify_NilJudgeIsNoop(t *testing.T) {
	mem := store.NewMemory()
	claim := seedClaim(t, mem, "Verification disabled.")

	v := NewVerifier(zerolog.Nop(), mem, nil, 100, 10)
	v.Verify(context.Background(), claim.ID)

	got, _ := mem.GetClaim(context.Background(), claim.ID)
	if got.Accuracy != nil {
		t.Error("expected accuracy to stay nil with verification disabled")
	}
}
