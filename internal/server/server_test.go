package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ppiankov/credibly/internal/media"
	"github.com/ppiankov/credibly/internal/model"
	"github.com/ppiankov/credibly/internal/pipeline"
	"github.com/ppiankov/credibly/internal/store"
	"github.com/ppiankov/credibly/internal/transcribe"
	"github.com/ppiankov/credibly/internal/worker"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	srv := New(zerolog.Nop(), nil, mem, ":0", time.Minute, 5*time.Second, 5*time.Second)
	return srv, mem
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestGetMedia_UnknownURL(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/media?url=https%3A%2F%2Fexample.com%2Fnope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not json: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestGetMedia_MissingURLParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/media")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetMedia_ReturnsClaims(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	item, err := mem.CreateMedia(ctx, "https://example.com/clip", "a clip")
	if err != nil {
		t.Fatal(err)
	}
	claim := &model.Claim{MediaID: item.ID, Content: "a claim", BiasStrength: 0.4}
	if err := mem.CreateClaim(ctx, claim); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/media?url=https%3A%2F%2Fexample.com%2Fclip")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report model.MediaReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Name != "a clip" || report.Complete {
		t.Errorf("unexpected report header: %+v", report)
	}
	if len(report.Content) != 1 || report.Content[0].Content != "a claim" {
		t.Errorf("unexpected claims: %+v", report.Content)
	}
}

func TestGetSummary_CachesCompleteMedia(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	item, err := mem.CreateMedia(ctx, "https://example.com/done", "done clip")
	if err != nil {
		t.Fatal(err)
	}
	claim := &model.Claim{MediaID: item.ID, Content: "a claim", BiasStrength: 0.6}
	if err := mem.CreateClaim(ctx, claim); err != nil {
		t.Fatal(err)
	}
	if err := mem.UpdateClaimAccuracy(ctx, claim.ID, 0.8, 0.9); err != nil {
		t.Fatal(err)
	}
	item.Complete = true
	if err := mem.SaveMedia(ctx, item); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/media/summary?url=https%3A%2F%2Fexample.com%2Fdone")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report model.SummaryReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.TotalClaims != 1 || report.Summary.VerifiedClaims != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.AverageAccuracy == nil || *report.Summary.AverageAccuracy != 0.8 {
		t.Errorf("expected average accuracy 0.8, got %v", report.Summary.AverageAccuracy)
	}

	if _, ok := srv.summaries.Get("https://example.com/done"); !ok {
		t.Error("expected complete media summary to be cached")
	}
}

func TestGetSummary_IncompleteMediaNotCached(t *testing.T) {
	srv, mem := newTestServer(t)

	if _, err := mem.CreateMedia(context.Background(), "https://example.com/wip", "in progress"); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/media/summary?url=https%3A%2F%2Fexample.com%2Fwip")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := srv.summaries.Get("https://example.com/wip"); ok {
		t.Error("incomplete media must not be cached")
	}
}

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, string) (*media.Extraction, error) {
	return &media.Extraction{AudioPath: "audio.wav"}, nil
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, string) ([]transcribe.Segment, error) {
	return []transcribe.Segment{{Start: 0, End: 2, Text: "This is absolutely terrible."}}, nil
}

type stubFrameReader struct{}

func (stubFrameReader) ReadFrame(context.Context, string) ([]string, error) { return nil, nil }

type stubVerifier struct{}

func (stubVerifier) Verify(context.Context, int64) {}

type dropDispatcher struct{}

func (dropDispatcher) Submit(worker.Job) {}

func TestWebSocket_AnalysisStartedOnlyForFreshRuns(t *testing.T) {
	mem := store.NewMemory()
	analyzer := pipeline.NewAnalyzer(zerolog.Nop(), mem, stubExtractor{}, stubTranscriber{},
		stubFrameReader{}, stubVerifier{}, dropDispatcher{})
	srv := New(zerolog.Nop(), analyzer, mem, ":0", time.Minute, 5*time.Second, 5*time.Second)

	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	request := map[string]string{"name": "clip", "url": "https://example.com/live-clip"}
	readEvent := func() string {
		t.Helper()
		var event wsEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("read event: %v", err)
		}
		return event.Event
	}

	// Fresh URL: the run announces itself, then reports.
	if err := conn.WriteJSON(request); err != nil {
		t.Fatalf("write request: %v", err)
	}
	if got := readEvent(); got != "analysisStarted" {
		t.Fatalf("expected analysisStarted first, got %q", got)
	}
	if got := readEvent(); got != "credibilityUpdate" {
		t.Fatalf("expected credibilityUpdate, got %q", got)
	}

	// Same URL again: the item is complete, so the stored result comes back
	// with no analysisStarted.
	if err := conn.WriteJSON(request); err != nil {
		t.Fatalf("write request: %v", err)
	}
	if got := readEvent(); got != "credibilityUpdate" {
		t.Fatalf("expected immediate credibilityUpdate for a complete item, got %q", got)
	}
}

func TestReputableCreators_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/creators/reputable")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string][]model.CreatorStanding
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["creators"] == nil {
		t.Error("expected a creators array even when empty")
	}
}
