package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser extension frontend runs on arbitrary page origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsEvent is the envelope for every message pushed to a client
type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// isComplete reports whether the URL was already fully analyzed. Lookup
// errors count as not complete; the run itself will surface them.
func (s *Server) isComplete(ctx context.Context, url string) bool {
	item, err := s.store.GetMediaByURL(ctx, url)
	return err == nil && item.Complete
}

// handleWebSocket serves the live analysis channel: the client sends
// {name, url}, the server acknowledges with analysisStarted and pushes a
// credibilityUpdate once the run finishes. Event names match the original
// frontend contract.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	for {
		var req analyzeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		if req.URL == "" {
			if err := conn.WriteJSON(wsEvent{Event: "error", Data: map[string]string{"message": "url is required"}}); err != nil {
				return
			}
			continue
		}

		// A URL already analyzed answers straight from storage; only a fresh
		// run announces itself with analysisStarted.
		if !s.isComplete(r.Context(), req.URL) {
			if err := conn.WriteJSON(wsEvent{Event: "analysisStarted", Data: map[string]string{"status": "Processing started", "url": req.URL}}); err != nil {
				return
			}
		}

		// The analysis runs best-effort to completion even if the client goes
		// away mid-run: state is only valid once fully committed, and an
		// aborted run would just be retried by the next request anyway.
		result, err := s.analyzer.Analyze(r.Context(), req.URL, req.Name)
		if err != nil {
			s.logger.Warn().Str("url", req.URL).Err(err).Msg("websocket analysis failed")
			if err := conn.WriteJSON(wsEvent{Event: "error", Data: map[string]string{"message": "analysis failed", "url": req.URL}}); err != nil {
				return
			}
			continue
		}

		update := map[string]any{
			"url":           result.Media.URL,
			"bias_strength": result.Summary.AverageBias,
		}
		if err := conn.WriteJSON(wsEvent{Event: "credibilityUpdate", Data: update}); err != nil {
			return
		}
	}
}
