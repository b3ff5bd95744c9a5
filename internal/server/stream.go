package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tahofeed/internal/core"
)

// summaryEvent is the wire shape of one server-sent event on the detail
// summary stream.
type summaryEvent struct {
	Phase string `json:"phase"`
	Text  string `json:"text,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleArticleSummary streams the two-phase detail summary for one article as
// server-sent events: English text chunks, an english done marker, then the
// Filipino phase. An error ends the stream but any text already delivered
// stays valid on the client.
func (s *Server) handleArticleSummary(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var article core.Article
	found := false
	for _, a := range s.svc.Articles() {
		if a.Slug == slug {
			article = a
			found = true
			break
		}
	}
	if !found {
		s.respondJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("no article with slug %q in the current feed", slug),
		})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, "Streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for ev := range s.streamer.Stream(r.Context(), article) {
		out := summaryEvent{Phase: string(ev.Phase), Text: ev.Text, Done: ev.Done}
		if ev.Err != nil {
			out.Error = ev.Err.Error()
		}
		payload, err := json.Marshal(out)
		if err != nil {
			s.log.Error("failed to encode summary event", "error", err.Error())
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		if ev.Err != nil {
			return
		}
	}
}
