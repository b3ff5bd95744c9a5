package server

import (
	"net/http"
	"time"

	"tahofeed/internal/core"
	"tahofeed/internal/feed"
	"tahofeed/internal/summarize"
)

// feedCacheControl advertises a 5-minute shared cache with a 1-minute
// stale-while-revalidate window, matching the edge deployment.
const feedCacheControl = "public, s-maxage=300, stale-while-revalidate=60"

// feedItem is the wire shape of one article on /api/feed.
type feedItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	SummaryEN string `json:"summary_en"`
	SummaryPH string `json:"summary_ph"`
	SourceURL string `json:"source_url"`
	ImageURL  string `json:"image_url"`
	Category  string `json:"category"`
	PubDate   string `json:"pubDate"`
}

var serverStartTime = time.Now()

// handleFeed serves the top articles for the unfiltered view. A fresh cache
// entry is served as-is; otherwise a full aggregation pass runs. Failure is a
// structured 500, never a partial 200.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Refresh(r.Context(), core.CategoryAll, false); err != nil {
		s.respondError(w, "Failed to fetch news", err)
		return
	}

	articles := s.svc.Articles()
	items := make([]feedItem, 0, len(articles))
	for _, a := range articles {
		summaryPH := a.SummaryFilipino
		if summaryPH == summarize.FilipinoPlaceholder {
			summaryPH = ""
		}
		items = append(items, feedItem{
			ID:        a.ID,
			Title:     a.Title,
			Slug:      a.Slug,
			SummaryEN: a.SummaryEnglish,
			SummaryPH: summaryPH,
			SourceURL: a.URL,
			ImageURL:  a.ImageURL,
			Category:  string(a.Category),
			PubDate:   a.PubDate,
		})
	}

	w.Header().Set("Cache-Control", feedCacheControl)
	s.respondJSON(w, http.StatusOK, items)
}

// handleHealth reports liveness and the orchestrator state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.svc.State() == feed.StateError {
		status = "degraded"
	}
	s.respondJSON(w, code, map[string]string{
		"status": status,
		"state":  string(s.svc.State()),
	})
}

// handleStatus reports uptime and the current display set size.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"uptime":   time.Since(serverStartTime).String(),
		"state":    string(s.svc.State()),
		"articles": len(s.svc.Articles()),
	})
}
