package summarize

import (
	"context"
	"errors"

	"tahofeed/internal/core"
	"tahofeed/internal/llm"
)

// ErrNotConfigured reports a detail-view summary request with no enrichment
// capability available.
var ErrNotConfigured = errors.New("summarization not configured")

// Phase identifies which summary a detail event belongs to.
type Phase string

const (
	PhaseEnglish  Phase = "english"
	PhaseFilipino Phase = "filipino"
)

// DetailEvent is one increment of a streaming detail summary. Text events
// carry a chunk to append; each phase ends with exactly one Done or Err event.
// Partial text already delivered stays valid after an Err.
type DetailEvent struct {
	Phase Phase
	Text  string
	Done  bool
	Err   error
}

// Streamer produces the two-phase detail summary: English first, then a
// Filipino translation seeded with the completed English text.
type Streamer struct {
	client StreamingClient
}

// NewStreamer creates a detail-view streamer. client may be nil when no
// credential is configured.
func NewStreamer(client StreamingClient) *Streamer {
	return &Streamer{client: client}
}

// Stream emits DetailEvents for the given article until both phases finish or
// one fails. The channel is closed when the stream ends either way. With no
// client configured a single English Err event reports the missing capability.
func (s *Streamer) Stream(ctx context.Context, article core.Article) <-chan DetailEvent {
	events := make(chan DetailEvent, 8)
	go func() {
		defer close(events)

		if s.client == nil {
			events <- DetailEvent{Phase: PhaseEnglish, Err: ErrNotConfigured}
			return
		}

		content := article.SummaryEnglish
		if content == "" {
			content = article.Title
		}

		english, ok := s.runPhase(ctx, events, PhaseEnglish,
			s.client.StreamSummary(ctx, article.Title, content))
		if !ok {
			return
		}

		s.runPhase(ctx, events, PhaseFilipino,
			s.client.StreamTranslation(ctx, english))
	}()
	return events
}

// runPhase pumps one upstream event channel, returning the accumulated text
// and whether the phase completed.
func (s *Streamer) runPhase(ctx context.Context, out chan<- DetailEvent, phase Phase, in <-chan llm.SummaryEvent) (string, bool) {
	var full string
	for ev := range in {
		switch {
		case ev.Err != nil:
			out <- DetailEvent{Phase: phase, Err: ev.Err}
			return full, false
		case ev.Done:
			out <- DetailEvent{Phase: phase, Done: true}
			return full, true
		default:
			full += ev.Text
			out <- DetailEvent{Phase: phase, Text: ev.Text}
		}
	}
	return full, false
}
