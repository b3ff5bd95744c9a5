// Package llm wraps the Gemini API for batch summarization and two-phase
// streaming summaries.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ErrNoCredential indicates no API key is configured. Callers degrade to
// extracted summaries instead of treating this as a failure.
var ErrNoCredential = errors.New("gemini API key not configured")

const batchPromptTemplate = `Task: Summarize these Philippine news headlines.
Return ONLY a JSON array of objects with keys: title, source, summary_en, summary_tl, url, date.
Rules:
1. "summary_en": English summary, MUST be 3-5 complete sentences. Do NOT truncate sentences.
2. "summary_tl": Tagalog summary, MUST be 3-5 complete sentences. Do NOT truncate sentences.
3. Ensure summaries capture the main point of the news.
Data: %s`

const streamEnglishPromptTemplate = `Summarize this news article in 3 to 5 detailed English sentences.
Article Title: %s
Article Content: %s

STRICT RULES:
- Exactly 3 to 5 sentences.
- Raw text ONLY. No markdown, no bolding, no prefixes.
- Focus on the factual core.`

const streamFilipinoPromptTemplate = `Translate this news summary into high-quality Filipino (Tagalog).
English Summary: %s

STRICT RULES:
- Matches the 3 to 5 sentence count of the source.
- Raw text ONLY. No markdown.
- Use natural Filipino suitable for a premium news app.
- Ensure UTF-8 character handling for special characters.`

// Client is a thin wrapper around the Gemini SDK with the two models the
// pipeline uses: one for batch calls, one for streaming.
type Client struct {
	client         *genai.Client
	batchModel     string
	streamingModel string
}

// BatchItem is one article sent to a batch summarization call.
type BatchItem struct {
	Title       string `json:"title"`
	Source      string `json:"sourceName"`
	PubDate     string `json:"pubDate"`
	URL         string `json:"link"`
	Description string `json:"description"`
}

// BatchResult is one summarized article returned by a batch call.
type BatchResult struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	SummaryEN string `json:"summary_en"`
	SummaryTL string `json:"summary_tl"`
	URL       string `json:"url"`
	Date      string `json:"date"`
}

// SummaryEvent is one increment of a streaming summary. Exactly one event
// carries Done or Err; partial Text events precede it.
type SummaryEvent struct {
	Text string
	Done bool
	Err  error
}

// NewClient creates a Gemini client. An empty key returns ErrNoCredential so
// the caller can run without enrichment.
func NewClient(ctx context.Context, apiKey, batchModel, streamingModel string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{
		client:         client,
		batchModel:     batchModel,
		streamingModel: streamingModel,
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// SummarizeBatch requests bilingual summaries for all items in one call and
// parses the JSON array out of the response text. A response that cannot be
// parsed yields an error; the caller keeps the raw summaries for that batch.
func (c *Client) SummarizeBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch payload: %w", err)
	}

	model := c.client.GenerativeModel(c.batchModel)
	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(batchPromptTemplate, data)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch summaries: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	payload := extractJSONArray(text)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array found in model response")
	}

	var results []BatchResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, fmt.Errorf("failed to parse batch response: %w", err)
	}
	return results, nil
}

// StreamSummary generates a 3-5 sentence English summary for one article,
// emitting each text increment on the returned channel. The channel is closed
// after the terminal Done or Err event.
func (c *Client) StreamSummary(ctx context.Context, title, content string) <-chan SummaryEvent {
	prompt := fmt.Sprintf(streamEnglishPromptTemplate, title, content)
	return c.stream(ctx, prompt)
}

// StreamTranslation translates a completed English summary into Filipino,
// streamed the same way as StreamSummary.
func (c *Client) StreamTranslation(ctx context.Context, english string) <-chan SummaryEvent {
	prompt := fmt.Sprintf(streamFilipinoPromptTemplate, english)
	return c.stream(ctx, prompt)
}

func (c *Client) stream(ctx context.Context, prompt string) <-chan SummaryEvent {
	events := make(chan SummaryEvent, 8)
	go func() {
		defer close(events)
		model := c.client.GenerativeModel(c.streamingModel)
		iter := model.GenerateContentStream(ctx, genai.Text(prompt))
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				events <- SummaryEvent{Done: true}
				return
			}
			if err != nil {
				events <- SummaryEvent{Err: fmt.Errorf("streaming failed: %w", err)}
				return
			}
			if chunk := responseText(resp); chunk != "" {
				events <- SummaryEvent{Text: chunk}
			}
		}
	}()
	return events
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// extractJSONArray returns the outermost bracketed slice of the response,
// tolerating markdown fences and prose around the payload.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
