package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestNewClientWithoutKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-1.5-flash", "gemini-2.0-flash")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("NewClient with empty key = %v, want ErrNoCredential", err)
	}
}

func TestExtractJSONArray(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare array",
			input:    `[{"title":"a"}]`,
			expected: `[{"title":"a"}]`,
		},
		{
			name:     "markdown fenced array",
			input:    "```json\n[{\"title\":\"a\"}]\n```",
			expected: `[{"title":"a"}]`,
		},
		{
			name:     "prose around the array",
			input:    `Here are your summaries: [{"title":"a"}] Hope that helps!`,
			expected: `[{"title":"a"}]`,
		},
		{
			name:     "no array at all",
			input:    "I could not process that request.",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "nested arrays keep outer bounds",
			input:    `[{"tags":["x","y"]}]`,
			expected: `[{"tags":["x","y"]}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONArray(tc.input); got != tc.expected {
				t.Errorf("extractJSONArray(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestBatchResultDecoding(t *testing.T) {
	payload := `[{"title":"Senate approves budget","source":"Rappler","summary_en":"The Senate approved the budget.","summary_tl":"Inaprubahan ng Senado ang badyet.","url":"https://example.com/story","date":"2026-08-27 10:00:00"}]`

	var results []BatchResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		t.Fatalf("failed to decode batch payload: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("decoded %d results, want 1", len(results))
	}
	r := results[0]
	if r.SummaryEN == "" || r.SummaryTL == "" || r.URL != "https://example.com/story" {
		t.Errorf("unexpected decoded result: %+v", r)
	}
}

func TestResponseTextNilSafe(t *testing.T) {
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q, want empty", got)
	}
}
