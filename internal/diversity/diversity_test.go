package diversity

import (
	"testing"
	"time"

	"tahofeed/internal/core"
)

func items(counts map[string]int, base time.Time) []core.RawItem {
	// Build a newest-first input: sources interleaved by recency so the
	// per-source groups keep their internal order.
	var out []core.RawItem
	offset := 0
	for source, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, core.RawItem{
				Title:      source,
				SourceName: source,
				Published:  base.Add(-time.Duration(offset) * time.Minute),
			})
			offset++
		}
	}
	return out
}

func TestSelectIncludesEverySourceAtDepthZero(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	input := items(map[string]int{"A": 5, "B": 1, "C": 1}, base)

	got := Select(input, 10, 10)
	if len(got) != 7 {
		t.Fatalf("Select returned %d items, want all 7", len(got))
	}

	bySource := map[string]int{}
	for _, item := range got {
		bySource[item.SourceName]++
	}
	if bySource["B"] != 1 || bySource["C"] != 1 {
		t.Errorf("single-item sources missing from selection: %v", bySource)
	}
	if bySource["A"] != 5 {
		t.Errorf("source A contributed %d items, want 5", bySource["A"])
	}
}

func TestSelectCapLimitsTotal(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	input := items(map[string]int{"A": 10, "B": 10, "C": 10}, base)

	got := Select(input, 6, 10)
	if len(got) != 6 {
		t.Fatalf("Select returned %d items, want cap of 6", len(got))
	}

	// Depths 0 and 1 across three sources fill the cap evenly.
	bySource := map[string]int{}
	for _, item := range got {
		bySource[item.SourceName]++
	}
	for _, source := range []string{"A", "B", "C"} {
		if bySource[source] != 2 {
			t.Errorf("source %s contributed %d items, want 2", source, bySource[source])
		}
	}
}

func TestSelectMaxDepthLimitsPerSource(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	input := items(map[string]int{"A": 10}, base)

	got := Select(input, 30, 3)
	if len(got) != 3 {
		t.Fatalf("Select returned %d items, want maxDepth of 3", len(got))
	}
}

func TestSelectResultSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	input := items(map[string]int{"A": 4, "B": 3, "C": 2}, base)

	got := Select(input, 30, 10)
	for i := 1; i < len(got); i++ {
		if got[i].Published.After(got[i-1].Published) {
			t.Errorf("selection not newest-first at index %d: %v after %v",
				i, got[i].Published, got[i-1].Published)
		}
	}
}

func TestSelectEmptyAndZeroCap(t *testing.T) {
	if got := Select(nil, 10, 10); got != nil {
		t.Errorf("Select(nil) = %v, want nil", got)
	}
	input := items(map[string]int{"A": 2}, time.Now())
	if got := Select(input, 0, 10); got != nil {
		t.Errorf("Select with zero cap = %v, want nil", got)
	}
}
