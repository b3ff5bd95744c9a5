package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahofeed/internal/core"
)

func testArticles() []core.Article {
	return []core.Article{
		{
			ID:       "senate-approves-budget-gma",
			Slug:     "senate-approves-budget",
			Title:    "Senate approves budget",
			Source:   core.Source{Name: "GMA"},
			Category: core.CategoryPolitics,
			URL:      "https://example.com/story",
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(core.CategoryAll, testArticles()))

	entry, ok, err := s.Get(core.CategoryAll)
	require.NoError(t, err)
	require.True(t, ok, "entry missing after Put")
	require.Len(t, entry.Articles, 1)

	got := entry.Articles[0]
	assert.Equal(t, "Senate approves budget", got.Title)
	assert.Equal(t, core.CategoryPolitics, got.Category)
	assert.Equal(t, "senate-approves-budget", got.Slug)
	assert.False(t, entry.CachedAt.IsZero(), "CachedAt not stamped")
}

func TestGetMissingCategory(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(core.CategorySports)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache reported an entry")
}

func TestPutReplacesEntry(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(core.CategoryAll, testArticles()))
	require.NoError(t, s.Put(core.CategoryAll, []core.Article{{ID: "newer-story", Title: "Newer story"}}))

	entry, ok, err := s.Get(core.CategoryAll)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, entry.Articles, 1)
	assert.Equal(t, "newer-story", entry.Articles[0].ID)
}

func TestFreshnessWithInjectedClock(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	s, err := New(t.TempDir(), WithClock(clock), WithTTL(15*time.Minute))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(core.CategoryAll, testArticles()))
	entry, ok, err := s.Get(core.CategoryAll)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, s.IsFresh(entry), "entry not fresh immediately after Put")

	now = now.Add(14 * time.Minute)
	assert.True(t, s.IsFresh(entry), "entry went stale inside the TTL window")

	now = now.Add(2 * time.Minute)
	assert.False(t, s.IsFresh(entry), "entry still fresh past the TTL window")
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(core.CategoryAll, testArticles()))
	require.NoError(t, s.Close())

	reopened, err := New(dir)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.Get(core.CategoryAll)
	require.NoError(t, err)
	assert.True(t, ok, "entry lost across reopen")
}

func TestEntriesIsolatedPerCategory(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(core.CategoryAll, testArticles()))
	require.NoError(t, s.Put(core.CategorySports, []core.Article{{ID: "pba-story"}}))

	all, ok, err := s.Get(core.CategoryAll)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "senate-approves-budget-gma", all.Articles[0].ID)

	sports, ok, err := s.Get(core.CategorySports)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "pba-story", sports.Articles[0].ID)
}
