package core

import "testing"

func TestSlug(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "punctuation stripped before hyphenation",
			title:    "5 Bodies Found in Quarry!",
			expected: "5-bodies-found-in-quarry",
		},
		{
			name:     "surrounding whitespace trimmed",
			title:    "  Senate Passes Budget  ",
			expected: "senate-passes-budget",
		},
		{
			name:     "separator runs collapse to one hyphen",
			title:    "Peso -- hits  record_low",
			expected: "peso-hits-record-low",
		},
		{
			name:     "leading and trailing hyphens removed",
			title:    "--Breaking: Storm Signal--",
			expected: "breaking-storm-signal",
		},
		{
			name:     "already clean title unchanged",
			title:    "marcos signs new law",
			expected: "marcos-signs-new-law",
		},
		{
			name:     "empty title",
			title:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.title); got != tc.expected {
				t.Errorf("Slug(%q) = %q, want %q", tc.title, got, tc.expected)
			}
		})
	}
}

func TestArticleID(t *testing.T) {
	id := ArticleID("Senate Passes Budget", "GMA News")
	if id != "senate-passes-budget-gma-news" {
		t.Errorf("ArticleID() = %q, want %q", id, "senate-passes-budget-gma-news")
	}

	// Same headline from two publishers must not collide.
	other := ArticleID("Senate Passes Budget", "Rappler")
	if id == other {
		t.Errorf("ArticleID collision across sources: %q", id)
	}

	// Unknown source degrades to the bare slug.
	if got := ArticleID("Senate Passes Budget", ""); got != "senate-passes-budget" {
		t.Errorf("ArticleID with empty source = %q, want bare slug", got)
	}
}

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		input    string
		expected Category
		ok       bool
	}{
		{"Pulitika", CategoryPolitics, true},
		{"politics", CategoryPolitics, true},
		{"SPORTS", CategorySports, true},
		{"Lahat", CategoryAll, true},
		{"all", CategoryAll, true},
		{" Nagbabagang Balita ", CategoryBreaking, true},
		{"weather", "", false},
	}

	for _, tc := range testCases {
		got, ok := ParseCategory(tc.input)
		if ok != tc.ok || got != tc.expected {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)",
				tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) != 8 {
		t.Fatalf("Categories() returned %d entries, want 8", len(cats))
	}
	if cats[0] != CategoryAll {
		t.Errorf("first category = %q, want %q", cats[0], CategoryAll)
	}
	if cats[1] != CategoryBreaking {
		t.Errorf("second category = %q, want %q", cats[1], CategoryBreaking)
	}
}
