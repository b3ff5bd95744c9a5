package classify

import (
	"testing"

	"tahofeed/internal/core"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name        string
		title       string
		description string
		expected    core.Category
	}{
		{
			name:        "no keyword matches defaults to breaking",
			title:       "Local fiesta draws record crowd",
			description: "Thousands joined the annual celebration.",
			expected:    core.CategoryBreaking,
		},
		{
			name:        "breaking outranks global",
			title:       "BREAKING: Trump announces new tariffs",
			description: "",
			expected:    core.CategoryBreaking,
		},
		{
			name:        "single politics keyword",
			title:       "Senate approves national budget",
			description: "The chamber voted on third reading.",
			expected:    core.CategoryPolitics,
		},
		{
			name:        "repeated keyword counts once",
			title:       "Peso peso peso",
			description: "peso watch: peso steady",
			expected:    core.CategoryEconomy,
		},
		{
			name:        "two matched keywords outscore one heavier category",
			title:       "Trump and Putin meet at summit",
			description: "",
			expected:    core.CategoryGlobal,
		},
		{
			name:        "keyword must match as whole word",
			title:       "Repainting the barangay hall",
			description: "", // "ai" inside "repainting" must not count
			expected:    core.CategoryBreaking,
		},
		{
			name:        "category from description when title is neutral",
			title:       "What happened last night",
			description: "The PBA finals went to a deciding game.",
			expected:    core.CategorySports,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.title, tc.description)
			if got != tc.expected {
				t.Errorf("Classify(%q, %q) = %q, want %q",
					tc.title, tc.description, got, tc.expected)
			}
		})
	}
}

func TestClassifyTieBreakingWins(t *testing.T) {
	// Four distinct breaking keywords (4x10) against five distinct politics
	// keywords (5x8) score 40 each; the tie must go to Breaking.
	title := "Lindol earthquake magnitude bagyo update"
	description := "Marcos, senado, Duterte, Comelec at halalan coverage"
	if got := Classify(title, description); got != core.CategoryBreaking {
		t.Errorf("equal-score tie broke to %q, want %q", got, core.CategoryBreaking)
	}
}

func TestClassifyTieKeepsTaxonomyOrder(t *testing.T) {
	// One economy keyword and one sports keyword score 6 each; the earlier
	// taxonomy entry must win deterministically.
	got := Classify("Peso rally delights NBA fans", "")
	if got != core.CategoryEconomy {
		t.Errorf("tie broke to %q, want %q", got, core.CategoryEconomy)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	title := "Peso rally delights NBA fans"
	first := Classify(title, "")
	for i := 0; i < 50; i++ {
		if got := Classify(title, ""); got != first {
			t.Fatalf("Classify is not deterministic: %q then %q", first, got)
		}
	}
}

func TestMatches(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		category core.Category
		expected bool
	}{
		{
			name:     "all passes everything",
			title:    "Local fiesta draws record crowd",
			category: core.CategoryAll,
			expected: true,
		},
		{
			name:     "breaking passes everything as the default bucket",
			title:    "Local fiesta draws record crowd",
			category: core.CategoryBreaking,
			expected: true,
		},
		{
			name:     "sports keyword matches sports view",
			title:    "PBA finals go the distance",
			category: core.CategorySports,
			expected: true,
		},
		{
			name:     "sports view rejects politics item",
			title:    "Senate approves national budget",
			category: core.CategorySports,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.title, "", tc.category); got != tc.expected {
				t.Errorf("Matches(%q, %q) = %v, want %v",
					tc.title, tc.category, got, tc.expected)
			}
		})
	}
}
