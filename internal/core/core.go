// Package core defines the shared domain types used across the pipeline.
package core

import (
	"regexp"
	"strings"
	"time"
)

// Category is a taxonomy label assigned to an article. The values are the
// Filipino display names used by the client and the serving endpoints.
type Category string

const (
	CategoryAll           Category = "Lahat"
	CategoryBreaking      Category = "Nagbabagang Balita"
	CategoryPolitics      Category = "Pulitika"
	CategoryEconomy       Category = "Ekonomiya"
	CategorySports        Category = "Isports"
	CategoryEntertainment Category = "Showbiz"
	CategoryTechnology    Category = "Teknolohiya"
	CategoryGlobal        Category = "Global"
)

// Categories returns all categories in declaration order. All is first and is
// never a scoring target; the rest follow the taxonomy order used for
// deterministic tie-breaking.
func Categories() []Category {
	return []Category{
		CategoryAll,
		CategoryBreaking,
		CategoryPolitics,
		CategoryEconomy,
		CategorySports,
		CategoryEntertainment,
		CategoryTechnology,
		CategoryGlobal,
	}
}

// ParseCategory resolves a category from its display name or English alias.
func ParseCategory(s string) (Category, bool) {
	name := strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	aliases := map[string]Category{
		"all":           CategoryAll,
		"breaking":      CategoryBreaking,
		"politics":      CategoryPolitics,
		"economy":       CategoryEconomy,
		"sports":        CategorySports,
		"entertainment": CategoryEntertainment,
		"technology":    CategoryTechnology,
		"global":        CategoryGlobal,
	}
	if c, ok := aliases[strings.ToLower(name)]; ok {
		return c, true
	}
	return "", false
}

// RawItem is one entry from an upstream publisher feed after normalization.
// It exists only during a single aggregation pass and is never persisted.
type RawItem struct {
	Title       string
	Link        string
	PubDate     string // source-format timestamp, kept for display
	Published   time.Time
	SourceName  string
	Description string // raw, possibly HTML-laden
	ImageURL    string
}

// Source identifies the publisher of an article.
type Source struct {
	Name string `json:"name"`
}

// Article is the client-facing item persisted in the feed cache.
// SummaryFilipino may hold a placeholder until enrichment completes; consumers
// must treat it as eventually consistent.
type Article struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Source          Source   `json:"source"`
	Category        Category `json:"category"`
	PublishTime     string   `json:"publishTime"`
	PubDate         string   `json:"pubDate,omitempty"`
	ReadTime        string   `json:"readTime"`
	ImageURL        string   `json:"imageUrl"`
	SummaryShort    string   `json:"summaryShort"`
	SummaryEnglish  string   `json:"summaryEnglish"`
	SummaryFilipino string   `json:"summaryFilipino,omitempty"`
	URL             string   `json:"url"`
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slug derives the stable URL slug for a title. The transformation must stay
// bit-exact with the feed producer so deep links resolve on both sides:
// lowercase, trim, strip non word/space/hyphen runes, collapse separator runs
// into a single hyphen, trim leading and trailing hyphens.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return slugTrim.ReplaceAllString(s, "")
}

// ArticleID derives the article identifier from title and source. Slug-only
// ids collide when two publishers run the same headline, so the id carries a
// source discriminator while the slug itself stays unchanged for deep links.
func ArticleID(title, sourceName string) string {
	slug := Slug(title)
	src := Slug(sourceName)
	if src == "" {
		return slug
	}
	return slug + "-" + src
}
