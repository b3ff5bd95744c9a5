// Package classify assigns a category to each item via weighted keyword
// scoring against a fixed taxonomy.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"tahofeed/internal/core"
)

// taxonomy maps each scoring category to its weight and keyword list. All is
// not a scoring target: it matches everything unconditionally at the filtering
// layer and never appears here.
type taxonomyEntry struct {
	Category core.Category
	Weight   int
	Keywords []string
}

var taxonomy = []taxonomyEntry{
	{
		Category: core.CategoryBreaking,
		Weight:   10,
		Keywords: []string{
			"phivolcs", "pagasa", "lindol", "earthquake", "magnitude", "bulkan",
			"volcano", "bagyo", "storm", "lpa", "signal", "alert", "breaking",
			"nagbabaga", "flash", "urgent",
		},
	},
	{
		Category: core.CategoryGlobal,
		Weight:   9,
		Keywords: []string{
			"trump", "biden", "harris", "putin", "xi jinping", "ukraine", "israel",
			"gaza", "russia", "china", "usa", "america", "un", "nato",
			"international", "world",
		},
	},
	{
		Category: core.CategoryPolitics,
		Weight:   8,
		Keywords: []string{
			"pbbm", "marcos", "senado", "senate", "kongreso", "congress", "vp",
			"duterte", "election", "batas", "law", "bill", "halalan", "comelec",
			"malacañang",
		},
	},
	{
		Category: core.CategoryTechnology,
		Weight:   7,
		Keywords: []string{
			"gadget", "smartphone", "ai", "apps", "internet", "cybersecurity",
			"startup", "tech", "software", "hardware", "innovation", "robot",
			"computer",
		},
	},
	{
		Category: core.CategoryEconomy,
		Weight:   6,
		Keywords: []string{
			"inflation", "price", "market", "stock", "peso", "dollar", "dbm",
			"dof", "neda", "bsp", "tax", "business",
		},
	},
	{
		Category: core.CategorySports,
		Weight:   6,
		Keywords: []string{
			"nba", "pba", "basketball", "volleyball", "boxing", "mpl", "game",
			"score", "tournament", "championship",
		},
	},
	{
		Category: core.CategoryEntertainment,
		Weight:   5,
		Keywords: []string{
			"actor", "actress", "celebrity", "concert", "pelikula", "movie",
			"k-pop", "viral", "trending", "showbiz", "star", "drama", "kapuso",
			"kapamilya",
		},
	},
}

// keywordPatterns holds the precompiled whole-word matcher per keyword, in
// taxonomy order. Compiled once at package init.
var keywordPatterns = compilePatterns()

type categoryPatterns struct {
	category core.Category
	weight   int
	patterns []*regexp.Regexp
}

func compilePatterns() []categoryPatterns {
	out := make([]categoryPatterns, 0, len(taxonomy))
	for _, entry := range taxonomy {
		cp := categoryPatterns{category: entry.Category, weight: entry.Weight}
		for _, kw := range entry.Keywords {
			cp.patterns = append(cp.patterns,
				regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, cp)
	}
	return out
}

// Classify scores the combined title and description against every taxonomy
// category and returns the single best fit. Each keyword contributes its
// category weight once when it matches as a whole word, regardless of how many
// times it occurs. With no matches at all the item is filed under Breaking.
// Ties go to Breaking first, then to taxonomy declaration order.
func Classify(title, description string) core.Category {
	text := strings.ToLower(title + " " + description)

	type candidate struct {
		category core.Category
		score    int
	}
	var candidates []candidate

	for _, cp := range keywordPatterns {
		score := 0
		for _, pat := range cp.patterns {
			if pat.MatchString(text) {
				score += cp.weight
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{category: cp.category, score: score})
		}
	}

	if len(candidates) == 0 {
		return core.CategoryBreaking
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		// Breaking wins any tie; remaining ties keep taxonomy order, which
		// stable sort preserves from the iteration above.
		return candidates[i].category == core.CategoryBreaking &&
			candidates[j].category != core.CategoryBreaking
	})

	return candidates[0].category
}

// Matches reports whether an item belongs to a category view. All and
// Breaking pass everything: All is the unfiltered view and Breaking doubles as
// the default bucket for unclassifiable items.
func Matches(title, description string, category core.Category) bool {
	if category == core.CategoryAll || category == core.CategoryBreaking {
		return true
	}
	for _, cp := range keywordPatterns {
		if cp.category != category {
			continue
		}
		text := strings.ToLower(title + " " + description)
		for _, pat := range cp.patterns {
			if pat.MatchString(text) {
				return true
			}
		}
		return false
	}
	return true
}
