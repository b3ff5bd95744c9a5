// Package sources holds the publisher registry and per-item link hygiene:
// the fixed feed list, home-page fallbacks for broken links, and the
// path-consistency filter that catches mis-sectioned items.
package sources

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Publisher is one configured upstream feed.
type Publisher struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feed_url"`
}

// fallbackURL is substituted when a link is unusable and the source has no
// known home page.
const fallbackURL = "https://www.google.com"

// defaultPublishers is the fixed Philippine publisher set, in registry order.
var defaultPublishers = []Publisher{
	{Name: "GMA", FeedURL: "https://data.gmanetwork.com/gno/rss/news/feed.xml"},
	{Name: "INQUIRER", FeedURL: "https://newsinfo.inquirer.net/feed"},
	{Name: "PHILSTAR", FeedURL: "https://www.philstar.com/rss/headlines"},
	{Name: "RAPPLER", FeedURL: "https://www.rappler.com/feed/"},
	{Name: "NEWS5", FeedURL: "https://www.interaksyon.com/feed/"},
	{Name: "MANILA TIMES", FeedURL: "https://www.manilatimes.net/news/feed"},
	{Name: "DAILY TRIBUNE", FeedURL: "https://tribune.net.ph/feed/"},
	{Name: "BUSINESSWORLD", FeedURL: "https://www.bworldonline.com/feed/"},
}

// publisherHomePages maps every source name the feeds are known to report to
// the publisher's home page. Several publishers appear under more than one
// name across their feeds.
var publisherHomePages = map[string]string{
	"GMA News":        "https://www.gmanetwork.com/news/",
	"Inquirer":        "https://newsinfo.inquirer.net",
	"PhilStar":        "https://www.philstar.com",
	"Manila Bulletin": "https://mb.com.ph",
	"Rappler":         "https://www.rappler.com",
	"GMA":             "https://www.gmanetwork.com/news/",
	"Philstar.com":    "https://www.philstar.com",
	"NEWS5":           "https://www.interaksyon.com",
	"MANILA TIMES":    "https://www.manilatimes.net",
	"DAILY TRIBUNE":   "https://tribune.net.ph",
	"BUSINESSWORLD":   "https://www.bworldonline.com",
}

// Publishers returns the configured feed list. When path is non-empty the
// YAML override file replaces the built-in registry.
func Publishers(path string) ([]Publisher, error) {
	if path == "" {
		out := make([]Publisher, len(defaultPublishers))
		copy(out, defaultPublishers)
		return out, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feeds override %s: %w", path, err)
	}
	defer f.Close()

	var cfg struct {
		Publishers []Publisher `yaml:"publishers"`
	}
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode feeds override %s: %w", path, err)
	}
	if len(cfg.Publishers) == 0 {
		return nil, fmt.Errorf("feeds override %s lists no publishers", path)
	}
	return cfg.Publishers, nil
}

// HomePage returns the known home page for a source name, if any.
func HomePage(sourceName string) (string, bool) {
	url, ok := publisherHomePages[sourceName]
	return url, ok
}

// NormalizeLink validates and repairs a per-item link. A missing or
// non-http(s) link is replaced with the publisher's home page, or a generic
// safe fallback when the source is unknown. Always returns a usable URL.
func NormalizeLink(link, sourceName string) string {
	if strings.HasPrefix(strings.TrimSpace(link), "http") {
		return link
	}
	if home, ok := publisherHomePages[sourceName]; ok {
		return home
	}
	return fallbackURL
}

// seriousKeywords flag government and economy headlines; mismatchPaths are the
// URL sections those headlines never legitimately live under.
var seriousKeywords = []string{
	"pbbm", "marcos", "economy", "inflation", "digitalization",
	"government", "dof", "neda", "pulitika", "ekonomiya", "monetary",
}

var mismatchPaths = []string{
	"/weather/", "/sports/", "/lifestyle/", "/entertainment/",
	"/showbiz/", "/isports/", "/celebrity/",
}

// IsPathConsistent rejects an item whose title carries a serious-topic keyword
// while its link points into a lifestyle-type section, which indicates feed
// mis-tagging upstream. Every other combination passes.
func IsPathConsistent(title, link string) bool {
	lowerTitle := strings.ToLower(title)
	lowerLink := strings.ToLower(link)

	serious := false
	for _, kw := range seriousKeywords {
		if strings.Contains(lowerTitle, kw) {
			serious = true
			break
		}
	}
	if !serious {
		return true
	}
	for _, path := range mismatchPaths {
		if strings.Contains(lowerLink, path) {
			return false
		}
	}
	return true
}
