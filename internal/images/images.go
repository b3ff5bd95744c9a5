// Package images resolves a representative image URL from feed item HTML.
package images

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// trackerDomains are known tracking-pixel hosts; an extracted URL containing
// one of these yields no image rather than a 1x1 pixel.
var trackerDomains = []string{"feedburner", "doubleclick"}

var (
	ogImagePattern = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']|<meta[^>]+content=["']([^"']+)["'][^>]+property=["']og:image["']`)
	fbImagePattern = regexp.MustCompile(`(?i)<meta[^>]+name=["']facebook:image:src["'][^>]+content=["']([^"']+)["']|<meta[^>]+content=["']([^"']+)["'][^>]+name=["']facebook:image:src["']`)
	imgSrcPattern  = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
)

// Extract pulls an image URL from a raw HTML/description blob, in priority
// order: og:image meta, facebook:image:src meta, first <img src>. An empty
// return means "no image" and is not an error. Protocol-relative URLs are
// rewritten to https; tracker pixels are dropped.
func Extract(html string) string {
	if html == "" {
		return ""
	}

	url := extractWithGoquery(html)
	if url == "" {
		url = extractWithRegex(html)
	}
	return sanitize(url)
}

// extractWithGoquery handles well-formed fragments. Attribute order inside the
// meta tags does not matter to the selector.
func extractWithGoquery(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
		return content
	}
	if content, ok := doc.Find(`meta[name="facebook:image:src"]`).Attr("content"); ok && content != "" {
		return content
	}
	if src, ok := doc.Find("img").First().Attr("src"); ok && src != "" {
		return src
	}
	return ""
}

// extractWithRegex covers malformed fragments the HTML parser normalizes away,
// such as meta tags embedded in attribute soup or truncated markup.
func extractWithRegex(html string) string {
	if m := ogImagePattern.FindStringSubmatch(html); m != nil {
		return firstNonEmpty(m[1:])
	}
	if m := fbImagePattern.FindStringSubmatch(html); m != nil {
		return firstNonEmpty(m[1:])
	}
	if m := imgSrcPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

func firstNonEmpty(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return ""
}

func sanitize(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	for _, tracker := range trackerDomains {
		if strings.Contains(url, tracker) {
			return ""
		}
	}
	return url
}
