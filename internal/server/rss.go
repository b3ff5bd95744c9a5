package server

import (
	"encoding/xml"
	"net/http"
	"time"

	"tahofeed/internal/core"
)

// rssDescriptionLimit bounds item descriptions in the syndication feed.
const rssDescriptionLimit = 500

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	Language    string    `xml:"language"`
	PubDate     string    `xml:"pubDate"`
	TTL         int       `xml:"ttl"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        string        `xml:"guid"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	Source      rssSource     `xml:"source"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

// rssSource carries the original publisher name and the original article URL
// alongside the deep link.
type rssSource struct {
	URL  string `xml:"url,attr"`
	Name string `xml:",chardata"`
}

type rssEnclosure struct {
	URL string `xml:"url,attr"`
}

// handleRSS serves the syndication feed: a wider, diversity-free slice of the
// aggregation with deep links back into the reader.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	articles, err := s.svc.Aggregate(r.Context(), core.CategoryAll, s.syndicationN)
	if err != nil {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusInternalServerError)
		_ = xml.NewEncoder(w).Encode(struct {
			XMLName xml.Name `xml:"error"`
			Message string   `xml:",chardata"`
		}{Message: err.Error()})
		return
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "Daily Taho News Feed",
			Description: "Latest headlines from top Philippine news sources, curated by Daily Taho.",
			Link:        s.cfg.SiteURL,
			Language:    "en",
			PubDate:     time.Now().UTC().Format(time.RFC1123Z),
			TTL:         60,
			Items:       make([]rssItem, 0, len(articles)),
		},
	}

	for _, a := range articles {
		deepLink := s.cfg.SiteURL + "/?article=" + a.Slug
		item := rssItem{
			Title:       a.Title,
			Link:        deepLink,
			GUID:        deepLink,
			Description: truncateRunes(a.SummaryEnglish, rssDescriptionLimit),
			PubDate:     a.PubDate,
			Source:      rssSource{URL: a.URL, Name: a.Source.Name},
		}
		if a.ImageURL != "" {
			item.Enclosure = &rssEnclosure{URL: a.ImageURL}
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Header().Set("Cache-Control", feedCacheControl)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(doc); err != nil {
		s.log.Error("failed to encode rss feed", "error", err.Error())
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
