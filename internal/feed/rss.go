package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// RSSStrategy reads an RSS 2.0 bridge feed of the profile.
type RSSStrategy struct {
	// URL is the feed template, e.g. "https://rss.example.com/instagram/{username}".
	URL    string
	Client *http.Client
}

// Name implements Strategy.
func (s *RSSStrategy) Name() string { return "rss" }

type rssDoc struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Enclosure   struct {
		URL  string `xml:"url,attr"`
		Type string `xml:"type,attr"`
	} `xml:"enclosure"`
	Media []struct {
		URL    string `xml:"url,attr"`
		Medium string `xml:"medium,attr"`
		Type   string `xml:"type,attr"`
	} `xml:"http://search.yahoo.com/mrss/ content"`
	Thumbnail struct {
		URL string `xml:"url,attr"`
	} `xml:"http://search.yahoo.com/mrss/ thumbnail"`
}

// Fetch implements Strategy.
func (s *RSSStrategy) Fetch(ctx context.Context, username string) ([]Post, error) {
	body, err := get(ctx, s.Client, expand(s.URL, username),
		http.Header{"Accept": {"application/rss+xml, application/xml;q=0.9"}})
	if err != nil {
		return nil, err
	}

	var doc rssDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	posts := make([]Post, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		posts = append(posts, it.post())
	}
	return posts, nil
}

var shortcodePath = regexp.MustCompile(`/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

func (it rssItem) post() Post {
	images, text := scanDescription(it.Description)

	p := Post{
		ID:           strings.TrimSpace(it.GUID),
		Permalink:    strings.TrimSpace(it.Link),
		Caption:      strings.TrimSpace(it.Title),
		ThumbnailURL: it.Thumbnail.URL,
	}
	if p.ID == "" {
		p.ID = p.Permalink
	}
	if m := shortcodePath.FindStringSubmatch(p.Permalink); m != nil {
		p.Shortcode = m[1]
	}
	if p.Caption == "" {
		p.Caption = text
	}
	if t, ok := parsePubDate(it.PubDate); ok {
		p.Timestamp = t.Unix()
	}

	switch {
	case strings.HasPrefix(it.Enclosure.Type, "image/") && it.Enclosure.URL != "":
		p.ImageURL = it.Enclosure.URL
	case strings.HasPrefix(it.Enclosure.Type, "video/"):
		p.IsVideo = true
	}
	for _, m := range it.Media {
		if m.Medium == "video" || strings.HasPrefix(m.Type, "video/") {
			p.IsVideo = true
			continue
		}
		if p.ImageURL == "" && m.URL != "" {
			p.ImageURL = m.URL
		}
	}
	if p.ImageURL == "" && len(images) > 0 {
		p.ImageURL = images[0]
	}
	if p.ThumbnailURL == "" {
		p.ThumbnailURL = p.ImageURL
	}
	return p
}

// scanDescription returns the <img> sources and the plain text of an HTML
// item description.
func scanDescription(desc string) ([]string, string) {
	if strings.TrimSpace(desc) == "" {
		return nil, ""
	}
	doc, err := html.Parse(strings.NewReader(desc))
	if err != nil {
		return nil, ""
	}

	var images []string
	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "img" {
				if src := attr(n, "src"); src != "" {
					images = append(images, src)
				}
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return images, text.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700"}

func parsePubDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
