package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLStrategy scrapes the public profile page and recovers posts from the
// JSON blobs embedded in its scripts.
type HTMLStrategy struct {
	// URL is the page template, e.g. "https://www.instagram.com/{username}/".
	URL    string
	Client *http.Client
}

// Name implements Strategy.
func (s *HTMLStrategy) Name() string { return "html" }

// Fetch implements Strategy.
func (s *HTMLStrategy) Fetch(ctx context.Context, username string) ([]Post, error) {
	body, err := get(ctx, s.Client, expand(s.URL, username), http.Header{"Accept": {"text/html"}})
	if err != nil {
		return nil, err
	}
	return parseProfilePage(body)
}

const sharedDataPrefix = "window._sharedData"

func parseProfilePage(body []byte) ([]Post, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var shared, ldjson []Post
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && n.FirstChild != nil {
			script := n.FirstChild.Data
			switch {
			case attr(n, "type") == "application/ld+json":
				ldjson = append(ldjson, parseLDJSON(script)...)
			case strings.Contains(script, sharedDataPrefix):
				shared = append(shared, parseSharedData(script)...)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(shared) > 0 {
		return shared, nil
	}
	return ldjson, nil
}

// parseSharedData decodes "window._sharedData = {...};".
func parseSharedData(script string) []Post {
	i := strings.Index(script, sharedDataPrefix)
	rest := script[i+len(sharedDataPrefix):]
	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return nil
	}
	blob := strings.TrimRight(strings.TrimSpace(rest[start:]), ";")

	var data struct {
		EntryData struct {
			ProfilePage []struct {
				GraphQL struct {
					User *profileUser `json:"user"`
				} `json:"graphql"`
			} `json:"ProfilePage"`
		} `json:"entry_data"`
	}
	if err := json.NewDecoder(strings.NewReader(blob)).Decode(&data); err != nil {
		return nil
	}

	var posts []Post
	for _, page := range data.EntryData.ProfilePage {
		if page.GraphQL.User != nil {
			posts = append(posts, page.GraphQL.User.posts()...)
		}
	}
	return posts
}

// ldObject is the subset of schema.org ImageObject / VideoObject /
// SocialMediaPosting used for posts.
type ldObject struct {
	Type         any             `json:"@type"`
	Identifier   json.RawMessage `json:"identifier"`
	URL          string          `json:"url"`
	ContentURL   string          `json:"contentUrl"`
	ThumbnailURL json.RawMessage `json:"thumbnailUrl"`
	Image        json.RawMessage `json:"image"`
	Caption      string          `json:"caption"`
	Body         string          `json:"articleBody"`
	UploadDate   string          `json:"uploadDate"`
	DatePub      string          `json:"datePublished"`
	Stats        []struct {
		Type  string      `json:"interactionType"`
		Count json.Number `json:"userInteractionCount"`
	} `json:"interactionStatistic"`
	Graph []ldObject `json:"@graph"`
}

func parseLDJSON(script string) []Post {
	script = strings.TrimSpace(script)
	var objs []ldObject
	if strings.HasPrefix(script, "[") {
		if err := json.Unmarshal([]byte(script), &objs); err != nil {
			return nil
		}
	} else {
		var o ldObject
		if err := json.Unmarshal([]byte(script), &o); err != nil {
			return nil
		}
		objs = []ldObject{o}
	}

	var posts []Post
	for _, o := range objs {
		if len(o.Graph) > 0 {
			for _, g := range o.Graph {
				posts = appendLD(posts, g)
			}
			continue
		}
		posts = appendLD(posts, o)
	}
	return posts
}

func appendLD(posts []Post, o ldObject) []Post {
	typ := ldType(o.Type)
	if typ != "ImageObject" && typ != "VideoObject" && typ != "SocialMediaPosting" {
		return posts
	}

	p := Post{
		ID:           ldString(o.Identifier),
		ImageURL:     o.ContentURL,
		ThumbnailURL: ldString(o.ThumbnailURL),
		Caption:      o.Caption,
		Permalink:    o.URL,
		IsVideo:      typ == "VideoObject",
	}
	if p.Caption == "" {
		p.Caption = o.Body
	}
	if p.ImageURL == "" || p.IsVideo {
		if img := ldString(o.Image); img != "" {
			p.ImageURL = img
		} else if p.IsVideo && p.ThumbnailURL != "" {
			p.ImageURL = p.ThumbnailURL
		}
	}
	if m := shortcodePath.FindStringSubmatch(o.URL); m != nil {
		p.Shortcode = m[1]
	}
	if p.ID == "" {
		p.ID = p.Shortcode
	}
	for _, d := range []string{o.UploadDate, o.DatePub} {
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			p.Timestamp = t.Unix()
			break
		}
	}
	for _, st := range o.Stats {
		n, _ := st.Count.Int64()
		switch {
		case strings.HasSuffix(st.Type, "LikeAction"):
			p.LikeCount = n
		case strings.HasSuffix(st.Type, "CommentAction"):
			p.CommentCount = n
		}
	}
	return append(posts, p)
}

// ldType returns the first @type of an object.
func ldType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			s, _ := t[0].(string)
			return s
		}
	}
	return ""
}

// ldString reads a JSON-LD value that may be a string, a number, an array
// of strings or an object with a "url" or "value" member.
func ldString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return ldString(list[0])
	}
	var obj struct {
		URL   string `json:"url"`
		Value any    `json:"value"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.URL != "" {
			return obj.URL
		}
		switch v := obj.Value.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
