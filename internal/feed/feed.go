// Package feed retrieves recent social posts for a profile through an
// ordered chain of retrieval strategies.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoData is returned when every strategy failed. It is distinct from an
// empty result produced by a strategy that succeeded.
var ErrNoData = errors.New("feed: no strategy returned data")

// SourceFallback tags results served from the static fallback file.
const SourceFallback = "fallback"

// Post is one normalized social post.
type Post struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Caption      string `json:"caption,omitempty"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	Permalink    string `json:"permalink,omitempty"`
	// Timestamp is seconds since the Unix epoch.
	Timestamp int64  `json:"timestamp"`
	IsVideo   bool   `json:"is_video"`
	Shortcode string `json:"shortcode,omitempty"`
}

// WellFormed reports whether p can be displayed.
func (p Post) WellFormed() bool {
	return p.ID != "" && p.ImageURL != ""
}

// Result is the outcome of a successful fetch.
type Result struct {
	Username string `json:"username"`
	// Source names the strategy that produced Posts, or SourceFallback.
	Source string `json:"source"`
	Posts  []Post `json:"posts"`
}

// Fallback builds a result from static posts, capped to limit when
// limit > 0.
func Fallback(username string, posts []Post, limit int) Result {
	if posts == nil {
		posts = []Post{}
	}
	return Result{Username: username, Source: SourceFallback, Posts: capPosts(posts, limit)}
}

// LoadFallback reads static posts from a JSON file holding either an array
// of posts or an object with a "posts" array.
func LoadFallback(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fallback feed: %w", err)
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err == nil {
		return wellFormed(posts), nil
	}

	var wrapped struct {
		Posts []Post `json:"posts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing fallback feed: %w", err)
	}
	return wellFormed(wrapped.Posts), nil
}

func wellFormed(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.WellFormed() {
			out = append(out, p)
		}
	}
	return out
}

func capPosts(posts []Post, limit int) []Post {
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
