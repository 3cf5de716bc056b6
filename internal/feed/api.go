package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// APIStrategy reads the structured profile JSON endpoint.
type APIStrategy struct {
	// URL is the endpoint template, e.g.
	// "https://i.instagram.com/api/v1/users/web_profile_info/?username={username}".
	URL    string
	Client *http.Client
	// AppID is sent as X-IG-App-ID when set.
	AppID string
}

// Name implements Strategy.
func (s *APIStrategy) Name() string { return "api" }

// Fetch implements Strategy.
func (s *APIStrategy) Fetch(ctx context.Context, username string) ([]Post, error) {
	header := http.Header{"Accept": {"application/json"}}
	if s.AppID != "" {
		header.Set("X-IG-App-ID", s.AppID)
	}

	body, err := get(ctx, s.Client, expand(s.URL, username), header)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data struct {
			User *profileUser `json:"user"`
		} `json:"data"`
		// Some mirrors return the user object at the top level.
		User *profileUser `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	user := resp.Data.User
	if user == nil {
		user = resp.User
	}
	if user == nil {
		return nil, fmt.Errorf("profile response has no user")
	}
	return user.posts(), nil
}

// profileUser is the user object shared by the JSON API and the
// window._sharedData blob.
type profileUser struct {
	Username string `json:"username"`
	Timeline struct {
		Edges []struct {
			Node timelineNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_owner_to_timeline_media"`
}

type timelineNode struct {
	ID           string `json:"id"`
	Shortcode    string `json:"shortcode"`
	DisplayURL   string `json:"display_url"`
	ThumbnailSrc string `json:"thumbnail_src"`
	IsVideo      bool   `json:"is_video"`
	TakenAt      int64  `json:"taken_at_timestamp"`
	Likes        struct {
		Count int64 `json:"count"`
	} `json:"edge_liked_by"`
	Preview struct {
		Count int64 `json:"count"`
	} `json:"edge_media_preview_like"`
	Comments struct {
		Count int64 `json:"count"`
	} `json:"edge_media_to_comment"`
	Caption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
}

func (u *profileUser) posts() []Post {
	posts := make([]Post, 0, len(u.Timeline.Edges))
	for _, e := range u.Timeline.Edges {
		n := e.Node
		p := Post{
			ID:           n.ID,
			ImageURL:     n.DisplayURL,
			ThumbnailURL: n.ThumbnailSrc,
			LikeCount:    max(n.Likes.Count, n.Preview.Count),
			CommentCount: n.Comments.Count,
			Timestamp:    n.TakenAt,
			IsVideo:      n.IsVideo,
			Shortcode:    n.Shortcode,
		}
		if len(n.Caption.Edges) > 0 {
			p.Caption = n.Caption.Edges[0].Node.Text
		}
		if n.Shortcode != "" {
			p.Permalink = "https://www.instagram.com/p/" + n.Shortcode + "/"
		}
		posts = append(posts, p)
	}
	return posts
}
