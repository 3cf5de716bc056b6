package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "numera" && r.URL.Path != "/numera" && r.URL.Path != "/numera/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const profileJSON = `{"data":{"user":{"username":"numera","edge_owner_to_timeline_media":{"edges":[
 {"node":{"id":"111","shortcode":"AbC","display_url":"https://cdn.example.com/111.jpg",
  "thumbnail_src":"https://cdn.example.com/111_t.jpg","is_video":false,"taken_at_timestamp":1700000000,
  "edge_liked_by":{"count":42},"edge_media_to_comment":{"count":7},
  "edge_media_to_caption":{"edges":[{"node":{"text":"VIP 9999999999"}}]}}},
 {"node":{"id":"112","shortcode":"DeF","display_url":"https://cdn.example.com/112.jpg","is_video":true,
  "edge_media_preview_like":{"count":3}}}
]}}}}`

func TestAPIStrategy(t *testing.T) {
	srv := serve(t, "application/json", profileJSON)
	s := &APIStrategy{URL: srv.URL + "/profile?username={username}"}

	got, err := s.Fetch(context.Background(), "numera")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Post{
		ID:           "111",
		ImageURL:     "https://cdn.example.com/111.jpg",
		ThumbnailURL: "https://cdn.example.com/111_t.jpg",
		Caption:      "VIP 9999999999",
		LikeCount:    42,
		CommentCount: 7,
		Permalink:    "https://www.instagram.com/p/AbC/",
		Timestamp:    1700000000,
		Shortcode:    "AbC",
	}, got[0])
	assert.True(t, got[1].IsVideo)
	assert.Equal(t, int64(3), got[1].LikeCount)
}

func TestAPIStrategyErrors(t *testing.T) {
	srv := serve(t, "application/json", `{"data":{}}`)

	_, err := (&APIStrategy{URL: srv.URL + "/profile?username={username}"}).Fetch(context.Background(), "numera")
	assert.Error(t, err)

	_, err = (&APIStrategy{URL: srv.URL + "/profile?username={username}"}).Fetch(context.Background(), "missing")
	assert.ErrorContains(t, err, "404")
}

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
 <title>numera</title>
 <item>
  <title>Fancy 786 numbers</title>
  <link>https://www.instagram.com/p/XyZ123/</link>
  <guid>https://www.instagram.com/p/XyZ123/</guid>
  <pubDate>Tue, 14 Nov 2023 22:13:20 +0000</pubDate>
  <description><![CDATA[<p>Fancy 786 numbers</p><img src="https://cdn.example.com/xyz.jpg">]]></description>
 </item>
 <item>
  <title>Reel</title>
  <link>https://www.instagram.com/reel/Vid1/</link>
  <guid>vid-1</guid>
  <media:content url="https://cdn.example.com/vid.mp4" medium="video"/>
  <media:thumbnail url="https://cdn.example.com/vid.jpg"/>
  <enclosure url="https://cdn.example.com/vid_poster.jpg" type="image/jpeg"/>
 </item>
</channel>
</rss>`

func TestRSSStrategy(t *testing.T) {
	srv := serve(t, "application/rss+xml", rssFeed)
	s := &RSSStrategy{URL: srv.URL}

	got, err := s.Fetch(context.Background(), "numera")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "https://cdn.example.com/xyz.jpg", got[0].ImageURL)
	assert.Equal(t, "XyZ123", got[0].Shortcode)
	assert.Equal(t, int64(1700000000), got[0].Timestamp)
	assert.Equal(t, "Fancy 786 numbers", got[0].Caption)

	assert.Equal(t, "vid-1", got[1].ID)
	assert.True(t, got[1].IsVideo)
	assert.Equal(t, "https://cdn.example.com/vid_poster.jpg", got[1].ImageURL)
	assert.Equal(t, "https://cdn.example.com/vid.jpg", got[1].ThumbnailURL)
	assert.Equal(t, "Vid1", got[1].Shortcode)
}

const sharedDataPage = `<!doctype html><html><head>
<script type="text/javascript">window._sharedData = {"entry_data":{"ProfilePage":[{"graphql":{"user":` +
	`{"username":"numera","edge_owner_to_timeline_media":{"edges":[{"node":{"id":"9","shortcode":"Q","display_url":"https://cdn.example.com/9.jpg"}}]}}}}]}};</script>
</head><body></body></html>`

const ldJSONPage = `<!doctype html><html><head>
<script type="application/ld+json">[{"@type":"ImageObject","identifier":{"@type":"PropertyValue","value":"55"},
 "contentUrl":"https://cdn.example.com/55.jpg","caption":"Mirror numbers","url":"https://www.instagram.com/p/M55/",
 "uploadDate":"2023-11-14T22:13:20Z",
 "interactionStatistic":[{"interactionType":"http://schema.org/LikeAction","userInteractionCount":12},
  {"interactionType":"https://schema.org/CommentAction","userInteractionCount":"4"}]},
 {"@type":"Person","name":"numera"}]</script>
</head><body></body></html>`

func TestHTMLStrategySharedData(t *testing.T) {
	srv := serve(t, "text/html", sharedDataPage)

	got, err := (&HTMLStrategy{URL: srv.URL + "/{username}/"}).Fetch(context.Background(), "numera")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].ID)
	assert.Equal(t, "https://cdn.example.com/9.jpg", got[0].ImageURL)
}

func TestHTMLStrategyLDJSON(t *testing.T) {
	srv := serve(t, "text/html", ldJSONPage)

	got, err := (&HTMLStrategy{URL: srv.URL + "/{username}/"}).Fetch(context.Background(), "numera")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Post{
		ID:           "55",
		ImageURL:     "https://cdn.example.com/55.jpg",
		Caption:      "Mirror numbers",
		Permalink:    "https://www.instagram.com/p/M55/",
		Shortcode:    "M55",
		Timestamp:    1700000000,
		LikeCount:    12,
		CommentCount: 4,
	}, got[0])
}

func TestHTMLStrategyNoData(t *testing.T) {
	srv := serve(t, "text/html", `<html><body><p>Login required</p></body></html>`)

	got, err := (&HTMLStrategy{URL: srv.URL + "/{username}/"}).Fetch(context.Background(), "numera")
	require.NoError(t, err)
	assert.Empty(t, got)
}
