package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxBody bounds how much of a response a strategy reads.
const maxBody = 4 << 20

const userAgent = "Mozilla/5.0 (compatible; numera-feed/1.0)"

// expand substitutes the escaped username for "{username}" in tmpl. A
// template without the placeholder gets the username appended as a path
// segment.
func expand(tmpl, username string) string {
	if strings.Contains(tmpl, "{username}") {
		return strings.ReplaceAll(tmpl, "{username}", url.PathEscape(username))
	}
	return strings.TrimSuffix(tmpl, "/") + "/" + url.PathEscape(username)
}

// get fetches target and returns at most maxBody bytes of a 2xx body.
func get(ctx context.Context, client *http.Client, target string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
