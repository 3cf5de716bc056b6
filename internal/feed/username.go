package feed

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/numera-market/numera/internal/apperr"
)

// usernameMatchers are tried in order; the first match wins.
var usernameMatchers = []*regexp.Regexp{
	// https://www.instagram.com/handle/ and instagr.am short links
	regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?(?:instagram\.com|instagr\.am)/([^/?#\s]+)`),
	// any other profile URL: first path segment
	regexp.MustCompile(`(?i)^https?://[^/\s]+/@?([^/?#\s]+)`),
	// @handle
	regexp.MustCompile(`^@([^\s/]+)$`),
	// bare handle
	regexp.MustCompile(`^([A-Za-z0-9._]+)$`),
}

// reservedPaths are first path segments that are not profiles.
var reservedPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "explore": true, "stories": true, "tv": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._]`)

// ExtractUsername returns the profile handle named by profileURL, stripped
// of every character outside [A-Za-z0-9._].
func ExtractUsername(profileURL string) (string, error) {
	const op = "feed.extract_username"
	s := strings.TrimSpace(profileURL)

	for _, re := range usernameMatchers {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if reservedPaths[strings.ToLower(m[1])] {
			break
		}
		if name := unsafeChars.ReplaceAllString(m[1], ""); name != "" {
			return name, nil
		}
		break
	}
	return "", apperr.Validation(op, "no profile handle in "+quote(s), map[string]string{"profile": "is not a profile URL or handle"})
}

// quote shortens s to 80 runes for error details. Invalid UTF-8 is replaced
// so the detail stays safe to encode.
func quote(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) > 80 {
		s = string([]rune(s)[:80]) + "..."
	}
	return `"` + s + `"`
}
