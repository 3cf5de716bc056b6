package feed

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Provider serves posts for the storefront. It runs the chain for the
// requested or default profile and substitutes the static fallback posts
// when the chain has no data.
type Provider struct {
	Chain *Chain
	// Profile is used when a request names no profile.
	Profile  string
	Fallback []Post
	Limit    int
}

// Posts returns the posts for profile. A result with Source ==
// SourceFallback means every strategy failed.
func (p *Provider) Posts(ctx context.Context, profile string) (Result, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = p.Profile
	}

	res, err := p.Chain.Fetch(ctx, profile)
	if errors.Is(err, ErrNoData) {
		slog.Warn("serving fallback feed", "profile", profile, "posts", len(p.Fallback))
		return Fallback(res.Username, p.Fallback, p.Limit), nil
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
