// Package media uploads processed images through an ordered list of
// backends and returns the URL of the first one that accepts the object.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Object is an image ready for upload.
type Object struct {
	// Category groups objects, e.g. "phone-numbers" or "banners".
	Category string
	Data     []byte
	MIME     string
}

// Uploader stores an object and returns a URL it can be fetched from.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, obj Object) (string, error)
}

// Observer is told about every upload attempt.
type Observer interface {
	Attempt(backend, outcome string)
}

// Result names the backend that accepted an upload.
type Result struct {
	URL     string `json:"url"`
	Backend string `json:"backend"`
}

// Chain tries uploaders in order until one succeeds.
type Chain struct {
	uploaders []Uploader
	observer  Observer
}

// NewChain returns a chain over uploaders. observer may be nil.
func NewChain(observer Observer, uploaders ...Uploader) *Chain {
	return &Chain{uploaders: uploaders, observer: observer}
}

// Backends returns the uploader names in the order they are tried.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.uploaders))
	for i, u := range c.uploaders {
		names[i] = u.Name()
	}
	return names
}

// Upload stores obj with the first uploader that accepts it.
func (c *Chain) Upload(ctx context.Context, obj Object) (Result, error) {
	if len(obj.Data) == 0 {
		return Result{}, errors.New("empty object")
	}
	obj.Category = categoryName(obj.Category)

	var failures []error
	for _, u := range c.uploaders {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		url, err := u.Upload(ctx, obj)
		if err == nil {
			c.observe(u.Name(), "ok")
			slog.Info("media uploaded", "backend", u.Name(), "category", obj.Category, "bytes", len(obj.Data))
			return Result{URL: url, Backend: u.Name()}, nil
		}
		c.observe(u.Name(), "error")
		slog.Warn("media upload failed", "backend", u.Name(), "category", obj.Category, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", u.Name(), err))
	}
	return Result{}, fmt.Errorf("all upload backends failed: %w", errors.Join(failures...))
}

func (c *Chain) observe(backend, outcome string) {
	if c.observer != nil {
		c.observer.Attempt(backend, outcome)
	}
}

// categoryName reduces a category to lower-case [a-z0-9-].
func categoryName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == ' ' || r == '/':
			b.WriteByte('-')
		}
	}
	if name := strings.Trim(b.String(), "-"); name != "" {
		return name
	}
	return "misc"
}

func extension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
