// Package config loads runtime settings from an optional .env file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Prefix starts every environment key.
const Prefix = "NUMERA_"

// Config holds every runtime setting.
type Config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string
	// LogLevel is the lowest level written. Errors always go to stderr.
	LogLevel slog.Level
	// PageSize is the number of rows per admin screen page.
	PageSize int

	S3   S3
	Feed Feed
}

// S3 configures the primary media bucket. An empty Bucket disables it.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
	AccessKey string
	SecretKey string
}

// Feed configures the content-fetch chain.
type Feed struct {
	// Profile is the default profile URL or handle.
	Profile string
	APIURL  string
	RSSURL  string
	HTMLURL string
	Timeout time.Duration
	// FallbackPath is a JSON file of posts served when every strategy fails.
	FallbackPath string
	Limit        int
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		DBPath:    "numera.sqlite3",
		Addr:      ":8080",
		AdminUser: "admin",
		PageSize:  25,
		S3: S3{
			Region: "ap-south-1",
		},
		Feed: Feed{
			APIURL:  "https://i.instagram.com/api/v1/users/web_profile_info/?username={username}",
			HTMLURL: "https://www.instagram.com/{username}/",
			Timeout: 8 * time.Second,
			Limit:   12,
		},
	}
}

// Load reads envFile (when it exists) and the process environment. Values
// already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	file := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			file = m
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	return parse(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	})
}

type lookupFunc func(key string) (string, bool)

func parse(lookup lookupFunc) (*Config, error) {
	c := Defaults()
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(Prefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) {
		v, ok := lookup(Prefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s%s: expected a positive integer, got %q", Prefix, name, v))
			return
		}
		*dst = n
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookup(Prefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s%s: expected a positive duration, got %q", Prefix, name, v))
			return
		}
		*dst = d
	}

	str("DB", &c.DBPath)
	str("ADDR", &c.Addr)
	str("ADMIN_USER", &c.AdminUser)
	str("LOG", &c.LogPath)
	num("PAGE_SIZE", &c.PageSize)
	if v, ok := lookup(Prefix + "LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		if err := c.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			errs = append(errs, fmt.Errorf("%sLOG_LEVEL: expected debug, info, warn or error, got %q", Prefix, v))
		}
	}

	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_REGION", &c.S3.Region)
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("S3_PUBLIC_URL", &c.S3.PublicURL)
	str("S3_ACCESS_KEY", &c.S3.AccessKey)
	str("S3_SECRET_KEY", &c.S3.SecretKey)

	str("FEED_PROFILE", &c.Feed.Profile)
	str("FEED_API_URL", &c.Feed.APIURL)
	str("FEED_RSS_URL", &c.Feed.RSSURL)
	str("FEED_HTML_URL", &c.Feed.HTMLURL)
	dur("FEED_TIMEOUT", &c.Feed.Timeout)
	str("FEED_FALLBACK", &c.Feed.FallbackPath)
	num("FEED_LIMIT", &c.Feed.Limit)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// BindFlags registers the command-line overrides on fs with the loaded
// values as defaults. Each flag has a long and a one-letter form.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "")
	fs.StringVar(&c.DBPath, "d", c.DBPath, "")
	fs.StringVar(&c.Addr, "addr", c.Addr, "")
	fs.StringVar(&c.Addr, "a", c.Addr, "")
	fs.StringVar(&c.AdminUser, "user", c.AdminUser, "")
	fs.StringVar(&c.AdminUser, "u", c.AdminUser, "")
	fs.StringVar(&c.LogPath, "log", c.LogPath, "")
	fs.StringVar(&c.LogPath, "l", c.LogPath, "")
	fs.TextVar(&c.LogLevel, "log-level", c.LogLevel, "")
}
