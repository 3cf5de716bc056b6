package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/numera-market/numera/internal/api"
	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/config"
	"github.com/numera-market/numera/internal/db"
	"github.com/numera-market/numera/internal/feed"
	"github.com/numera-market/numera/internal/imaging"
	"github.com/numera-market/numera/internal/media"
	"github.com/numera-market/numera/internal/metrics"
	"github.com/numera-market/numera/internal/service"
	"github.com/numera-market/numera/internal/store"
	"github.com/numera-market/numera/internal/web"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("numera", flag.ContinueOnError)
	cfg.BindFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: numera [flags]

Flags:
  -d, -db <path>          SQLite database path (default: numera.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -log-level <level>      debug, info, warn or error (default: info)
  -h, -help               show this help and exit

Settings are also read from NUMERA_* environment variables and a .env file
in the working directory. Flags win over both.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Records below ERROR go to stdout, ERROR to stderr, optionally also to a file.
	closeLog, err := setupLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	accounts := auth.NewAccounts(database)
	if err := ensureAdmin(ctx, accounts, cfg); err != nil {
		return err
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}
	sessions := auth.NewSessions(database, auth.NewSigner(jwtSecret, auth.DefaultTTL))
	services := service.New(database)

	uploads, err := uploadChain(ctx, database, cfg.S3)
	if err != nil {
		return err
	}
	provider := feedProvider(cfg.Feed)

	if err := metrics.DefaultRegistry.Register(metrics.NewListingCollector(func(ctx context.Context) (*store.Stats, error) {
		return store.GetStats(ctx, database)
	})); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return fmt.Errorf("registering listing metrics: %w", err)
		}
	}

	// Set up routers.
	apiRouter := api.NewRouter(api.Deps{
		DB:       database,
		Services: services,
		Sessions: sessions,
		Accounts: accounts,
		Uploader: uploads,
		Imaging:  imaging.Options{},
		Feed:     provider,
	})
	webRouter, err := web.NewRouter(web.Deps{
		DB:       database,
		Services: services,
		Sessions: sessions,
		Accounts: accounts,
		Feed:     provider,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mediaHandler := &api.MediaHandler{DB: database}
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /media/{id}", mediaHandler.Serve)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// ensureAdmin creates the first admin account with a random password when
// the database has none.
func ensureAdmin(ctx context.Context, accounts *auth.Accounts, cfg *config.Config) error {
	password, err := generatePassword(16)
	if err != nil {
		return fmt.Errorf("generating password: %w", err)
	}
	created, err := accounts.EnsureAdmin(ctx, cfg.AdminUser, password)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if created {
		printAdminCreated(cfg.AdminUser, password)
	}
	return nil
}

// uploadChain returns the media backends in the order they are tried: the
// S3 bucket when configured, the media table, then inline data URLs.
func uploadChain(ctx context.Context, database *sql.DB, conf config.S3) (*media.Chain, error) {
	var uploaders []media.Uploader
	if conf.Bucket != "" {
		s3conf := media.S3Config{
			Bucket:    conf.Bucket,
			Region:    conf.Region,
			Endpoint:  conf.Endpoint,
			PublicURL: conf.PublicURL,
			AccessKey: conf.AccessKey,
			SecretKey: conf.SecretKey,
		}
		client, err := media.NewS3Client(ctx, s3conf)
		if err != nil {
			return nil, fmt.Errorf("configuring S3: %w", err)
		}
		uploaders = append(uploaders, media.NewS3Uploader(client, s3conf))
	}
	uploaders = append(uploaders,
		media.NewStoreUploader(database, "/media"),
		media.DataURLUploader{},
	)

	chain := media.NewChain(metrics.UploadObserver{}, uploaders...)
	slog.Info("media uploads ready", "backends", chain.Backends())
	return chain, nil
}

// feedProvider builds the social feed chain from the configured endpoints.
func feedProvider(conf config.Feed) *feed.Provider {
	client := &http.Client{Timeout: conf.Timeout}

	var strategies []feed.Strategy
	if conf.APIURL != "" {
		strategies = append(strategies, &feed.APIStrategy{URL: conf.APIURL, Client: client})
	}
	if conf.RSSURL != "" {
		strategies = append(strategies, &feed.RSSStrategy{URL: conf.RSSURL, Client: client})
	}
	if conf.HTMLURL != "" {
		strategies = append(strategies, &feed.HTMLStrategy{URL: conf.HTMLURL, Client: client})
	}

	var fallback []feed.Post
	if conf.FallbackPath != "" {
		posts, err := feed.LoadFallback(conf.FallbackPath)
		if err != nil {
			slog.Warn("failed to load fallback feed", "path", conf.FallbackPath, "error", err)
		}
		fallback = posts
	}

	chain := feed.NewChain(strategies,
		feed.WithTimeout(conf.Timeout),
		feed.WithLimit(conf.Limit),
		feed.WithObserver(metrics.FeedObserver{}),
	)
	slog.Info("feed ready", "strategies", chain.Strategies(), "profile", conf.Profile, "fallback_posts", len(fallback))
	return &feed.Provider{Chain: chain, Profile: conf.Profile, Fallback: fallback, Limit: conf.Limit}
}

// printAdminCreated prints the first-run admin credentials to stdout.
func printAdminCreated(username, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
