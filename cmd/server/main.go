// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/hlog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/moodtunes/internal/api/connect"
	"github.com/osa030/moodtunes/internal/app/auth"
	"github.com/osa030/moodtunes/internal/app/classifier"
	"github.com/osa030/moodtunes/internal/app/export"
	"github.com/osa030/moodtunes/internal/app/feedback"
	"github.com/osa030/moodtunes/internal/app/filter"
	"github.com/osa030/moodtunes/internal/app/notification"
	"github.com/osa030/moodtunes/internal/app/playback"
	playlistapp "github.com/osa030/moodtunes/internal/app/playlist"
	"github.com/osa030/moodtunes/internal/app/recommend"
	"github.com/osa030/moodtunes/internal/app/session"
	"github.com/osa030/moodtunes/internal/app/settings"
	domainexport "github.com/osa030/moodtunes/internal/domain/export"
	"github.com/osa030/moodtunes/internal/domain/playlist"
	"github.com/osa030/moodtunes/internal/infra/catalog"
	"github.com/osa030/moodtunes/internal/infra/config"
	"github.com/osa030/moodtunes/internal/infra/logger"
	"github.com/osa030/moodtunes/internal/infra/metrics"
	"github.com/osa030/moodtunes/internal/infra/store/memory"
	"github.com/osa030/moodtunes/internal/infra/store/sqlite"
)

var (
	app        = kingpin.New("moodtunes-server", "moodtunes mood-to-music server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available recommendation filters and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	// Run server (defer ensures cleanup runs)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// repositories are the storage backends selected by config.
type repositories struct {
	playlists playlist.Repository
	jobs      domainexport.Repository
	kv        settings.KV
	close     func() error
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "memory":
		zlog.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &repositories{
			playlists: memory.NewPlaylistRepository(),
			jobs:      memory.NewJobRepository(),
			kv:        memory.NewKV(),
			close:     func() error { return nil },
		}, nil
	default:
		zlog.Info().Msgf("Opening sqlite storage: dsn=%s", cfg.Storage.DSN)
		store, err := sqlite.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return &repositories{
			playlists: store.Playlists(),
			jobs:      store.Jobs(),
			kv:        store.KV(),
			close:     store.Close,
		}, nil
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := repos.close(); err != nil {
			zlog.Error().Msgf("Failed to close storage: %v", err)
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Components
	cat := catalog.Default()
	classifiers, err := classifier.NewSetFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid classifier config: %w", err)
	}
	engine, err := recommend.NewFromConfig(cfg, cat)
	if err != nil {
		return fmt.Errorf("invalid recommend config: %w", err)
	}

	store := playlistapp.NewStore(repos.playlists, cat)
	coordinator := export.NewCoordinator(store, cat, repos.jobs, m, export.DefaultExporters(cfg)...)
	defer coordinator.Close()

	player := playback.NewController(cat, playback.Config{
		TickInterval:  time.Duration(cfg.Playback.TickIntervalMs) * time.Millisecond,
		DefaultVolume: cfg.Playback.Volume(),
	})
	defer player.Close()

	hub := notification.NewManager(m)
	settingsSvc := settings.NewService(repos.kv)
	accounts := auth.NewMockProvider(repos.kv, time.Duration(cfg.Session.LoginDelayMs)*time.Millisecond)

	sessionMgr, err := session.NewManager(session.Deps{
		Classifiers: classifiers,
		Recommender: engine,
		Playback:    player,
		Playlists:   store,
		Exports:     coordinator,
		Hub:         hub,
		Settings:    settingsSvc,
		Accounts:    accounts,
		Metrics:     m,
	}, session.Options{
		HistorySize:           cfg.Session.HistorySize,
		ClassificationTimeout: time.Duration(cfg.Session.ClassificationTimeoutSec) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	// Prune finished export jobs
	scheduler := cron.New()
	if retention := cfg.RetentionDuration(); retention > 0 {
		if _, err := scheduler.AddFunc(cfg.Export.PruneSchedule, func() {
			if _, err := coordinator.Prune(ctx, time.Now().Add(-retention)); err != nil {
				zlog.Error().Msgf("Failed to prune export jobs: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid export.prune_schedule: %w", err)
		}
	}

	// Router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(hlog.NewHandler(zlog.Logger))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().Msgf("http: %s %s status=%d size=%d duration=%s", r.Method, r.URL.Path, status, size, duration)
	}))
	router.Use(middleware.Recoverer)

	router.Handle(cfg.Server.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	apiconnect.Register(router.Mount, apiconnect.Services{
		Mood:     apiconnect.NewMoodService(sessionMgr, classifiers, engine),
		Playback: apiconnect.NewPlaybackService(sessionMgr),
		Playlist: apiconnect.NewPlaylistService(sessionMgr, store),
		Export:   apiconnect.NewExportService(sessionMgr, coordinator),
		Account:  apiconnect.NewAccountService(sessionMgr, settingsSvc, feedback.NewService(repos.kv)),
	}, connect.WithInterceptors(apiconnect.NewAuthInterceptor(accounts)))

	serverAddr := cfg.Server.Addr
	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)

	sessionMgr.Start()
	scheduler.Start()

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s storage=%s", serverAddr, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		sessionMgr.Close()
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()

	// Close session manager first to terminate active streams
	sessionMgr.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// printFilters prints available filters.
func printFilters() {
	registered := filter.GetRegistered()

	fmt.Println("Available Filters:")
	for _, name := range filter.RegisteredNames() {
		f := registered[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
