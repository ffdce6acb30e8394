package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/config"
	"github.com/tracetrail/tracetrail/internal/client/reports"
	"github.com/tracetrail/tracetrail/internal/client/services"
	"github.com/tracetrail/tracetrail/internal/client/storage"
	"github.com/tracetrail/tracetrail/internal/client/stores"
	"github.com/tracetrail/tracetrail/internal/common"
	"github.com/tracetrail/tracetrail/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry

	session   *stores.SessionStore
	dashboard *stores.DashboardStore
	notes     *stores.NotificationStore

	auth        services.AuthService
	stats       services.DashboardService
	connections services.ConnectionService
	challenges  services.ChallengeService
	analysis    services.AnalysisService
	sink        reports.Sink

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the state database and builds every client component from c.
// The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	db, err := storage.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	tokens := storage.NewTokenStore(db, c.TokenKey)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	api, err := client.New(client.Options{
		BaseURL:   c.APIBaseURL,
		Timeout:   c.RequestTimeout,
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
		Tokens:    tokens,
		Metrics:   client.NewCollector(registry),
		Logger:    logger.With("component", "api"),
		UserAgent: common.AppName + "-cli",
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	auth := services.NewAuthService(api)
	stats := services.NewDashboardService(api)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		registry:    registry,
		session:     stores.NewSessionStore(auth, tokens, logger),
		dashboard:   stores.NewDashboardStore(stats, logger),
		notes:       stores.NewNotificationStore(stores.NotificationOptions{Duration: c.NotificationDuration}),
		auth:        auth,
		stats:       stats,
		connections: services.NewConnectionService(api),
		challenges:  services.NewChallengeService(api),
		analysis:    services.NewAnalysisService(api),
		sink:        sink,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func newSink(ctx context.Context, c *config.Config) (reports.Sink, error) {
	if c.S3.Bucket == "" {
		return reports.NewFileSink(c.ReportDir), nil
	}
	return reports.NewS3Sink(ctx, reports.S3Options{
		Bucket:       c.S3.Bucket,
		Region:       c.S3.Region,
		Endpoint:     c.S3.Endpoint,
		AccessKey:    c.S3.AccessKey,
		SecretKey:    c.S3.SecretKey,
		UsePathStyle: c.S3.UsePathStyle,
	})
}

// Run restores the session and blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) error {
	a.Root(ctx)
	return nil
}

// Close disposes the stores and closes the database.
func (a *App) Close() error {
	a.dashboard.Close()
	a.session.Close()
	a.notes.Close()
	return a.db.Close()
}

// ServeMetrics exposes the API client metrics on the configured address
// until ctx is done. With no address it returns immediately.
func (a *App) ServeMetrics(ctx context.Context) error {
	if a.config.MetricsAddr == "" {
		return nil
	}

	server := &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           client.MetricsHandler(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "metrics server starting", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
