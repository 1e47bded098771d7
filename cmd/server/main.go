package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manzanit0/geoapi/cmd/server/api"
	"github.com/manzanit0/geoapi/pkg/env"
	"github.com/manzanit0/geoapi/pkg/geoapi"
	"github.com/manzanit0/geoapi/pkg/geocode"
	"github.com/manzanit0/geoapi/pkg/history"
	"github.com/manzanit0/geoapi/pkg/logger"
	"github.com/manzanit0/geoapi/pkg/middleware"
	"github.com/manzanit0/geoapi/pkg/whttp"
)

const ServiceName = "geoapi-server"

func main() {
	env.LoadDotEnv()
	logger.InitGlobalSlog(ServiceName, env.Debug())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server shutdown abruptly", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("server exited")
}

func run(ctx context.Context) error {
	client, err := newGeoAPIClient()
	if err != nil {
		return fmt.Errorf("create geoapi client: %w", err)
	}

	repo, closeDB, err := newHistoryRepository(ctx)
	if err != nil {
		return fmt.Errorf("create history repository: %w", err)
	}
	defer closeDB()

	r := newRouter(client, newGeocoder(client), repo)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", env.Port()), Handler: r}
	errs := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on %s", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func newRouter(client *geoapi.Client, geocoder geocode.Client, repo history.Repository) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(env.Debug()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.NewSearchController(client, geocoder, repo).Register(r)
	return r
}

func newGeoAPIClient() (*geoapi.Client, error) {
	apiKey, err := env.GeoAPIKey()
	if err != nil {
		return nil, err
	}

	timeout, err := env.HTTPTimeout()
	if err != nil {
		return nil, err
	}

	httpClient := whttp.NewLoggingClient(timeout, env.Debug())
	return geoapi.New(apiKey, geoapi.WithBaseURL(env.GeoAPIBaseURL()), geoapi.WithHTTPClient(httpClient)), nil
}

func newGeocoder(client *geoapi.Client) geocode.Client {
	g := geocode.NewGeoAPIGeocoder(client.Search)
	if env.OSMFallback() {
		return geocode.NewChainedClient(g)
	}

	return geocode.NewClient(g)
}

// newHistoryRepository returns a nil repository when DATABASE_URL is unset.
func newHistoryRepository(ctx context.Context) (history.Repository, func(), error) {
	dsn := env.DatabaseURL()
	if dsn == "" {
		slog.Info("DATABASE_URL not set, search history disabled")
		return nil, func() {}, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open db connection: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("close db connection", "error", err.Error())
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("connected to the database successfully")

	repo := history.NewPgRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	return repo, closeDB, nil
}
