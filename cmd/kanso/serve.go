package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-insights/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-insights/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-insights/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-insights/internal/config"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
	"github.com/comitanigiacomo/kanso-insights/internal/core/services"
	"github.com/comitanigiacomo/kanso-insights/internal/core/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the stats HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg config.Application) error {
	startTime := time.Now()

	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is required (set KANSO_AUTH_SECRET)")
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Connecting to database...")
	db, err := repository.Connect(cfg.Database.DSN(), cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Database connected successfully.")

	if cfg.Database.Migrate {
		if err := repository.Migrate(cfg.Database.DSN()); err != nil {
			return err
		}
	}

	rdb, err := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Pass, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("Redis connected successfully.")

	habitRepo := repository.NewCachedHabitRepository(repository.NewPostgresHabitRepository(db), rdb, cfg.Stats.HabitTTL)
	entryRepo := repository.NewPostgresEntryRepository(db)
	dayLogRepo := repository.NewPostgresDayLogRepository(db)
	reportCache := cache.NewRedisReportCache(rdb, cfg.Stats.ReportTTL)

	statsService := services.NewStatsService(
		habitRepo,
		entryRepo,
		dayLogRepo,
		reportCache,
		domain.SystemClock{},
		domain.StartOfWeek(cfg.Stats.StartOfWeek),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	refreshWorker := workers.NewRefreshWorker(statsService, cfg.Stats.QueueSize)
	refreshWorker.Start(ctx)
	statsService.SetRefreshQueue(refreshWorker)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		StatsHandler: adapterHTTP.NewStatsHandler(statsService),
		Tokens:       services.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, 24*time.Hour),
		DB:           db,
		Redis:        rdb,
		RateLimit:    cfg.Server.RateLimit,
		RateWindow:   cfg.Server.RateWindow,
		StartTime:    startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Kanso Insights running on http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info("Stop signal received. Shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server stopped gracefully.")
	return nil
}
