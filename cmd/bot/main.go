package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/config"
	"clubhub-bot/internal/eventapi"
	"clubhub-bot/internal/server"
	"clubhub-bot/internal/session"
	"clubhub-bot/internal/sheets"
	"clubhub-bot/internal/tgbot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := logrus.NewEntry(newLogger(cfg)).WithField("env", cfg.Env)

	api := eventapi.New(eventapi.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		ReadRetries: cfg.API.ReadRetries,
	}, log)

	var sessions session.Store = session.NewMemoryStore()
	var redisPinger server.Pinger
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url: %v", err)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		store := session.NewRedisStore(rdb, cfg.SessionTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := store.Ping(pingCtx); err != nil {
			log.WithError(err).Warn("redis not reachable yet")
		}
		cancel()
		sessions = store
		redisPinger = store
		log.Info("sessions stored in redis")
	} else {
		log.Warn("REDIS_URL not set, sessions kept in memory")
	}

	var exporter tgbot.SheetExporter
	if cfg.SheetsEnabled() {
		sh, err := sheets.New(context.Background(), cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID)
		if err != nil {
			log.Fatalf("sheets: %v", err)
		}
		exporter = sh
	}

	botApp, err := tgbot.New(cfg, tgbot.Deps{
		API:      api,
		Sessions: sessions,
		Sheets:   exporter,
		Log:      log,
	})
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	httpSrv := server.New(cfg, server.Deps{
		Participants: api,
		Redis:        redisPinger,
		Log:          log,
	})

	// Start HTTP server
	go func() {
		log.Infof("HTTP listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Start Telegram
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := botApp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("bot stopped")
			cancel()
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down...")

	cancel()
	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = httpSrv.Shutdown(ctxTimeout)

	log.Info("bye")
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Env == "local" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
		return logger
	}

	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
