// cmd/menu-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cardapio-service/internal/alert"
	"cardapio-service/internal/api"
	commonaws "cardapio-service/internal/common/aws"
	"cardapio-service/internal/common/config"
	"cardapio-service/internal/common/database"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/common/observability"
	"cardapio-service/internal/menu/client"
	"cardapio-service/internal/menu/daily"
	"cardapio-service/internal/menu/weekly"
	"cardapio-service/internal/repository"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("info", "console")
		fallbackLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting menu service...",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("menu-service")
	defer obs.Shutdown()

	ctx := context.Background()

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	var rd *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rd, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rd.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rd.Close()
	zapLog.Info("Redis connected successfully")

	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	store := repository.NewCachedMenuStore(
		repository.NewPostgresMenuStore(pg, log),
		rd,
		time.Duration(cfg.Cache.MenuTTL)*time.Second,
		log,
	)
	search := repository.NewSearchIndex(es, cfg.Database.Elasticsearch.Index, log)

	menuClient := client.New(cfg.MenuAPI.BaseURL, log,
		client.WithTimeout(config.GetDuration(cfg.MenuAPI.Timeout)),
		client.WithRetries(cfg.MenuAPI.Retries),
		client.WithRetryDelay(config.GetDuration(cfg.MenuAPI.RetryDelay)),
	)

	dailyResolver := daily.New(log)
	weeklyResolver := weekly.New(menuClient, log)

	alerter := newAlerter(ctx, cfg, log, zapLog)
	watchCtx, stopWatchdog := context.WithCancel(ctx)
	defer stopWatchdog()
	go alert.NewWatchdog(menuClient, alerter, time.Minute, log).Run(watchCtx)

	handler := api.NewHandler(store, search, dailyResolver, weeklyResolver, log, map[string]api.Pinger{
		"postgres":      pg.Ping,
		"redis":         rd.Ping,
		"elasticsearch": func(context.Context) error { return es.Ping() },
	}, obs)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down menu service...")
	stopWatchdog()

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Menu service stopped gracefully")
}

// newAlerter builds the ops alerter. AWS client failures disable the
// affected channel instead of aborting startup.
func newAlerter(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) *alert.Alerter {
	var email alert.EmailSender
	var sms alert.SMSSender

	if cfg.Alerts.Email.Enabled {
		sesClient, err := commonaws.NewSESClient(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			zapLog.Warn("SES client init failed, email alerts disabled", zap.Error(err))
		} else {
			email = sesClient
		}
	}

	if cfg.Alerts.SMS.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Alerts.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS client init failed, SMS alerts disabled", zap.Error(err))
		} else {
			sms = snsClient
		}
	}

	return alert.New(cfg.Alerts, email, sms, log)
}
