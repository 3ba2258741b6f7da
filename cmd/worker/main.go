// Package main runs the background job worker (sheet appends, emails).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chiplogic-academy/backend/config"
	"github.com/chiplogic-academy/backend/internal/emailer"
	"github.com/chiplogic-academy/backend/internal/sheets"
	"github.com/chiplogic-academy/backend/internal/worker"
	"github.com/chiplogic-academy/backend/pkg/database"
	"github.com/chiplogic-academy/backend/pkg/queue"
	"github.com/chiplogic-academy/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	sheetsClient := sheets.NewClient(cfg.Sheets.WebhookURL, cfg.Sheets.Secret, logger)
	emailClient := emailer.NewClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName, logger)
	emailRepo := emailer.NewRepository(pool)

	processor := worker.NewProcessor(jobQueue, sheetsClient, emailClient, emailRepo, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
