package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/rentfolio/rentfolio/internal/app"
	"github.com/rentfolio/rentfolio/internal/platform/db"
	"github.com/rentfolio/rentfolio/internal/shared"
	"github.com/rentfolio/rentfolio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	client, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	mailer := jobs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, logger)
	scanJob := jobs.NewDelinquencyScanJob(pool, logger, client, auditLogger)

	scanTask, err := jobs.NewDelinquencyScanTask(jobs.DelinquencyScanPayload{MinMonthsBehind: 1})
	if err != nil {
		logger.Error("build scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: mailer.HandleSendEmail},
			{Type: jobs.TaskTypeDelinquencyScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Daily arrears sweep after the nightly payment imports settle.
			{Spec: "0 2 * * *", Task: scanTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
