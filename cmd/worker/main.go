package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"pttech-backend/internal/config"
	discountservice "pttech-backend/internal/domains/discount/service"
	orderservice "pttech-backend/internal/domains/order/service"
	"pttech-backend/internal/infrastructure/email"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/internal/shared/lifecycle"
	"pttech-backend/pkg/container"
	"pttech-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	c, err := container.New(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("build container", err)
		os.Exit(1)
	}
	defer c.Close()

	deps := &taskDeps{
		mailer:    email.NewSMTPMailer(cfg.Email),
		sweeper:   lifecycle.NewSweeper(c.DB.Pool),
		discounts: c.DiscountService,
		orders:    c.OrderService,
		jobs:      cfg.Jobs,
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queue.QueueHigh:    6,
				queue.QueueDefault: 3,
				queue.QueueLow:     1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeEmailVerification, deps.handleEmailVerification)
	mux.HandleFunc(queue.TypeEmailOrderConfirmation, deps.handleOrderConfirmation)
	mux.HandleFunc(queue.TypeEmailOrderStatus, deps.handleOrderStatus)
	mux.HandleFunc(queue.TypeScheduledPublishSweep, deps.handlePublishSweep)
	mux.HandleFunc(queue.TypeDiscountExpirySweep, deps.handleDiscountExpiry)
	mux.HandleFunc(queue.TypeOrderAutoConfirm, deps.handleOrderAutoConfirm)

	scheduler := queue.NewScheduler(cfg.Redis, cfg.Jobs)
	if err := scheduler.RegisterPeriodicJobs(); err != nil {
		logger.Error("register periodic jobs", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("start scheduler", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("worker stopped", err)
			os.Exit(1)
		}
	}()
	logger.Info("worker started", map[string]interface{}{"concurrency": 10})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down", nil)
	scheduler.Shutdown()
	srv.Shutdown()
}

// taskDeps bundles what the task handlers need.
type taskDeps struct {
	mailer    email.Mailer
	sweeper   *lifecycle.Sweeper
	discounts discountservice.ServiceInterface
	orders    orderservice.ServiceInterface
	jobs      config.JobConfig
}
