package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/fastboat/config"
	"github.com/Domenick1991/fastboat/internal/bootstrap"
	"github.com/Domenick1991/fastboat/internal/email"
	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/logger"
	"github.com/Domenick1991/fastboat/internal/service/admin"
	"github.com/Domenick1991/fastboat/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log).WithField("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer repos.Close()

	adminService := admin.NewAdminService(repos.Tickets, repos.Packages, repos.Bookings, admin.WithLogger(log))

	scheduler, err := worker.NewStatsScheduler(ctx, time.Duration(cfg.Worker.StatsIntervalMinutes)*time.Minute, adminService, log)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("scheduler shutdown")
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()
		if err := consumer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unavailable, consumer will keep retrying")
		}

		sender := email.NewSender(log)
		g.Go(func() error {
			return consumer.Consume(ctx, worker.NotificationHandler(sender))
		})
	} else {
		log.Warn("kafka brokers not configured, notifications disabled")
	}

	if cfg.Worker.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.Worker.MetricsAddress, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("worker stopped")
		return
	}
	log.Info("worker stopped")
}
