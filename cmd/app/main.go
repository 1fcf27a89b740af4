package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/fastboat/api"
	"github.com/Domenick1991/fastboat/config"
	"github.com/Domenick1991/fastboat/internal/bootstrap"
	"github.com/Domenick1991/fastboat/internal/cache"
	"github.com/Domenick1991/fastboat/internal/domain"
	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/logger"
	"github.com/Domenick1991/fastboat/internal/service/admin"
	"github.com/Domenick1991/fastboat/internal/service/booking"
	"github.com/Domenick1991/fastboat/internal/service/catalog"
	"github.com/Domenick1991/fastboat/internal/service/payment"
	"github.com/sirupsen/logrus"
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
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer repos.Close()

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatalf("booking timezone: %v", err)
	}

	bookingOpts := []booking.BookingServiceOption{booking.WithLocation(loc), booking.WithLogger(log)}
	paymentOpts := []payment.PaymentServiceOption{payment.WithLogger(log)}
	adminOpts := []admin.AdminServiceOption{admin.WithRecentLimit(cfg.Booking.RecentLimit), admin.WithLogger(log)}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unavailable, booking events will be dropped")
		}
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
		paymentOpts = append(paymentOpts, payment.WithProducer(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
		adminOpts = append(adminOpts, admin.WithProducer(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
	}

	routerOpts := api.RouterOptions{SwaggerDir: cfg.HTTP.SwaggerDir}
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.IdempotencyTTL())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, Idempotency-Key requests run unprotected until it recovers")
		}
		routerOpts.Idempotency = redisCache
	}

	catalogService := catalog.NewCatalogService(repos.Tickets, repos.Packages)
	bookingService := booking.NewBookingService(repos.Bookings, catalogService, bookingOpts...)
	paymentService := payment.NewPaymentService(repos.Bookings, catalogService, domain.BankDetails{
		BankName:      cfg.Bank.BankName,
		AccountNumber: cfg.Bank.AccountNumber,
		AccountName:   cfg.Bank.AccountName,
		Branch:        cfg.Bank.Branch,
	}, paymentOpts...)
	adminService := admin.NewAdminService(repos.Tickets, repos.Packages, repos.Bookings, adminOpts...)

	handlers := api.Handlers{
		Catalog:  api.NewCatalogHandler(catalogService, log),
		Bookings: api.NewBookingHandler(bookingService, log),
		Payments: api.NewPaymentHandler(paymentService, log),
		Admin:    api.NewAdminHandler(adminService, log),
	}

	if err := bootstrap.Run(ctx, cfg, handlers, routerOpts, log); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
