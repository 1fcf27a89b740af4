// Package worker holds the background jobs of cmd/worker: customer
// notifications driven by booking events and the periodic stats digest.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/fastboat/internal/kafka"
	"github.com/Domenick1991/fastboat/internal/metrics"
	"github.com/Domenick1991/fastboat/internal/service/admin"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

type StatsSource interface {
	Dashboard(ctx context.Context) (*admin.Dashboard, error)
}

// NotificationHandler adapts n to the consumer callback and counts every
// delivered event.
func NotificationHandler(n Notifier) func(context.Context, kafka.BookingEvent) error {
	return func(ctx context.Context, event kafka.BookingEvent) error {
		if err := n.Send(ctx, event); err != nil {
			return fmt.Errorf("notify %s for %s: %w", event.Type, event.BookingNumber, err)
		}
		metrics.NotificationsSent.WithLabelValues(event.Type).Inc()
		return nil
	}
}

// ReportStats logs one digest of the dashboard counters.
func ReportStats(ctx context.Context, src StatsSource, log logrus.FieldLogger) error {
	d, err := src.Dashboard(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"ticket_bookings":  d.Stats.TicketBookings,
		"package_bookings": d.Stats.PackageBookings,
		"revenue_cents":    d.Stats.RevenueCents,
		"pending_bookings": d.Stats.PendingBookings,
		"active_tickets":   d.Stats.ActiveTickets,
		"active_packages":  d.Stats.ActivePackages,
	}).Info("booking stats")
	return nil
}

// NewStatsScheduler schedules ReportStats every interval, starting right
// away. The caller starts and shuts down the scheduler.
func NewStatsScheduler(ctx context.Context, interval time.Duration, src StatsSource, log logrus.FieldLogger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := ReportStats(ctx, src, log); err != nil {
				log.WithError(err).Error("stats digest failed")
			}
		}),
		gocron.WithName("stats-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule stats digest: %w", err)
	}
	return s, nil
}
