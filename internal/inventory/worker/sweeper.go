// Package worker contains the background sweeper for expired reservations.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecomworks/orderflow/internal/inventory/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultSweepInterval  = 30 * time.Second
	defaultSweepBatchSize = 100
)

var expiredReleasedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orderflow_expired_reservations_released_total",
	Help: "Total number of expired reservations released by the sweeper.",
})

// Sweeper periodically re-stocks reservations whose TTL elapsed without a
// confirm. This is what makes an order-service crash between reserve and
// confirm self-healing instead of a permanent stock leak.
type Sweeper struct {
	store     store.InventoryStore
	logger    *slog.Logger
	interval  time.Duration
	batchSize int32
}

func NewSweeper(inventoryStore store.InventoryStore, logger *slog.Logger, interval time.Duration, batchSize int32) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &Sweeper{
		store:     inventoryStore,
		logger:    logger.With("component", "reservation-sweeper"),
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Reservation sweeper started", "interval", s.interval, "batch_size", s.batchSize)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reservation sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			released, err := s.store.ReleaseExpired(ctx, s.batchSize)
			if err != nil {
				s.logger.Error("Failed to release expired reservations", "error", err)
				continue
			}
			if released > 0 {
				expiredReleasedTotal.Add(float64(released))
				s.logger.Info("Released expired reservations", "count", released)
			}
		}
	}
}
