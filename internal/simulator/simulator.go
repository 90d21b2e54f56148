// Package simulator advances open orders through a fixed tracking
// progression on a timer, imitating a real carrier feed.
package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"webshop/internal/config"
	"webshop/internal/model"
	"webshop/internal/repository"

	"github.com/rs/zerolog"
)

// locations are the predefined tracking locations a shipment may report.
var locations = []string{
	"Central Warehouse, Stockholm",
	"Distribution Center, Gothenburg",
	"Regional Sorting Facility, Malmö",
	"Local Delivery Center, Uppsala",
	"Transit Hub, Linköping",
	"Export Processing Center, Helsingborg",
	"Import Processing Center, Norrköping",
	"Cross-dock Facility, Örebro",
	"Delivery Station, Västerås",
	"Customer Delivery Point, Jönköping",
}

// statusMessages are the human-readable details per tracking status.
var statusMessages = map[model.TrackingStatus][]string{
	model.TrackingStatusPending: {
		"Order has been received and is pending processing",
		"Payment verification in progress",
		"Order is being prepared for warehouse processing",
		"Awaiting inventory allocation",
	},
	model.TrackingStatusProcessing: {
		"Order is being processed at our warehouse",
		"Items are being picked from inventory",
		"Order items are being packed",
		"Quality check in progress",
		"Final packaging and labeling",
	},
	model.TrackingStatusShipped: {
		"Order has been shipped from our warehouse",
		"In transit to distribution center",
		"Package has arrived at distribution hub",
		"Package is being sorted for delivery route",
		"Package has departed from regional facility",
	},
	model.TrackingStatusOutForDelivery: {
		"Package is out for delivery today",
		"Last mile delivery in progress",
		"Package is on the delivery vehicle",
		"Delivery attempt will be made today",
		"Driver is approaching your location",
	},
	model.TrackingStatusDelivered: {
		"Package has been delivered",
		"Package was handed directly to recipient",
		"Package was left at the front door",
		"Package was delivered to mailbox",
		"Package was delivered to a neighbor with permission",
	},
	model.TrackingStatusCancelled: {
		"Order has been cancelled",
		"Cancellation requested by customer",
		"Order cancelled due to payment issues",
		"Items out of stock, order cancelled",
		"Order cancelled due to shipping restrictions",
	},
}

// Simulator periodically appends tracking entries to a random subset of
// open orders. Each tick runs to completion before the next one starts.
type Simulator struct {
	repo        repository.OrderRepository
	logger      zerolog.Logger
	interval    time.Duration
	batchSize   int
	advanceProb float64
	rng         *rand.Rand

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a tracking simulator backed by the given order repository.
func New(repo repository.OrderRepository, cfg config.SimulatorConfig, logger zerolog.Logger) *Simulator {
	return &Simulator{
		repo:        repo,
		logger:      logger.With().Str("component", "tracking-simulator").Logger(),
		interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		batchSize:   cfg.BatchSize,
		advanceProb: cfg.AdvanceProbability,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:        make(chan struct{}),
	}
}

// Start launches the simulation loop in its own goroutine.
func (s *Simulator) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Int("batch_size", s.batchSize).
		Msg("starting tracking simulation")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Tick(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the simulation loop and waits for an in-flight tick.
func (s *Simulator) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.logger.Info().Msg("tracking simulation stopped")
}

// Tick advances up to batchSize randomly chosen open orders. Errors are
// logged and swallowed so that one bad order or a transient storage failure
// never kills the loop.
func (s *Simulator) Tick(ctx context.Context) {
	orders, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active orders")
		return
	}

	if len(orders) == 0 {
		return
	}

	s.rng.Shuffle(len(orders), func(i, j int) {
		orders[i], orders[j] = orders[j], orders[i]
	})

	count := min(len(orders), s.batchSize)
	for _, order := range orders[:count] {
		if err := s.advance(ctx, order.ID); err != nil {
			s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to advance order")
		}
	}

	s.logger.Debug().Int("count", count).Msg("tracking tick completed")
}

// advance appends one tracking entry for the order: with probability
// advanceProb the status moves one step along the progression, otherwise the
// current status repeats with a fresh location and message. When the status
// changes, only the order header's status field is updated; the tracking
// entry inserted here is the single entry for this transition.
func (s *Simulator) advance(ctx context.Context, orderID int64) (err error) {
	current := model.TrackingStatusPending
	latest, err := s.repo.LatestTracking(ctx, orderID)
	if err != nil {
		return err
	}
	if latest != nil {
		current = latest.Status
	}

	next := current
	if candidate, ok := current.Next(); ok && s.rng.Float64() < s.advanceProb {
		next = candidate
	}

	entry := &model.OrderTracking{
		OrderID:  orderID,
		Status:   next,
		Location: locations[s.rng.Intn(len(locations))],
		Details:  randomMessage(s.rng, next),
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.repo.InsertTracking(ctx, tx, entry); err != nil {
		return err
	}

	if next != current {
		if _, err = s.repo.UpdateStatus(ctx, tx, orderID, next.OrderStatus()); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	s.logger.Debug().
		Int64("order_id", orderID).
		Str("status", string(next)).
		Bool("advanced", next != current).
		Msg("tracking entry added")

	return nil
}

// randomMessage picks a message appropriate to the status.
func randomMessage(rng *rand.Rand, status model.TrackingStatus) string {
	messages := statusMessages[status]
	if len(messages) == 0 {
		return ""
	}
	return messages[rng.Intn(len(messages))]
}
