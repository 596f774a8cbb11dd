// Package scheduler runs the background discovery poll. The discovery
// service decides whether a roll happens; the scheduler only provides
// the heartbeat and feeds finds into the inventory.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/moonlinghq/moonling-core/internal/domain"
	"github.com/moonlinghq/moonling-core/internal/inventory"
	"github.com/moonlinghq/moonling-core/internal/logger"
)

// Discoverer is the narrow port onto the discovery service
type Discoverer interface {
	Discover(ctx context.Context) []domain.IngredientDiscovery
}

// Sink is the narrow port onto the inventory service
type Sink interface {
	Add(ctx context.Context, items []inventory.AddInput)
}

// Scheduler manages the recurring discovery poll
type Scheduler struct {
	cron       *cron.Cron
	discoverer Discoverer
	sink       Sink
	spec       string
}

// New creates a scheduler polling on the given cron spec, for example
// "@every 15m".
func New(spec string, discoverer Discoverer, sink Sink) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		discoverer: discoverer,
		sink:       sink,
		spec:       spec,
	}
}

// Start registers the poll job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := s.cron.AddFunc(s.spec, s.pollDiscovery); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Discovery poller started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running poll to finish
func (s *Scheduler) Stop(ctx context.Context) {
	log := logger.FromContext(ctx)
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info("Discovery poller stopped")
}

func (s *Scheduler) pollDiscovery() {
	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	log := logger.FromContext(ctx)

	found := s.discoverer.Discover(ctx)
	if len(found) == 0 {
		return
	}

	items := make([]inventory.AddInput, 0, len(found))
	for _, d := range found {
		items = append(items, inventory.AddInput{
			ID:       d.IngredientID,
			Quantity: d.Quantity,
			Source:   domain.SourceDiscovery,
		})
	}
	s.sink.Add(ctx, items)
	log.Info("Discovered ingredients added to inventory", "count", len(items))
}
