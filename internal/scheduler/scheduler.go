package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/bethellan/MaranuiCam/internal/forecast"
	"github.com/bethellan/MaranuiCam/internal/observability"
	"github.com/bethellan/MaranuiCam/internal/store"
)

// Scheduler periodically re-assembles today's dataset so the served
// view stays fresh between user requests.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	store     *store.MemoryStore
	metrics   *observability.Metrics
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler.
func New(service *forecast.Service, st *store.MemoryStore, interval time.Duration, metrics *observability.Metrics) *Scheduler {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		store:     st,
		metrics:   metrics,
		interval:  interval,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler. The first refresh runs immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: refreshing today's dataset")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		d, err := s.service.Assemble(ctx, 0)
		if err != nil {
			log.Printf("scheduler: refresh failed: %v", err)
			return
		}
		if !s.store.Publish(d) {
			s.metrics.StaleDiscards.Inc()
			log.Println("scheduler: refresh superseded by a newer assembly")
		}
		s.store.Evict()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
