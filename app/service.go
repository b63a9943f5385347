// Package app wires the coordinator, record store, metrics and notifier
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/droneops/coordinator/api"
	"github.com/droneops/coordinator/config"
	"github.com/droneops/coordinator/core/coord"
	coremetrics "github.com/droneops/coordinator/core/metrics"
	"github.com/droneops/coordinator/core/store"
	"github.com/droneops/coordinator/infra/logger"
	"github.com/droneops/coordinator/infra/metrics"
	"github.com/droneops/coordinator/infra/mqtt"
	"github.com/droneops/coordinator/infra/store/cached"
	"github.com/droneops/coordinator/infra/store/memstore"
	"github.com/droneops/coordinator/infra/store/sqlstore"
	"github.com/droneops/coordinator/internal/eventbus"
	"github.com/droneops/coordinator/internal/seed"
)

// Service owns the long-lived pieces of the coordinator process.
type Service struct {
	Coordinator *coord.Coordinator

	cfg      *config.Config
	bus      *eventbus.Bus
	sink     coremetrics.MetricsSink
	notifier mqtt.Notifier
	log      logger.Logger
	closers  []func() error
}

// OpenStore builds the configured record store, seeded and cache-wrapped
// as requested.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func() error, error) {
	var (
		st       store.Store
		closeFn  = func() error { return nil }
		seedable interface {
			Seed(context.Context, store.Snapshot) error
		}
	)
	switch cfg.Backend {
	case "memory":
		ms := memstore.New()
		st = ms
		seedable = seedAdapter{ms}
	case "sqlite":
		ss, err := sqlstore.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		st = ss
		closeFn = ss.Close
		seedable = ss
	default:
		return nil, nil, fmt.Errorf("unknown store backend %s", cfg.Backend)
	}
	if cfg.SeedFile != "" {
		snap, err := seed.Load(cfg.SeedFile)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		if err := seedable.Seed(ctx, snap); err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("seed store: %w", err)
		}
	}
	if cfg.CacheTTLSeconds > 0 {
		st = cached.New(st, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return st, closeFn, nil
}

// seedAdapter lifts the memstore's synchronous Seed into the common shape.
type seedAdapter struct{ ms *memstore.MemStore }

func (a seedAdapter) Seed(_ context.Context, snap store.Snapshot) error {
	a.ms.Seed(snap)
	return nil
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, closeStore, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var notifier mqtt.Notifier = mqtt.NopNotifier{}
	if cfg.MQTT.Enabled {
		n, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			_ = closeStore()
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		notifier = n
	}

	bus := eventbus.New()
	svc := &Service{
		Coordinator: coord.New(st, bus, logg),
		cfg:         cfg,
		bus:         bus,
		sink:        sink,
		notifier:    notifier,
		log:         logg,
		closers:     []func() error{closeStore, notifier.Close},
	}
	return svc, nil
}

// Run starts the subscribers and the HTTP listener and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go metrics.Collect(ctx, s.bus, s.sink, s.log)
	go mqtt.Forward(ctx, s.bus, s.notifier, s.log)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	handler := api.New(s.Coordinator, s.log)
	srv := &http.Server{Addr: s.cfg.API.Listen, Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infof("coordinator API listening on %s", s.cfg.API.Listen)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	var errs []error
	for _, fn := range s.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
