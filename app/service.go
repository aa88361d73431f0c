// Package app wires the coordinator from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/skyops/api"
	"github.com/kilianp07/skyops/config"
	"github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/conflicts"
	corelogger "github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/matching"
	coremetrics "github.com/kilianp07/skyops/core/metrics"
	"github.com/kilianp07/skyops/core/monitoring"
	corestore "github.com/kilianp07/skyops/core/store"
	"github.com/kilianp07/skyops/core/urgent"
	infraaudit "github.com/kilianp07/skyops/infra/audit"
	"github.com/kilianp07/skyops/infra/logger"
	"github.com/kilianp07/skyops/infra/metrics"
	inframon "github.com/kilianp07/skyops/infra/monitoring"
	"github.com/kilianp07/skyops/infra/mqtt"
	infrastore "github.com/kilianp07/skyops/infra/store"
	"github.com/kilianp07/skyops/internal/eventbus"
)

// Service owns the store, the engines and the optional adapters.
type Service struct {
	Store    corestore.Store
	Engine   *matching.Engine
	Detector *conflicts.Detector
	Ranker   *urgent.Ranker
	// Audit is nil when no audit backend is configured.
	Audit audit.LogStore

	cfg       *config.Config
	bus       eventbus.EventBus
	log       corelogger.Logger
	mon       monitoring.Monitor
	sink      coremetrics.MetricsSink
	notifier  *mqtt.Notifier
	client    *mqtt.PahoClient
	promAddr  string
	auditDone <-chan struct{}
}

// New creates a Service from the configuration. The MQTT client connects
// here when enabled.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logger.SetConsole(cfg.Logging.Console)
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	st, err := infrastore.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", cfg.Store.Type, err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = closeStore(st)
		return nil, fmt.Errorf("metrics: %w", err)
	}
	auditLog, err := infraaudit.New(cfg.Audit)
	if err != nil {
		_ = closeStore(st)
		return nil, fmt.Errorf("audit %s: %w", cfg.Audit.Type, err)
	}

	bus := eventbus.New()
	engine := matching.NewEngine(st, logger.New("matching"), bus)
	svc := &Service{
		Store:    st,
		Engine:   engine,
		Detector: conflicts.NewDetector(st, logger.New("conflicts"), bus),
		Ranker:   urgent.NewRanker(engine, logger.New("urgent"), bus),
		Audit:    auditLog,
		cfg:      cfg,
		bus:      bus,
		log:      logg,
		mon:      mon,
		sink:     sink,
		promAddr: metrics.PromAddr(cfg.Metrics.Sinks),
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT.Config, logger.New("mqtt_client"), mon)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.client = client
		svc.notifier = mqtt.NewNotifier(client, cfg.MQTT.TopicPrefix, logger.New("mqtt_notifier"))
	}
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return api.NewServer(api.Deps{
		Engine:   s.Engine,
		Detector: s.Detector,
		Ranker:   s.Ranker,
		Audit:    s.Audit,
		Log:      logger.New("api"),
		Monitor:  s.mon,
		Token:    s.cfg.API.Token,
	}).Router()
}

// Start attaches the bus consumers. It does not block and must be called
// at most once.
func (s *Service) Start(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics"))
	if s.Audit != nil {
		s.auditDone = infraaudit.StartRecorder(ctx, s.bus, s.Audit, logger.New("audit"))
	}
	if s.notifier != nil {
		s.notifier.Start(ctx, s.bus)
	}
}

// Run serves the API and the metrics endpoint until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer s.mon.Recover()
	s.Start(ctx)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr, prometheus.DefaultGatherer, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.API.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the service. Pending audit records are
// written before the audit store closes.
func (s *Service) Close() error {
	s.bus.Close()
	if s.auditDone != nil {
		select {
		case <-s.auditDone:
		case <-time.After(2 * time.Second):
			s.log.Warnf("audit recorder still draining")
		}
	}
	if s.client != nil {
		s.client.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.mon.Flush(2 * time.Second)
	var errs []error
	if s.Audit != nil {
		if err := s.Audit.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit: %w", err))
		}
	}
	if err := closeStore(s.Store); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}

func closeStore(st corestore.Store) error {
	if c, ok := st.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
