// Package app wires the HTTP API, metrics sinks and event bus into a
// runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiforecast "github.com/evsight/plugpredict/api/forecast"
	"github.com/evsight/plugpredict/config"
	coremetrics "github.com/evsight/plugpredict/core/metrics"
	"github.com/evsight/plugpredict/infra/logger"
	"github.com/evsight/plugpredict/infra/metrics"
	"github.com/evsight/plugpredict/internal/eventbus"
)

// Service serves forecast requests over HTTP and records run events.
type Service struct {
	srv         *http.Server
	bus         *eventbus.Bus
	recorder    coremetrics.ForecastRecorder
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	recorder, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	bus := eventbus.New()

	mux := http.NewServeMux()
	mux.Handle("/forecast", apiforecast.NewHandler(cfg.Forecast, bus, logger.New("api")))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Service{
		srv:         &http.Server{Addr: cfg.API.Addr, Handler: mux},
		bus:         bus,
		recorder:    recorder,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	go func() {
		for ev := range sub {
			if err := s.recorder.RecordForecast(ev); err != nil {
				s.log.Errorf("record forecast: %v", err)
			}
		}
	}()
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("forecast API listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the service resources.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
