package metrics

import (
	coremetrics "github.com/evsight/plugpredict/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records forecast runs in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	loss     *prometheus.GaugeVec
}

// NewPromSink registers forecast metrics on the default Prometheus
// registerer. The Prometheus server is started separately with
// StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plugpredict_forecast_runs_total",
		Help: "Total number of per-resource forecast runs",
	}, []string{"resource", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plugpredict_forecast_duration_seconds",
		Help:    "Wall time of one forecast run, training included",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	loss := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plugpredict_forecast_final_loss",
		Help: "Training-set log-loss of the last fitted model",
	}, []string{"resource"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(loss); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			loss = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, duration: duration, loss: loss}, nil
}

// RecordForecast increments the run counter and, on success, observes the
// duration and final loss.
func (s *PromSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	s.runs.WithLabelValues(ev.Resource, ev.Status()).Inc()
	if ev.Err == nil {
		s.duration.WithLabelValues(ev.Resource).Observe(ev.Duration.Seconds())
		s.loss.WithLabelValues(ev.Resource).Set(ev.FinalLoss)
	}
	return nil
}
