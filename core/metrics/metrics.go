package metrics

import "time"

// ForecastEvent captures one per-resource forecast run for observability.
type ForecastEvent struct {
	RunID     string
	Resource  string
	Samples   int
	Horizon   int
	FinalLoss float64
	Duration  time.Duration
	Time      time.Time
	Err       error
}

// Status returns the label used by sinks to distinguish outcomes.
func (e ForecastEvent) Status() string {
	if e.Err != nil {
		return "error"
	}
	return "ok"
}

// ForecastRecorder records forecast runs for observability purposes.
type ForecastRecorder interface {
	RecordForecast(ev ForecastEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordForecast implements ForecastRecorder.
func (NopSink) RecordForecast(ForecastEvent) error { return nil }
