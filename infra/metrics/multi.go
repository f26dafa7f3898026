package metrics

import coremetrics "github.com/evsight/plugpredict/core/metrics"

// MultiSink fans forecast events out to multiple recorders.
type MultiSink struct {
	Sinks []coremetrics.ForecastRecorder
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.ForecastRecorder) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordForecast forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordForecast(ev); err != nil {
			return err
		}
	}
	return nil
}
