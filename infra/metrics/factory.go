package metrics

import (
	coremetrics "github.com/evsight/plugpredict/core/metrics"
)

// FromConfig builds the recorder described by cfg: Prometheus and Influx
// sinks as enabled, fanned out through a MultiSink, or a NopSink when
// nothing is configured.
func FromConfig(cfg coremetrics.Config) (coremetrics.ForecastRecorder, error) {
	var sinks []coremetrics.ForecastRecorder
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
