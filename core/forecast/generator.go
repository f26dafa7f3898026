package forecast

import (
	"context"
	"time"

	"github.com/evsight/plugpredict/core/features"
	"github.com/evsight/plugpredict/core/logger"
	"github.com/evsight/plugpredict/core/logistic"
	"github.com/evsight/plugpredict/core/occupancy"
)

// Generator runs the full per-resource pipeline: regularize the history,
// train a logistic model on it and score the future grid. Each Run trains
// from scratch; no model state survives between runs.
type Generator struct {
	cfg Config
	log logger.Logger
}

// Result is the outcome of one forecast run.
type Result struct {
	Points Forecast
	// Samples is the size of the regularized training set.
	Samples int
	// FinalLoss is the mean log-loss of the fitted model over its own
	// training set, reported for observability.
	FinalLoss float64
}

// NewGenerator validates the configuration and returns a Generator.
// Zero-valued fields of cfg take their defaults first.
func NewGenerator(cfg Config, log logger.Logger) (*Generator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Generator{cfg: cfg, log: log}, nil
}

// Config returns the effective configuration after defaulting.
func (g *Generator) Config() Config { return g.cfg }

// Run produces the forecast for one resource. The context is checked
// between pipeline stages only; a fit in progress always completes.
func (g *Generator) Run(ctx context.Context, obs []occupancy.Observation) (*Result, error) {
	step := time.Duration(g.cfg.StepMinutes) * time.Minute
	grid, err := occupancy.Regularize(obs, step)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples := make([]logistic.Sample, len(grid))
	for i, s := range grid {
		samples[i] = logistic.Sample{
			Features: features.Encode(s.Timestamp),
			Label:    float64(s.Occupied),
		}
	}

	model, err := logistic.Fit(samples, g.cfg.hyperparameters())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	last := grid[len(grid)-1].Timestamp
	points := make(Forecast, g.cfg.HorizonSteps)
	for i := range points {
		ts := last.Add(time.Duration(i+1) * step)
		p := model.PredictProba(features.Encode(ts))
		v := 0
		if p >= g.cfg.Threshold {
			v = 1
		}
		points[i] = Point{Timestamp: ts, Value: v}
	}

	res := &Result{Points: points, Samples: len(grid), FinalLoss: model.Loss(samples)}
	g.log.Debugw("forecast complete", map[string]any{
		"samples": res.Samples,
		"horizon": len(points),
		"loss":    res.FinalLoss,
	})
	return res, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
