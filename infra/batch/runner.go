// Package batch runs the forecaster over a directory of history files, one
// output file per input file. Resources are independent: files are processed
// concurrently and one failure never aborts the others.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evsight/plugpredict/core/forecast"
	"github.com/evsight/plugpredict/core/metrics"
	"github.com/evsight/plugpredict/infra/history"
	"github.com/evsight/plugpredict/infra/logger"
	"github.com/evsight/plugpredict/infra/mqtt"
	"github.com/evsight/plugpredict/internal/eventbus"
	"github.com/evsight/plugpredict/pkg/export"
)

// Config defines the batch runner locations.
type Config struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("batch: input_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("batch: output_dir is required")
	}
	return nil
}

// Summary reports the outcome of one batch run.
type Summary struct {
	Processed int
	Failed    int
}

// Runner forecasts every history file in a directory.
type Runner struct {
	cfg Config
	gen *forecast.Generator
	bus *eventbus.Bus
	pub mqtt.Publisher
	log logger.Logger
}

// New creates a Runner. bus and pub may be nil; events and broker publishing
// are then skipped.
func New(cfg Config, gen *forecast.Generator, bus *eventbus.Bus, pub mqtt.Publisher, log logger.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{cfg: cfg, gen: gen, bus: bus, pub: pub, log: log}, nil
}

// Run processes every .txt file in the input directory and writes one
// <base>_pred.json per file to the output directory. Per-file failures are
// logged and reported in the summary without stopping the rest.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("batch: create output dir: %w", err)
	}
	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("batch: read input dir: %w", err)
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sum Summary
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		name := e.Name()
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.processFile(ctx, name)
			mu.Lock()
			sum.Processed++
			if err != nil {
				sum.Failed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	r.log.Infof("batch complete: %d processed, %d failed", sum.Processed, sum.Failed)
	return sum, nil
}

func (r *Runner) processFile(ctx context.Context, name string) error {
	start := time.Now()
	resource := strings.TrimSuffix(name, filepath.Ext(name))
	ev := metrics.ForecastEvent{
		RunID:    uuid.NewString(),
		Resource: resource,
		Time:     start,
	}
	err := r.forecastFile(ctx, name, &ev)
	ev.Duration = time.Since(start)
	ev.Err = err
	if err != nil {
		r.log.Errorf("forecast %s: %v", name, err)
	}
	if r.bus != nil {
		r.bus.Publish(ev)
	}
	return err
}

func (r *Runner) forecastFile(ctx context.Context, name string, ev *metrics.ForecastEvent) error {
	obs, err := history.ReadFile(filepath.Join(r.cfg.InputDir, name))
	if err != nil {
		return err
	}
	res, err := r.gen.Run(ctx, obs)
	if err != nil {
		return err
	}
	ev.Samples = res.Samples
	ev.Horizon = len(res.Points)
	ev.FinalLoss = res.FinalLoss

	outPath := filepath.Join(r.cfg.OutputDir, export.OutputName(name))
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", outPath, err)
	}
	if err := export.WriteJSON(f, res.Points); err != nil {
		_ = f.Close()
		return fmt.Errorf("batch: write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("batch: close %s: %w", outPath, err)
	}
	r.log.Infof("saved forecast to %s", outPath)

	if r.pub != nil {
		if err := r.pub.PublishForecast(ev.Resource, res.Points); err != nil {
			// Broker trouble should not fail a run whose output is
			// already on disk.
			r.log.Warnf("publish %s: %v", ev.Resource, err)
		}
	}
	return nil
}
