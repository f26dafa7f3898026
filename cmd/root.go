package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evsight/plugpredict/config"
	"github.com/evsight/plugpredict/core/forecast"
	"github.com/evsight/plugpredict/infra/batch"
	"github.com/evsight/plugpredict/infra/logger"
	"github.com/evsight/plugpredict/infra/metrics"
	"github.com/evsight/plugpredict/infra/mqtt"
	"github.com/evsight/plugpredict/internal/eventbus"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "plugpredict",
	Short: "12h plug occupancy forecasting",
	Long:  "Trains a logistic model per plug from its occupancy history and predicts the next 12 hours at 5-minute resolution.",
	RunE:  runBatch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("batch")

	recorder, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub {
			if err := recorder.RecordForecast(ev); err != nil {
				logg.Errorf("record forecast: %v", err)
			}
		}
	}()

	var pub mqtt.Publisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		defer p.Close()
		pub = p
	}

	gen, err := forecast.NewGenerator(cfg.Forecast, logger.New("forecast"))
	if err != nil {
		return fmt.Errorf("forecast generator: %w", err)
	}
	runner, err := batch.New(cfg.Batch, gen, bus, pub, logg)
	if err != nil {
		return err
	}
	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	bus.Close()
	<-done
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d resources failed", sum.Failed, sum.Processed)
	}
	return nil
}
