package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evsight/plugpredict/core/logistic"
)

// Config defines the forecasting parameters for one run.
type Config struct {
	// Threshold is the probability cutoff above which a step is classified
	// as occupied. Ties at exactly the threshold count as occupied.
	Threshold    float64 `json:"threshold" yaml:"threshold"`
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	Iterations   int     `json:"iterations" yaml:"iterations"`
	L2Lambda     float64 `json:"l2_lambda" yaml:"l2_lambda"`
	// HorizonSteps is the number of future grid points to predict.
	HorizonSteps int `json:"horizon_steps" yaml:"horizon_steps"`
	// StepMinutes is the grid resolution in minutes.
	StepMinutes int `json:"step_minutes" yaml:"step_minutes"`
}

// SetDefaults applies the standard 12-hour, 5-minute configuration.
func (c *Config) SetDefaults() {
	if c.Threshold == 0 {
		c.Threshold = 0.6
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.05
	}
	if c.Iterations == 0 {
		c.Iterations = 3000
	}
	if c.L2Lambda == 0 {
		c.L2Lambda = 0.01
	}
	if c.HorizonSteps == 0 {
		c.HorizonSteps = 144
	}
	if c.StepMinutes == 0 {
		c.StepMinutes = 5
	}
}

// Validate rejects out-of-range parameters before any computation starts.
func (c Config) Validate() error {
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return &logistic.InvalidHyperparameterError{Name: "threshold", Value: c.Threshold}
	}
	if err := c.hyperparameters().Validate(); err != nil {
		return err
	}
	if c.HorizonSteps <= 0 {
		return &logistic.InvalidHyperparameterError{Name: "horizon_steps", Value: float64(c.HorizonSteps)}
	}
	if c.StepMinutes <= 0 {
		return &logistic.InvalidHyperparameterError{Name: "step_minutes", Value: float64(c.StepMinutes)}
	}
	return nil
}

func (c Config) hyperparameters() logistic.Hyperparameters {
	return logistic.Hyperparameters{
		LearningRate: c.LearningRate,
		Iterations:   c.Iterations,
		L2Lambda:     c.L2Lambda,
	}
}

// LoadConfig loads a Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	return cfg, err
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}
