package logistic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// logitClip bounds the logit magnitude before exponentiation so Sigmoid
// never overflows, whatever the weights and features look like.
const logitClip = 35

// ErrNoSamples indicates that Fit was called without training data.
var ErrNoSamples = errors.New("logistic: no training samples")

// InvalidHyperparameterError reports an out-of-range training parameter.
// Hyperparameters are rejected before any computation starts and are never
// silently clamped.
type InvalidHyperparameterError struct {
	Name  string
	Value float64
}

func (e *InvalidHyperparameterError) Error() string {
	return fmt.Sprintf("logistic: invalid hyperparameter %s=%g", e.Name, e.Value)
}

// Hyperparameters configures a single gradient-descent fit.
type Hyperparameters struct {
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	Iterations   int     `json:"iterations" yaml:"iterations"`
	L2Lambda     float64 `json:"l2_lambda" yaml:"l2_lambda"`
}

// Validate checks all fields.
func (h Hyperparameters) Validate() error {
	if h.LearningRate <= 0 {
		return &InvalidHyperparameterError{Name: "learning_rate", Value: h.LearningRate}
	}
	if h.Iterations <= 0 {
		return &InvalidHyperparameterError{Name: "iterations", Value: float64(h.Iterations)}
	}
	if h.L2Lambda < 0 {
		return &InvalidHyperparameterError{Name: "l2_lambda", Value: h.L2Lambda}
	}
	return nil
}

// Sample pairs an encoded feature vector with its binary label.
type Sample struct {
	Features []float64
	Label    float64
}

// Model is a fitted binary classifier. Weights are owned by the model for
// the duration of one run and are never shared or persisted.
type Model struct {
	weights []float64
}

// Sigmoid returns 1/(1+exp(-z)) with the logit clipped to a safe range.
func Sigmoid(z float64) float64 {
	if z > logitClip {
		z = logitClip
	} else if z < -logitClip {
		z = -logitClip
	}
	return 1 / (1 + math.Exp(-z))
}

// Fit trains a regularized logistic regression with batch gradient descent.
// Weights start at zero and are updated for exactly h.Iterations iterations;
// there is no convergence check. The L2 penalty excludes the bias term,
// which by convention occupies index 0 of every feature vector.
func Fit(samples []Sample, h Hyperparameters) (*Model, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	dim := len(samples[0].Features)
	n := len(samples)
	x := mat.NewDense(n, dim, nil)
	y := make([]float64, n)
	for i, s := range samples {
		if len(s.Features) != dim {
			return nil, fmt.Errorf("logistic: sample %d has %d features, want %d", i, len(s.Features), dim)
		}
		x.SetRow(i, s.Features)
		y[i] = s.Label
	}

	w := make([]float64, dim)
	logits := make([]float64, n)
	resid := make([]float64, n)
	grad := make([]float64, dim)
	wv := mat.NewVecDense(dim, w)
	lv := mat.NewVecDense(n, logits)
	rv := mat.NewVecDense(n, resid)
	gv := mat.NewVecDense(dim, grad)

	for it := 0; it < h.Iterations; it++ {
		lv.MulVec(x, wv)
		for i := range resid {
			resid[i] = Sigmoid(logits[i]) - y[i]
		}
		gv.MulVec(x.T(), rv)
		floats.Scale(1/float64(n), grad)
		if h.L2Lambda > 0 {
			for j := 1; j < dim; j++ {
				grad[j] += h.L2Lambda * w[j]
			}
		}
		floats.AddScaled(w, -h.LearningRate, grad)
	}
	return &Model{weights: w}, nil
}

// PredictProba returns the occupancy probability for one feature vector.
// The result is always within [0,1].
func (m *Model) PredictProba(features []float64) float64 {
	return Sigmoid(floats.Dot(m.weights, features))
}

// Loss computes the mean log-loss of the model over the given samples.
func (m *Model) Loss(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		p := m.PredictProba(s.Features)
		sum -= s.Label*math.Log(p) + (1-s.Label)*math.Log(1-p)
	}
	return sum / float64(len(samples))
}

// Weights returns a copy of the fitted weight vector.
func (m *Model) Weights() []float64 {
	cp := make([]float64, len(m.weights))
	copy(cp, m.weights)
	return cp
}
