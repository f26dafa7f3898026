package logistic

import (
	"errors"
	"math"
	"testing"
)

func trainingSet() []Sample {
	// Linearly separable on the second feature.
	var samples []Sample
	for i := 0; i < 20; i++ {
		v := float64(i%10)/10 - 1
		samples = append(samples, Sample{Features: []float64{1, v}, Label: 0})
		samples = append(samples, Sample{Features: []float64{1, v + 1.2}, Label: 1})
	}
	return samples
}

func TestFitValidatesHyperparameters(t *testing.T) {
	samples := trainingSet()
	cases := []Hyperparameters{
		{LearningRate: 0, Iterations: 10, L2Lambda: 0},
		{LearningRate: -1, Iterations: 10, L2Lambda: 0},
		{LearningRate: 0.1, Iterations: 0, L2Lambda: 0},
		{LearningRate: 0.1, Iterations: 10, L2Lambda: -0.5},
	}
	for _, h := range cases {
		_, err := Fit(samples, h)
		var ihe *InvalidHyperparameterError
		if !errors.As(err, &ihe) {
			t.Fatalf("expected InvalidHyperparameterError for %+v, got %v", h, err)
		}
	}
}

func TestFitNoSamples(t *testing.T) {
	_, err := Fit(nil, Hyperparameters{LearningRate: 0.1, Iterations: 10})
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestFitLossDecreases(t *testing.T) {
	samples := trainingSet()
	short, err := Fit(samples, Hyperparameters{LearningRate: 0.1, Iterations: 50, L2Lambda: 0.01})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	long, err := Fit(samples, Hyperparameters{LearningRate: 0.1, Iterations: 2000, L2Lambda: 0.01})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if long.Loss(samples) >= short.Loss(samples) {
		t.Fatalf("loss did not decrease: %v -> %v", short.Loss(samples), long.Loss(samples))
	}
}

func TestPredictProbaBounds(t *testing.T) {
	m := &Model{weights: []float64{1e6, -1e6}}
	for _, f := range [][]float64{
		{1, 1e12},
		{1, -1e12},
		{1e9, 1e9},
		{0, 0},
	} {
		p := m.PredictProba(f)
		if math.IsNaN(p) || p < 0 || p > 1 {
			t.Fatalf("probability out of range for %v: %v", f, p)
		}
	}
}

func TestFitDegenerateLabels(t *testing.T) {
	for _, label := range []float64{0, 1} {
		var samples []Sample
		for i := 0; i < 40; i++ {
			samples = append(samples, Sample{Features: []float64{1, float64(i) / 40}, Label: label})
		}
		m, err := Fit(samples, Hyperparameters{LearningRate: 0.05, Iterations: 3000, L2Lambda: 0.01})
		if err != nil {
			t.Fatalf("fit with constant label %v: %v", label, err)
		}
		for _, w := range m.Weights() {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				t.Fatalf("non-finite weight %v for constant label %v", w, label)
			}
		}
		// Predictions must lean consistently toward the only observed class.
		for i := 0; i < 40; i++ {
			p := m.PredictProba([]float64{1, float64(i) / 40})
			if label == 1 && p < 0.5 {
				t.Fatalf("all-occupied history predicted free: p=%v", p)
			}
			if label == 0 && p > 0.5 {
				t.Fatalf("all-free history predicted occupied: p=%v", p)
			}
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	samples := trainingSet()
	h := Hyperparameters{LearningRate: 0.05, Iterations: 500, L2Lambda: 0.01}
	a, err := Fit(samples, h)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	b, err := Fit(samples, h)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	wa, wb := a.Weights(), b.Weights()
	for i := range wa {
		if wa[i] != wb[i] {
			t.Fatalf("weight %d differs between runs: %v vs %v", i, wa[i], wb[i])
		}
	}
}

func TestL2ShrinksWeightsNotBias(t *testing.T) {
	samples := trainingSet()
	free, err := Fit(samples, Hyperparameters{LearningRate: 0.1, Iterations: 1000, L2Lambda: 0})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	reg, err := Fit(samples, Hyperparameters{LearningRate: 0.1, Iterations: 1000, L2Lambda: 1})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(reg.Weights()[1]) >= math.Abs(free.Weights()[1]) {
		t.Fatalf("penalty did not shrink weight: %v vs %v", reg.Weights()[1], free.Weights()[1])
	}
}

func TestSigmoidClipped(t *testing.T) {
	if p := Sigmoid(1e308); p != Sigmoid(100) {
		t.Fatalf("large logits should saturate identically: %v vs %v", p, Sigmoid(100))
	}
	if p := Sigmoid(-1e308); p <= 0 || math.IsNaN(p) {
		t.Fatalf("clipped sigmoid must stay positive and finite: %v", p)
	}
}
