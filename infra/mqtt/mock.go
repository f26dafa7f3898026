package mqtt

import (
	"fmt"
	"sync"

	"github.com/evsight/plugpredict/core/forecast"
)

// MockPublisher records published forecasts for tests.
type MockPublisher struct {
	mu        sync.Mutex
	Forecasts map[string]forecast.Forecast
	FailIDs   map[string]bool
	Closed    bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Forecasts: make(map[string]forecast.Forecast),
		FailIDs:   make(map[string]bool),
	}
}

// PublishForecast records the forecast or returns an error if configured to
// fail for the resource.
func (m *MockPublisher) PublishForecast(resource string, fc forecast.Forecast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[resource] {
		return fmt.Errorf("publish failed")
	}
	m.Forecasts[resource] = fc
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}
