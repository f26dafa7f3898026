package occupancy

import "time"

// TimeLayout is the timestamp format used by history files and forecast
// output.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultStep is the grid resolution of occupancy history.
const DefaultStep = 5 * time.Minute

// Observation is a single raw occupancy reading for one plug.
// Occupied is 1 when the plug is in use and 0 when it is free.
type Observation struct {
	Timestamp time.Time
	Occupied  int
}

// Sample is one point of a regularized occupancy series.
type Sample struct {
	Timestamp time.Time
	Occupied  int
}
