package occupancy

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyHistory indicates that no observations were supplied, so no grid
// can be constructed.
var ErrEmptyHistory = errors.New("occupancy: empty history")

// Regularize resamples raw observations onto a fixed-step grid spanning
// [min(timestamp), max(timestamp)] inclusive. Observations need not be sorted;
// when two observations carry the same timestamp the later one wins. Grid
// points with no matching observation are filled with 0: a plug without a
// logged occupation is assumed free.
func Regularize(obs []Observation, step time.Duration) ([]Sample, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyHistory
	}
	if step <= 0 {
		return nil, fmt.Errorf("occupancy: step must be positive, got %v", step)
	}

	states := make(map[int64]int, len(obs))
	first, last := obs[0].Timestamp, obs[0].Timestamp
	for _, o := range obs {
		states[o.Timestamp.Unix()] = o.Occupied
		if o.Timestamp.Before(first) {
			first = o.Timestamp
		}
		if o.Timestamp.After(last) {
			last = o.Timestamp
		}
	}

	n := int(last.Sub(first)/step) + 1
	grid := make([]Sample, 0, n)
	for ts := first; !ts.After(last); ts = ts.Add(step) {
		s := Sample{Timestamp: ts}
		if v, ok := states[ts.Unix()]; ok {
			s.Occupied = v
		}
		grid = append(grid, s)
	}
	return grid, nil
}
