package forecast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evsight/plugpredict/core/occupancy"
)

// Point is one predicted occupancy state.
type Point struct {
	Timestamp time.Time
	Value     int
}

// Forecast is an ordered sequence of predictions at fixed intervals.
type Forecast []Point

type pointJSON struct {
	Timestamp string `json:"timestamp"`
	Value     int    `json:"value"`
}

// MarshalJSON renders the timestamp in the history-file layout.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{
		Timestamp: p.Timestamp.Format(occupancy.TimeLayout),
		Value:     p.Value,
	})
}

// UnmarshalJSON parses the wire representation back into a Point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pj pointJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	ts, err := time.Parse(occupancy.TimeLayout, pj.Timestamp)
	if err != nil {
		return fmt.Errorf("forecast: bad timestamp %q: %w", pj.Timestamp, err)
	}
	p.Timestamp = ts
	p.Value = pj.Value
	return nil
}
