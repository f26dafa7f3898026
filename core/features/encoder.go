package features

import (
	"math"
	"time"
)

// Count is the length of every encoded vector, bias term included. Training
// and inference both go through Encode, so the layout can never diverge
// between the two.
const Count = 8

// Encode maps a timestamp to its calendar feature vector: a leading bias
// term, sine/cosine pairs for hour of day, minute of hour and day of week,
// and a weekend flag. Days are numbered from Monday=0 so the weekend covers
// indices 5 and 6.
func Encode(t time.Time) []float64 {
	hour := float64(t.Hour())
	minute := float64(t.Minute())
	dow := float64((int(t.Weekday()) + 6) % 7)
	weekend := 0.0
	if dow >= 5 {
		weekend = 1
	}
	return []float64{
		1,
		math.Sin(2 * math.Pi * hour / 24),
		math.Cos(2 * math.Pi * hour / 24),
		math.Sin(2 * math.Pi * minute / 60),
		math.Cos(2 * math.Pi * minute / 60),
		math.Sin(2 * math.Pi * dow / 7),
		math.Cos(2 * math.Pi * dow / 7),
		weekend,
	}
}
