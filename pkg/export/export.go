// Package export serializes forecasts to their on-disk formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evsight/plugpredict/core/forecast"
	"github.com/evsight/plugpredict/core/occupancy"
)

// OutputName derives the forecast file name from a history file path:
// plug42.txt becomes plug42_pred.json.
func OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_pred.json"
}

// WriteJSON writes the forecast to w as an indented JSON array of
// {timestamp, value} objects.
func WriteJSON(w io.Writer, fc forecast.Forecast) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// WriteCSV writes the forecast to w in CSV format.
func WriteCSV(w io.Writer, fc forecast.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "value"}); err != nil {
		return err
	}
	for _, p := range fc {
		rec := []string{
			p.Timestamp.Format(occupancy.TimeLayout),
			strconv.Itoa(p.Value),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
