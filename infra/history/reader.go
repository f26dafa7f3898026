// Package history parses plug occupancy history files. Each line holds a
// timestamp and a binary state separated by whitespace:
//
//	2025-09-18 08:00:00	1
package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evsight/plugpredict/core/occupancy"
)

// MalformedRecordError reports a line that could not be parsed into a valid
// timestamp/state pair. Source and Line locate the bad record.
type MalformedRecordError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("history: malformed record %s:%d: %s", e.Source, e.Line, e.Reason)
}

// Parse reads observations from r. The source name is only used for error
// context. Blank lines are skipped; any unparseable line aborts the whole
// source.
func Parse(r io.Reader, source string) ([]occupancy.Observation, error) {
	var obs []occupancy.Observation
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) != 3 {
			return nil, &MalformedRecordError{Source: source, Line: line, Reason: fmt.Sprintf("expected timestamp and state, got %d fields", len(fields))}
		}
		ts, err := time.Parse(occupancy.TimeLayout, fields[0]+" "+fields[1])
		if err != nil {
			return nil, &MalformedRecordError{Source: source, Line: line, Reason: fmt.Sprintf("bad timestamp %q", fields[0]+" "+fields[1])}
		}
		var state int
		switch fields[2] {
		case "0":
			state = 0
		case "1":
			state = 1
		default:
			return nil, &MalformedRecordError{Source: source, Line: line, Reason: fmt.Sprintf("state must be 0 or 1, got %q", fields[2])}
		}
		obs = append(obs, occupancy.Observation{Timestamp: ts, Occupied: state})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("history: read %s: %w", source, err)
	}
	return obs, nil
}

// ReadFile parses the history file at path.
func ReadFile(path string) ([]occupancy.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f, filepath.Base(path))
}
