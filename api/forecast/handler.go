// Package forecast exposes the forecasting pipeline over HTTP. A client
// uploads a history file and receives the 12-hour forecast as a JSON array;
// nothing is persisted to disk.
package forecast

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	coreforecast "github.com/evsight/plugpredict/core/forecast"
	"github.com/evsight/plugpredict/core/logistic"
	"github.com/evsight/plugpredict/core/metrics"
	"github.com/evsight/plugpredict/core/occupancy"
	"github.com/evsight/plugpredict/infra/history"
	"github.com/evsight/plugpredict/infra/logger"
	"github.com/evsight/plugpredict/internal/eventbus"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 16 << 20

// NewHandler returns an HTTP handler computing forecasts from uploaded
// history files via POST /forecast. The optional threshold query parameter
// overrides the configured decision threshold for that request only.
// bus may be nil.
func NewHandler(cfg coreforecast.Config, bus *eventbus.Bus, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		reqCfg := cfg
		if s := r.URL.Query().Get("threshold"); s != "" {
			th, err := strconv.ParseFloat(s, 64)
			if err != nil || th <= 0 || th >= 1 {
				http.Error(w, "threshold must be a number in (0,1)", http.StatusUnprocessableEntity)
				return
			}
			reqCfg.Threshold = th
		}

		gen, err := coreforecast.NewGenerator(reqCfg, log)
		if err != nil {
			var ihe *logistic.InvalidHyperparameterError
			if errors.As(err, &ihe) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "expected multipart form upload", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()

		start := time.Now()
		ev := metrics.ForecastEvent{RunID: uuid.NewString(), Resource: header.Filename, Time: start}
		res, err := runUpload(r, gen, file, header.Filename, &ev)
		ev.Duration = time.Since(start)
		ev.Err = err
		if bus != nil {
			bus.Publish(ev)
		}
		if err != nil {
			status := http.StatusInternalServerError
			var mre *history.MalformedRecordError
			if errors.As(err, &mre) || errors.Is(err, occupancy.ErrEmptyHistory) {
				status = http.StatusBadRequest
			}
			log.Errorf("forecast %s: %v", header.Filename, err)
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res.Points); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}

func runUpload(r *http.Request, gen *coreforecast.Generator, file io.Reader, name string, ev *metrics.ForecastEvent) (*coreforecast.Result, error) {
	obs, err := history.Parse(file, name)
	if err != nil {
		return nil, err
	}
	res, err := gen.Run(r.Context(), obs)
	if err != nil {
		return nil, err
	}
	ev.Samples = res.Samples
	ev.Horizon = len(res.Points)
	ev.FinalLoss = res.FinalLoss
	return res, nil
}
