package forecast

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coreforecast "github.com/evsight/plugpredict/core/forecast"
	"github.com/evsight/plugpredict/internal/eventbus"
)

const validHistory = "2025-09-18 08:00:00\t0\n2025-09-18 08:05:00\t1\n2025-09-18 08:10:00\t1\n"

func upload(t *testing.T, h http.Handler, url, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "plug1.txt")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func testHandler(t *testing.T, bus *eventbus.Bus) http.Handler {
	t.Helper()
	return NewHandler(coreforecast.Config{Iterations: 50}, bus, nil)
}

func TestHandlerForecast(t *testing.T) {
	rec := upload(t, testHandler(t, nil), "/forecast", validHistory)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var fc coreforecast.Forecast
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fc) != 144 {
		t.Fatalf("expected 144 points got %d", len(fc))
	}
	if got := fc[0].Timestamp.Format("2006-01-02 15:04:05"); got != "2025-09-18 08:15:00" {
		t.Fatalf("first point at %s", got)
	}
}

func TestHandlerThresholdParam(t *testing.T) {
	rec := upload(t, testHandler(t, nil), "/forecast?threshold=0.9", validHistory)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerBadThreshold(t *testing.T) {
	for _, q := range []string{"threshold=abc", "threshold=1.5", "threshold=0"} {
		rec := upload(t, testHandler(t, nil), "/forecast?"+q, validHistory)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("query %q: status %d", q, rec.Code)
		}
	}
}

func TestHandlerEmptyHistory(t *testing.T) {
	rec := upload(t, testHandler(t, nil), "/forecast", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandlerMalformedHistory(t *testing.T) {
	rec := upload(t, testHandler(t, nil), "/forecast", "not a record\n")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "plug1.txt") {
		t.Fatalf("error lacks source context: %s", rec.Body.String())
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/forecast", nil)
	rec := httptest.NewRecorder()
	testHandler(t, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandlerMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/forecast", strings.NewReader("plain body"))
	rec := httptest.NewRecorder()
	testHandler(t, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandlerPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe()
	rec := upload(t, testHandler(t, bus), "/forecast", validHistory)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	ev := <-sub
	if ev.Resource != "plug1.txt" || ev.Err != nil || ev.Horizon != 144 {
		t.Fatalf("unexpected event %+v", ev)
	}
}
