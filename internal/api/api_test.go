package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/halvard/dagaz/internal/models"
	"github.com/halvard/dagaz/internal/oracle"
	"github.com/halvard/dagaz/internal/syncer"
	"github.com/halvard/dagaz/internal/testutil"
)

// stubOracle answers every daily-metrics call with the same payload and
// every events call with the configured list.
type stubOracle struct {
	metrics *oracle.MetricsPayload
	events  []oracle.EventPayload
	delay   time.Duration
}

func (s *stubOracle) ExtractDailyMetrics(_ context.Context, _, _ string) oracle.DailyExtraction {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.metrics == nil {
		return oracle.DailyExtraction{Raw: "Error: canned failure"}
	}
	return oracle.DailyExtraction{Metrics: s.metrics, Raw: "{}"}
}

func (s *stubOracle) ExtractProcrastinationEvents(_ context.Context, _ string) []oracle.EventPayload {
	return s.events
}

// testEnv sets up temp notes, a SQLite DB, the sync service, and the router.
func testEnv(t *testing.T, orc oracle.Oracle, authToken string) (string, http.Handler) {
	t.Helper()
	dir, fs := testutil.TestNotes(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := syncer.NewService(fs, db, orc, "", logger)
	runner := syncer.NewRunner(svc, logger, nil)
	router := NewRouter(svc, runner, authToken != "", authToken, nil)
	return dir, router
}

func do(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListNoteStatus(t *testing.T) {
	wh := 4.0
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}}, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")
	testutil.WriteNote(t, dir, "2024-01-02", "two")

	// Parse one date, leave the other Missing.
	w := do(router, http.MethodPost, "/notes/parse", ParseRequest{Dates: []string{"2024-01-01"}})
	if w.Code != http.StatusOK {
		t.Fatalf("parse status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("notes status = %d", w.Code)
	}
	var statuses []models.NoteStatus
	_ = json.Unmarshal(w.Body.Bytes(), &statuses)
	if len(statuses) != 2 {
		t.Fatalf("statuses = %+v", statuses)
	}
	if statuses[0].Date != "2024-01-02" || statuses[0].Status != models.StatusMissing {
		t.Errorf("statuses[0] = %+v", statuses[0])
	}
	if statuses[1].Status != models.StatusParsed {
		t.Errorf("statuses[1] = %+v", statuses[1])
	}
}

func TestParseDates_Outcomes(t *testing.T) {
	wh := 4.0
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}}, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")

	w := do(router, http.MethodPost, "/notes/parse", ParseRequest{Dates: []string{"2024-01-01", "2024-01-02"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ParseResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if !resp.Results[0].Success {
		t.Errorf("2024-01-01 should succeed: %+v", resp.Results[0])
	}
	if resp.Results[1].Success {
		t.Errorf("2024-01-02 has no note and should fail: %+v", resp.Results[1])
	}
}

func TestParseDates_BadRequest(t *testing.T) {
	_, router := testEnv(t, &stubOracle{}, "")
	w := do(router, http.MethodPost, "/notes/parse", ParseRequest{Dates: []string{"not-a-date"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	w = do(router, http.MethodPost, "/notes/parse", ParseRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty dates status = %d, want 400", w.Code)
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	wh := 7.5
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}}, "")
	testutil.WriteNote(t, dir, "2024-03-05", "a day")
	do(router, http.MethodPost, "/notes/parse", ParseRequest{Dates: []string{"2024-03-05"}})

	w := do(router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var rows []models.DailyMetric
	_ = json.Unmarshal(w.Body.Bytes(), &rows)
	if len(rows) != 1 || rows[0].WorkHours != 7.5 {
		t.Fatalf("rows = %+v", rows)
	}

	w = do(router, http.MethodGet, "/metrics/2024-03-05", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = do(router, http.MethodGet, "/metrics/2024-03-05/raw", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("raw status = %d", w.Code)
	}
	var raw RawOutputResponse
	_ = json.Unmarshal(w.Body.Bytes(), &raw)
	if raw.Raw != "{}" {
		t.Errorf("raw = %q", raw.Raw)
	}
}

func TestGetMetric_NotFound(t *testing.T) {
	_, router := testEnv(t, &stubOracle{}, "")
	w := do(router, http.MethodGet, "/metrics/2024-03-05", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteMetrics_RevertsStatus(t *testing.T) {
	wh := 1.0
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}}, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")
	do(router, http.MethodPost, "/notes/parse", ParseRequest{Dates: []string{"2024-01-01"}})

	w := do(router, http.MethodDelete, "/metrics", DeleteMetricsRequest{Dates: []string{"2024-01-01"}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = do(router, http.MethodGet, "/notes", nil)
	var statuses []models.NoteStatus
	_ = json.Unmarshal(w.Body.Bytes(), &statuses)
	if len(statuses) != 1 || statuses[0].Status != models.StatusMissing {
		t.Errorf("statuses = %+v, want Missing", statuses)
	}
}

func TestStartSync_Accepted(t *testing.T) {
	wh := 1.0
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}}, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")

	w := do(router, http.MethodPost, "/sync", SyncRequest{})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SyncStartedResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Queued != 1 {
		t.Errorf("queued = %d, want 1", resp.Queued)
	}

	// Wait for the background run to drain before cleanup closes the DB.
	deadline := time.Now().Add(5 * time.Second)
	for {
		w = do(router, http.MethodGet, "/sync/status", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", w.Code)
		}
		var st syncer.Status
		_ = json.Unmarshal(w.Body.Bytes(), &st)
		if !st.Running {
			if st.Processed != 1 {
				t.Errorf("processed = %d, want 1", st.Processed)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("background run did not finish")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartSync_Conflict(t *testing.T) {
	wh := 1.0
	dir, router := testEnv(t, &stubOracle{metrics: &oracle.MetricsPayload{WorkHours: &wh}, delay: 200 * time.Millisecond}, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")

	w := do(router, http.MethodPost, "/sync", SyncRequest{})
	if w.Code != http.StatusAccepted {
		t.Fatalf("first start = %d", w.Code)
	}
	w = do(router, http.MethodPost, "/sync", SyncRequest{})
	if w.Code != http.StatusConflict {
		t.Errorf("second start = %d, want 409", w.Code)
	}

	do(router, http.MethodPost, "/sync/cancel", nil)
	deadline := time.Now().Add(5 * time.Second)
	for {
		w = do(router, http.MethodGet, "/sync/status", nil)
		var st syncer.Status
		_ = json.Unmarshal(w.Body.Bytes(), &st)
		if !st.Running {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run did not stop after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestImportRecord_NotConfigured(t *testing.T) {
	_, router := testEnv(t, &stubOracle{}, "")
	w := do(router, http.MethodPost, "/procrastination/import", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when record path unset", w.Code)
	}
}

func TestListEvents_Empty(t *testing.T) {
	_, router := testEnv(t, &stubOracle{}, "")
	w := do(router, http.MethodGet, "/procrastination", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := bytes.TrimSpace(w.Body.Bytes()); string(body) != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, &stubOracle{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
