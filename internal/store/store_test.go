package store

import (
	"errors"
	"os"
	"testing"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM daily_metrics`).Scan(&count); err != nil {
		t.Fatalf("daily_metrics table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM procrastination_events`).Scan(&count); err != nil {
		t.Fatalf("procrastination_events table missing: %v", err)
	}
}

func TestUpsertAndGetMetric(t *testing.T) {
	db := testDB(t)
	m := models.DailyMetric{
		Date:              "2024-03-05",
		StartTime:         sptr("09:00"),
		WorkHours:         7.5,
		MeditationTime:    fptr(20),
		MeditationQuality: fptr(4),
		MoodSentiment:     "Positive",
		TextualInfo:       map[string]any{"summary": "solid day"},
		RawOutput:         `{"work_hours": 7.5}`,
		IsWorkday:         true,
		NoteChecksum:      "abc123",
	}
	if err := db.UpsertMetric(m); err != nil {
		t.Fatalf("UpsertMetric: %v", err)
	}

	got, err := db.GetMetric("2024-03-05")
	if err != nil {
		t.Fatalf("GetMetric: %v", err)
	}
	if got.WorkHours != 7.5 {
		t.Errorf("work_hours = %v, want 7.5", got.WorkHours)
	}
	if got.MeditationTime == nil || *got.MeditationTime != 20 {
		t.Errorf("meditation_time = %v, want 20", got.MeditationTime)
	}
	if got.StartTime == nil || *got.StartTime != "09:00" {
		t.Errorf("start_time = %v, want 09:00", got.StartTime)
	}
	if got.TextualInfo["summary"] != "solid day" {
		t.Errorf("textual_info = %v", got.TextualInfo)
	}
	if !got.IsWorkday {
		t.Error("is_workday should be true")
	}
}

func TestNullVersusZero(t *testing.T) {
	db := testDB(t)
	// sleep_quality omitted, procrastination_minutes explicitly zero.
	if err := db.UpsertMetric(models.DailyMetric{Date: "2024-03-06"}); err != nil {
		t.Fatalf("UpsertMetric: %v", err)
	}
	got, err := db.GetMetric("2024-03-06")
	if err != nil {
		t.Fatalf("GetMetric: %v", err)
	}
	if got.SleepQuality != nil {
		t.Errorf("sleep_quality = %v, want nil", *got.SleepQuality)
	}
	if got.ProcrastinationMinutes != 0 {
		t.Errorf("procrastination_minutes = %d, want 0", got.ProcrastinationMinutes)
	}
}

func TestUpsertReplacesWholesale(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertMetric(models.DailyMetric{
		Date:         "2024-03-07",
		WorkHours:    8,
		SleepQuality: fptr(4),
		MoodComment:  sptr("good one"),
	})
	// Second extraction for the same date omits sleep_quality and the
	// comment: the old values must not survive the replace.
	_ = db.UpsertMetric(models.DailyMetric{Date: "2024-03-07", WorkHours: 2})

	got, err := db.GetMetric("2024-03-07")
	if err != nil {
		t.Fatalf("GetMetric: %v", err)
	}
	if got.WorkHours != 2 {
		t.Errorf("work_hours = %v, want 2", got.WorkHours)
	}
	if got.SleepQuality != nil {
		t.Error("sleep_quality should have been replaced with null")
	}
	if got.MoodComment != nil {
		t.Error("mood_comment should have been replaced with null")
	}

	var count int
	_ = db.conn.QueryRow(`SELECT count(*) FROM daily_metrics WHERE date = '2024-03-07'`).Scan(&count)
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestGetMetric_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetMetric("1999-01-01")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListMetrics_Ordering(t *testing.T) {
	db := testDB(t)
	for _, d := range []string{"2024-01-02", "2024-01-10", "2024-01-01"} {
		_ = db.UpsertMetric(models.DailyMetric{Date: d})
	}
	list, err := db.ListMetrics()
	if err != nil {
		t.Fatalf("ListMetrics: %v", err)
	}
	want := []string{"2024-01-10", "2024-01-02", "2024-01-01"}
	for i := range want {
		if list[i].Date != want[i] {
			t.Errorf("list[%d].Date = %q, want %q", i, list[i].Date, want[i])
		}
	}
}

func TestDeleteMetrics(t *testing.T) {
	db := testDB(t)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_ = db.UpsertMetric(models.DailyMetric{Date: d})
	}
	if err := db.DeleteMetrics([]string{"2024-01-01", "2024-01-03"}); err != nil {
		t.Fatalf("DeleteMetrics: %v", err)
	}
	dates, err := db.AllDates()
	if err != nil {
		t.Fatalf("AllDates: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("dates = %v, want only 2024-01-02", dates)
	}
	if _, ok := dates["2024-01-02"]; !ok {
		t.Error("2024-01-02 should remain")
	}
}

func TestRawOutput(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertMetric(models.DailyMetric{Date: "2024-02-01", RawOutput: "verbatim model text"})
	raw, err := db.RawOutput("2024-02-01")
	if err != nil {
		t.Fatalf("RawOutput: %v", err)
	}
	if raw != "verbatim model text" {
		t.Errorf("raw = %q", raw)
	}
	if _, err := db.RawOutput("2024-02-02"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNoteChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.NoteChecksum("2024-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}
