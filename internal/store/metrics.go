package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/models"
)

const metricColumns = `date, start_time, work_hours, total_hours,
	procrastination_minutes, dispersion_minutes, mindfulness_moments,
	meditation_time, meditation_quality, meditation_comment,
	sleep_quality, sleep_comment, mood_score, mood_sentiment, mood_comment,
	textual_info, raw_ai_output, is_workday, note_checksum`

// UpsertMetric inserts or wholesale-replaces the row for m.Date. Every
// column is written, so a re-extraction never merges with the prior row.
func (db *DB) UpsertMetric(m models.DailyMetric) error {
	info := m.TextualInfo
	if info == nil {
		info = map[string]any{}
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("store: marshal textual_info: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO daily_metrics (`+metricColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			start_time              = excluded.start_time,
			work_hours              = excluded.work_hours,
			total_hours             = excluded.total_hours,
			procrastination_minutes = excluded.procrastination_minutes,
			dispersion_minutes      = excluded.dispersion_minutes,
			mindfulness_moments     = excluded.mindfulness_moments,
			meditation_time         = excluded.meditation_time,
			meditation_quality      = excluded.meditation_quality,
			meditation_comment      = excluded.meditation_comment,
			sleep_quality           = excluded.sleep_quality,
			sleep_comment           = excluded.sleep_comment,
			mood_score              = excluded.mood_score,
			mood_sentiment          = excluded.mood_sentiment,
			mood_comment            = excluded.mood_comment,
			textual_info            = excluded.textual_info,
			raw_ai_output           = excluded.raw_ai_output,
			is_workday              = excluded.is_workday,
			note_checksum           = excluded.note_checksum
	`, m.Date, m.StartTime, m.WorkHours, m.TotalHours,
		m.ProcrastinationMinutes, m.DispersionMinutes, m.MindfulnessMoments,
		m.MeditationTime, m.MeditationQuality, m.MeditationComment,
		m.SleepQuality, m.SleepComment, m.MoodScore, m.MoodSentiment, m.MoodComment,
		string(infoJSON), m.RawOutput, m.IsWorkday, m.NoteChecksum)
	if err != nil {
		return fmt.Errorf("store: upsert metric: %w", err)
	}
	return nil
}

// GetMetric returns the row for date, or apperr.ErrNotFound.
func (db *DB) GetMetric(date string) (*models.DailyMetric, error) {
	row := db.conn.QueryRow(`SELECT `+metricColumns+` FROM daily_metrics WHERE date = ?`, date)
	m, err := scanMetric(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get metric: %w", err)
	}
	return m, nil
}

// ListMetrics returns every row, newest date first.
func (db *DB) ListMetrics() ([]models.DailyMetric, error) {
	rows, err := db.conn.Query(`SELECT ` + metricColumns + ` FROM daily_metrics ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list metrics: %w", err)
	}
	defer rows.Close()

	var out []models.DailyMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list metrics: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// DeleteMetrics removes the rows for the given dates in one transaction.
func (db *DB) DeleteMetrics(dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`DELETE FROM daily_metrics WHERE date = ?`)
	if err != nil {
		return fmt.Errorf("store: prepare delete: %w", err)
	}
	defer stmt.Close()
	for _, d := range dates {
		if _, err := stmt.Exec(d); err != nil {
			return fmt.Errorf("store: delete metric %s: %w", d, err)
		}
	}
	return tx.Commit()
}

// AllDates returns every date that has a stored metric row.
func (db *DB) AllDates() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT date FROM daily_metrics`)
	if err != nil {
		return nil, fmt.Errorf("store: all dates: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out[d] = struct{}{}
	}
	return out, rows.Err()
}

// RawOutput returns the verbatim oracle response stored for date.
func (db *DB) RawOutput(date string) (string, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT raw_ai_output FROM daily_metrics WHERE date = ?`, date).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("store: raw output: %w", err)
	}
	return raw, nil
}

// NoteChecksum returns the note-content checksum recorded at extraction
// time, or empty string if the date has no row.
func (db *DB) NoteChecksum(date string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT note_checksum FROM daily_metrics WHERE date = ?`, date).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetric(r rowScanner) (*models.DailyMetric, error) {
	var (
		m        models.DailyMetric
		start    sql.NullString
		medTime  sql.NullFloat64
		medQual  sql.NullFloat64
		medCom   sql.NullString
		sleepQ   sql.NullFloat64
		sleepCom sql.NullString
		moodSc   sql.NullFloat64
		moodCom  sql.NullString
		infoJSON string
	)
	err := r.Scan(&m.Date, &start, &m.WorkHours, &m.TotalHours,
		&m.ProcrastinationMinutes, &m.DispersionMinutes, &m.MindfulnessMoments,
		&medTime, &medQual, &medCom,
		&sleepQ, &sleepCom, &moodSc, &m.MoodSentiment, &moodCom,
		&infoJSON, &m.RawOutput, &m.IsWorkday, &m.NoteChecksum)
	if err != nil {
		return nil, err
	}
	m.StartTime = nullString(start)
	m.MeditationTime = nullFloat(medTime)
	m.MeditationQuality = nullFloat(medQual)
	m.MeditationComment = nullString(medCom)
	m.SleepQuality = nullFloat(sleepQ)
	m.SleepComment = nullString(sleepCom)
	m.MoodScore = nullFloat(moodSc)
	m.MoodComment = nullString(moodCom)

	m.TextualInfo = map[string]any{}
	if infoJSON != "" {
		_ = json.Unmarshal([]byte(infoJSON), &m.TextualInfo)
	}
	return &m, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
