package store

import (
	"database/sql"
	"fmt"

	"github.com/halvard/dagaz/internal/models"
)

// ReplaceEventsBySource atomically replaces every event tagged with source:
// the delete and the inserts commit together, so a concurrent reader never
// observes a half-replaced generation. The delete runs even when events is
// empty, converging to "no events" for that source.
func (db *DB) ReplaceEventsBySource(source string, events []models.ProcrastinationEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM procrastination_events WHERE source = ?`, source); err != nil {
		return fmt.Errorf("store: delete events: %w", err)
	}

	if len(events) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO procrastination_events
				(date, time, type, duration_minutes, activity, "trigger", feeling, action_taken, source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("store: prepare event insert: %w", err)
		}
		defer stmt.Close()
		for _, ev := range events {
			_, err := stmt.Exec(ev.Date, ev.Time, ev.Type, ev.DurationMinutes,
				ev.Activity, ev.Trigger, ev.Feeling, ev.ActionTaken, source)
			if err != nil {
				return fmt.Errorf("store: insert event: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListEvents returns every event, newest first by date then time.
func (db *DB) ListEvents() ([]models.ProcrastinationEvent, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, time, type, duration_minutes, activity, "trigger", feeling, action_taken, source
		FROM procrastination_events
		ORDER BY date DESC, time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	defer rows.Close()

	var out []models.ProcrastinationEvent
	for rows.Next() {
		var (
			ev models.ProcrastinationEvent
			tm sql.NullString
		)
		err := rows.Scan(&ev.ID, &ev.Date, &tm, &ev.Type, &ev.DurationMinutes,
			&ev.Activity, &ev.Trigger, &ev.Feeling, &ev.ActionTaken, &ev.Source)
		if err != nil {
			return nil, fmt.Errorf("store: list events: %w", err)
		}
		ev.Time = nullString(tm)
		out = append(out, ev)
	}
	return out, rows.Err()
}
