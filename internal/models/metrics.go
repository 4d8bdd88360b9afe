// Package models defines the domain types for Dagaz.
package models

import "regexp"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// DailyMetric is the structured summary extracted from one daily note.
// Pointer fields are "not recorded" when nil; that is distinct from a
// recorded zero, which the count fields use.
type DailyMetric struct {
	Date                   string         `json:"date"`
	StartTime              *string        `json:"start_time"`
	WorkHours              float64        `json:"work_hours"`
	TotalHours             float64        `json:"total_hours"`
	ProcrastinationMinutes int64          `json:"procrastination_minutes"`
	DispersionMinutes      int64          `json:"dispersion_minutes"`
	MindfulnessMoments     int64          `json:"mindfulness_moments"`
	MeditationTime         *float64       `json:"meditation_time"`
	MeditationQuality      *float64       `json:"meditation_quality"`
	MeditationComment      *string        `json:"meditation_comment"`
	SleepQuality           *float64       `json:"sleep_quality"`
	SleepComment           *string        `json:"sleep_comment"`
	MoodScore              *float64       `json:"mood_score"`
	MoodSentiment          string         `json:"mood_sentiment"`
	MoodComment            *string        `json:"mood_comment"`
	TextualInfo            map[string]any `json:"textual_info"`
	RawOutput              string         `json:"raw_ai_output"`
	IsWorkday              bool           `json:"is_workday"`
	NoteChecksum           string         `json:"note_checksum"`
}

// Event types.
const (
	EventProcrastination = "Procrastination"
	EventDispersion      = "Dispersion"
)

// ProcrastinationEvent is one discrete procrastination or dispersion
// episode extracted from an aggregate record document. All events that
// share a Source form one generation and are replaced together.
type ProcrastinationEvent struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	Time            *string `json:"time"`
	Type            string  `json:"type"`
	DurationMinutes float64 `json:"duration_minutes"`
	Activity        string  `json:"activity"`
	Trigger         string  `json:"trigger"`
	Feeling         string  `json:"feeling"`
	ActionTaken     string  `json:"action_taken"`
	Source          string  `json:"source"`
}

// Note statuses.
const (
	StatusParsed  = "Parsed"
	StatusMissing = "Missing"
)

// NoteStatus pairs a date discoverable on disk with its extraction state.
// It is derived on demand, never persisted.
type NoteStatus struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}
