package oracle

import (
	"bytes"
	"math"

	"github.com/halvard/dagaz/internal/models"
)

// Workday decodes the is_workday field. Only the JSON literal false turns it
// off; anything else the model emits (true, strings, numbers) keeps the
// workday default of true.
type Workday bool

func (w *Workday) UnmarshalJSON(b []byte) error {
	*w = Workday(!bytes.Equal(bytes.TrimSpace(b), []byte("false")))
	return nil
}

// MetricsPayload is the shape the daily-metrics prompt asks the model for.
// Every field is optional; Metric applies the coercion rules that turn
// absence into the right persisted default.
type MetricsPayload struct {
	StartTime              *string        `json:"start_time"`
	WorkHours              *float64       `json:"work_hours"`
	TotalHours             *float64       `json:"total_hours"`
	ProcrastinationMinutes *float64       `json:"procrastination_minutes"`
	DispersionMinutes      *float64       `json:"dispersion_minutes"`
	MindfulnessMoments     *float64       `json:"mindfulness_moments"`
	MeditationTime         *float64       `json:"meditation_time"`
	MeditationQuality      *float64       `json:"meditation_quality"`
	MeditationComment      *string        `json:"meditation_comment"`
	SleepQuality           *float64       `json:"sleep_quality"`
	SleepComment           *string        `json:"sleep_comment"`
	MoodScore              *float64       `json:"mood_score"`
	MoodSentiment          *string        `json:"mood_sentiment"`
	MoodComment            *string        `json:"mood_comment"`
	IsWorkday              *Workday       `json:"is_workday"`
	TextualInfo            map[string]any `json:"textual_info"`
}

// Metric coerces the payload into a persistable row for date.
//
// Count and duration fields default to 0 ("none observed"); quality and
// score fields stay nil ("not recorded"); mood_sentiment defaults to the
// empty string; is_workday defaults to true; textual_info is always a
// non-nil object.
func (p *MetricsPayload) Metric(date, raw, noteChecksum string) models.DailyMetric {
	info := p.TextualInfo
	if info == nil {
		info = map[string]any{}
	}
	workday := true
	if p.IsWorkday != nil {
		workday = bool(*p.IsWorkday)
	}
	return models.DailyMetric{
		Date:                   date,
		StartTime:              p.StartTime,
		WorkHours:              numOrZero(p.WorkHours),
		TotalHours:             numOrZero(p.TotalHours),
		ProcrastinationMinutes: countOrZero(p.ProcrastinationMinutes),
		DispersionMinutes:      countOrZero(p.DispersionMinutes),
		MindfulnessMoments:     countOrZero(p.MindfulnessMoments),
		MeditationTime:         p.MeditationTime,
		MeditationQuality:      p.MeditationQuality,
		MeditationComment:      p.MeditationComment,
		SleepQuality:           p.SleepQuality,
		SleepComment:           p.SleepComment,
		MoodScore:              p.MoodScore,
		MoodSentiment:          strOrEmpty(p.MoodSentiment),
		MoodComment:            p.MoodComment,
		TextualInfo:            info,
		RawOutput:              raw,
		IsWorkday:              workday,
		NoteChecksum:           noteChecksum,
	}
}

// EventPayload is the per-event shape the procrastination-record prompt asks
// the model for.
type EventPayload struct {
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	Type            *string  `json:"type"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Activity        *string  `json:"activity"`
	Trigger         *string  `json:"trigger"`
	Feeling         *string  `json:"feeling"`
	ActionTaken     *string  `json:"action_taken"`
}

// Event coerces the payload into a persistable event tagged with source.
// A missing date becomes "UNKNOWN" rather than dropping the event, and a
// missing type defaults to Procrastination.
func (p EventPayload) Event(source string) models.ProcrastinationEvent {
	date := "UNKNOWN"
	if p.Date != nil && *p.Date != "" {
		date = *p.Date
	}
	typ := models.EventProcrastination
	if p.Type != nil && *p.Type != "" {
		typ = *p.Type
	}
	return models.ProcrastinationEvent{
		Date:            date,
		Time:            p.Time,
		Type:            typ,
		DurationMinutes: numOrZero(p.DurationMinutes),
		Activity:        strOrEmpty(p.Activity),
		Trigger:         strOrEmpty(p.Trigger),
		Feeling:         strOrEmpty(p.Feeling),
		ActionTaken:     strOrEmpty(p.ActionTaken),
		Source:          source,
	}
}

func numOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func countOrZero(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(math.Round(*v))
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
