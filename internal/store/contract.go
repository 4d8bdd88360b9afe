package store

import "github.com/halvard/dagaz/internal/models"

// MetricsStore defines the persistence operations for daily metrics and
// procrastination events. Consumers should depend on this interface rather
// than the concrete *DB type to facilitate testing with mocks.
type MetricsStore interface {
	UpsertMetric(m models.DailyMetric) error
	GetMetric(date string) (*models.DailyMetric, error)
	ListMetrics() ([]models.DailyMetric, error)
	DeleteMetrics(dates []string) error
	AllDates() (map[string]struct{}, error)
	RawOutput(date string) (string, error)
	NoteChecksum(date string) (string, error)
	ReplaceEventsBySource(source string, events []models.ProcrastinationEvent) error
	ListEvents() ([]models.ProcrastinationEvent, error)
	Close() error
}

// Verify *DB satisfies MetricsStore at compile time.
var _ MetricsStore = (*DB)(nil)
