// Package syncer drives note extraction: it decides which dates need
// (re)processing, runs the oracle over each note, and persists the result.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/checksum"
	"github.com/halvard/dagaz/internal/models"
	"github.com/halvard/dagaz/internal/notes"
	"github.com/halvard/dagaz/internal/oracle"
	"github.com/halvard/dagaz/internal/store"
)

// Mode selects which dates a run processes.
type Mode string

const (
	// ModeIncremental processes disk dates with no stored row.
	ModeIncremental Mode = "incremental"
	// ModeFull re-processes every disk date, replacing existing rows.
	ModeFull Mode = "full"
	// ModeSelective processes an explicit caller-supplied date list,
	// regardless of existing status.
	ModeSelective Mode = "selective"
)

// SourceRecord tags events imported from the aggregate procrastination
// record document.
const SourceRecord = "Procrastination Record"

// Outcome is the per-date result of a run. A batch never aborts because one
// date failed; failures surface here only.
type Outcome struct {
	Date    string `json:"date"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service coordinates the note repository, the extraction oracle, and the
// store. Dates are processed strictly sequentially.
type Service struct {
	notes      notes.Provider
	db         store.MetricsStore
	oracle     oracle.Oracle
	recordPath string
	logger     *slog.Logger
}

// NewService creates a new sync service. recordPath may be empty when no
// aggregate procrastination record is configured.
func NewService(np notes.Provider, db store.MetricsStore, orc oracle.Oracle, recordPath string, logger *slog.Logger) *Service {
	return &Service{notes: np, db: db, oracle: orc, recordPath: recordPath, logger: logger}
}

// NoteStatuses reports, for every date discoverable on disk, whether a
// metric row exists (Parsed) or not (Missing). Newest first.
func (s *Service) NoteStatuses() ([]models.NoteStatus, error) {
	dates, err := s.notes.ListDates()
	if err != nil {
		return nil, err
	}
	stored, err := s.db.AllDates()
	if err != nil {
		return nil, err
	}
	out := make([]models.NoteStatus, len(dates))
	for i, d := range dates {
		status := models.StatusMissing
		if _, ok := stored[d]; ok {
			status = models.StatusParsed
		}
		out[i] = models.NoteStatus{Date: d, Status: status}
	}
	return out, nil
}

// CandidateDates resolves the date list a run in the given mode would
// process. The explicit list is only consulted in Selective mode.
func (s *Service) CandidateDates(mode Mode, dates []string) ([]string, error) {
	switch mode {
	case ModeSelective:
		return dates, nil
	case ModeFull:
		return s.notes.ListDates()
	case ModeIncremental:
		disk, err := s.notes.ListDates()
		if err != nil {
			return nil, err
		}
		stored, err := s.db.AllDates()
		if err != nil {
			return nil, err
		}
		var out []string
		for _, d := range disk {
			if _, ok := stored[d]; !ok {
				out = append(out, d)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("syncer: unknown mode %q", mode)
	}
}

// Run processes the candidate dates for mode sequentially and returns one
// outcome per date. onDate, if non-nil, is invoked after each date. The run
// stops early when ctx is cancelled, returning the outcomes so far.
func (s *Service) Run(ctx context.Context, mode Mode, dates []string, onDate func(Outcome)) ([]Outcome, error) {
	candidates, err := s.CandidateDates(mode, dates)
	if err != nil {
		return nil, err
	}

	out := make([]Outcome, 0, len(candidates))
	for _, date := range candidates {
		if ctx.Err() != nil {
			break
		}
		o := s.ProcessDate(ctx, date)
		out = append(out, o)
		if onDate != nil {
			onDate(o)
		}
	}
	return out, nil
}

// ProcessDate runs the full per-date step: read note, extract, coerce,
// upsert. All failures are reported in the outcome; a failed extraction
// leaves any prior stored row untouched.
func (s *Service) ProcessDate(ctx context.Context, date string) Outcome {
	data, err := s.notes.Read(date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("sync: note file missing", slog.String("date", date))
			return Outcome{Date: date, Error: "note file not found"}
		}
		s.logger.Warn("sync: read failed", slog.String("date", date), slog.String("error", err.Error()))
		return Outcome{Date: date, Error: err.Error()}
	}

	ext := s.oracle.ExtractDailyMetrics(ctx, string(data), date)
	if ext.Metrics == nil {
		s.logger.Warn("sync: extraction failed", slog.String("date", date))
		return Outcome{Date: date, Error: "extraction failed"}
	}

	metric := ext.Metrics.Metric(date, ext.Raw, checksum.Sum(data))
	if err := s.db.UpsertMetric(metric); err != nil {
		s.logger.Error("sync: upsert failed", slog.String("date", date), slog.String("error", err.Error()))
		return Outcome{Date: date, Error: err.Error()}
	}

	s.logger.Info("sync: metrics saved", slog.String("date", date))
	return Outcome{Date: date, Success: true}
}

// ImportRecord reads the aggregate procrastination record document, extracts
// its events, and replaces the stored generation for SourceRecord. A failed
// or empty extraction returns an error and leaves the store untouched, so
// one bad oracle call never wipes historical events.
func (s *Service) ImportRecord(ctx context.Context) (int, error) {
	if s.recordPath == "" {
		return 0, fmt.Errorf("syncer: record path not configured: %w", apperr.ErrNotFound)
	}
	data, err := os.ReadFile(s.recordPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("syncer: record document %s: %w", s.recordPath, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("syncer: read record: %w", err)
	}

	payloads := s.oracle.ExtractProcrastinationEvents(ctx, string(data))
	if len(payloads) == 0 {
		return 0, fmt.Errorf("syncer: record import: no events extracted")
	}

	events := make([]models.ProcrastinationEvent, len(payloads))
	for i, p := range payloads {
		events[i] = p.Event(SourceRecord)
	}
	if err := s.db.ReplaceEventsBySource(SourceRecord, events); err != nil {
		return 0, err
	}

	s.logger.Info("sync: record imported", slog.Int("events", len(events)))
	return len(events), nil
}

// Store accessors for the serving layers.

func (s *Service) ListMetrics() ([]models.DailyMetric, error)      { return s.db.ListMetrics() }
func (s *Service) GetMetric(date string) (*models.DailyMetric, error) { return s.db.GetMetric(date) }
func (s *Service) RawOutput(date string) (string, error)           { return s.db.RawOutput(date) }
func (s *Service) DeleteMetrics(dates []string) error              { return s.db.DeleteMetrics(dates) }
func (s *Service) ListEvents() ([]models.ProcrastinationEvent, error) { return s.db.ListEvents() }
