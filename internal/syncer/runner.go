package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/halvard/dagaz/internal/apperr"
)

// Status is a point-in-time snapshot of the background runner.
type Status struct {
	Running    bool       `json:"running"`
	Mode       Mode       `json:"mode,omitempty"`
	Queued     int        `json:"queued"`
	Processed  int        `json:"processed"`
	Failed     int        `json:"failed"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NotifyFunc receives runner lifecycle events for broadcasting
// (sync.started, sync.progress, sync.completed).
type NotifyFunc func(event string, data any)

// Runner executes one background sync at a time. Start returns immediately
// with the queued count; the run proceeds detached, its progress observable
// through Status and cancellable through Cancel. A second Start while a run
// is in flight is rejected with apperr.ErrSyncInProgress, serializing writes.
type Runner struct {
	svc    *Service
	logger *slog.Logger
	notify NotifyFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	status Status
}

// NewRunner creates a runner around svc. notify may be nil.
func NewRunner(svc *Service, logger *slog.Logger, notify NotifyFunc) *Runner {
	return &Runner{svc: svc, logger: logger, notify: notify}
}

// Start resolves the candidate dates for mode and launches the run in the
// background, returning how many dates were queued.
func (r *Runner) Start(mode Mode) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.Running {
		return 0, apperr.ErrSyncInProgress
	}

	dates, err := r.svc.CandidateDates(mode, nil)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	r.cancel = cancel
	r.status = Status{
		Running:   true,
		Mode:      mode,
		Queued:    len(dates),
		StartedAt: &now,
	}

	go r.run(ctx, cancel, mode, dates)

	r.logger.Info("sync: background run started",
		slog.String("mode", string(mode)), slog.Int("queued", len(dates)))
	r.emit("sync.started", map[string]any{"mode": mode, "queued": len(dates)})

	return len(dates), nil
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, mode Mode, dates []string) {
	defer cancel()

	for _, date := range dates {
		if ctx.Err() != nil {
			break
		}
		o := r.svc.ProcessDate(ctx, date)

		r.mu.Lock()
		r.status.Processed++
		if !o.Success {
			r.status.Failed++
		}
		r.mu.Unlock()

		r.emit("sync.progress", o)
	}

	now := time.Now()
	r.mu.Lock()
	r.status.Running = false
	r.status.FinishedAt = &now
	done := r.status
	r.cancel = nil
	r.mu.Unlock()

	r.logger.Info("sync: background run finished",
		slog.String("mode", string(mode)),
		slog.Int("processed", done.Processed),
		slog.Int("failed", done.Failed))
	r.emit("sync.completed", done)
}

// Status returns a snapshot of the current (or last) run.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Cancel requests cancellation of the in-flight run. The run stops before
// the next date; the date currently at the oracle finishes its step.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Runner) emit(event string, data any) {
	if r.notify != nil {
		r.notify(event, data)
	}
}
