package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/models"
	"github.com/halvard/dagaz/internal/syncer"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *syncer.Service
	runner *syncer.Runner
}

// NewHandler creates a new Handler.
func NewHandler(svc *syncer.Service, runner *syncer.Runner) *Handler {
	return &Handler{svc: svc, runner: runner}
}

// datePathParam extracts and validates the {date} URL parameter.
func datePathParam(r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	return date, models.ValidDate(date)
}

// validDates reports whether all dates are well formed and the list is
// non-empty.
func validDates(dates []string) bool {
	if len(dates) == 0 {
		return false
	}
	for _, d := range dates {
		if !models.ValidDate(d) {
			return false
		}
	}
	return true
}

// ListNoteStatus handles GET /api/notes.
func (h *Handler) ListNoteStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.NoteStatuses()
	if err != nil {
		slog.Error("list note status failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if statuses == nil {
		statuses = []models.NoteStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

// ParseDates handles POST /api/notes/parse. Runs Selective mode
// synchronously and returns the per-date outcomes.
func (h *Handler) ParseDates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if !validDates(req.Dates) {
		writeJSON(w, http.StatusBadRequest, errorBody("dates must be a non-empty list of YYYY-MM-DD values"))
		return
	}

	results, err := h.svc.Run(r.Context(), syncer.ModeSelective, req.Dates, nil)
	if err != nil {
		slog.Error("selective parse failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{Results: results})
}

// StartSync handles POST /api/sync. Starts a background run and returns
// immediately with the queued count.
func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SyncRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
	}

	mode := syncer.ModeIncremental
	if req.Full {
		mode = syncer.ModeFull
	}

	queued, err := h.runner.Start(mode)
	if err != nil {
		if errors.Is(err, apperr.ErrSyncInProgress) {
			writeJSON(w, http.StatusConflict, errorBody("sync already in progress"))
			return
		}
		slog.Error("start sync failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusAccepted, SyncStartedResponse{Queued: queued})
}

// SyncStatus handles GET /api/sync/status.
func (h *Handler) SyncStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.runner.Status())
}

// CancelSync handles POST /api/sync/cancel.
func (h *Handler) CancelSync(w http.ResponseWriter, _ *http.Request) {
	h.runner.Cancel()
	writeJSON(w, http.StatusOK, h.runner.Status())
}

// ListMetrics handles GET /api/metrics.
func (h *Handler) ListMetrics(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.svc.ListMetrics()
	if err != nil {
		slog.Error("list metrics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if rows == nil {
		rows = []models.DailyMetric{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetMetric handles GET /api/metrics/{date}.
func (h *Handler) GetMetric(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date"))
		return
	}
	m, err := h.svc.GetMetric(date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get metric failed", slog.String("date", date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// RawOutput handles GET /api/metrics/{date}/raw.
func (h *Handler) RawOutput(w http.ResponseWriter, r *http.Request) {
	date, ok := datePathParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date"))
		return
	}
	raw, err := h.svc.RawOutput(date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("raw output failed", slog.String("date", date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, RawOutputResponse{Date: date, Raw: raw})
}

// DeleteMetrics handles DELETE /api/metrics. Removes the rows for the given
// dates; their status reverts to Missing.
func (h *Handler) DeleteMetrics(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req DeleteMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if !validDates(req.Dates) {
		writeJSON(w, http.StatusBadRequest, errorBody("dates must be a non-empty list of YYYY-MM-DD values"))
		return
	}
	if err := h.svc.DeleteMetrics(req.Dates); err != nil {
		slog.Error("delete metrics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents handles GET /api/procrastination.
func (h *Handler) ListEvents(w http.ResponseWriter, _ *http.Request) {
	events, err := h.svc.ListEvents()
	if err != nil {
		slog.Error("list events failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if events == nil {
		events = []models.ProcrastinationEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ImportRecord handles POST /api/procrastination/import. A failed or empty
// extraction returns 502 and leaves the stored events untouched.
func (h *Handler) ImportRecord(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ImportRecord(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("record document not found"))
			return
		}
		slog.Error("record import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("extraction yielded no events"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
}
