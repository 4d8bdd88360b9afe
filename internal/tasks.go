package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/halvard/dagaz/internal/mcpserver"
	"github.com/halvard/dagaz/internal/models"
	"github.com/halvard/dagaz/internal/notes"
	"github.com/halvard/dagaz/internal/oracle"
	"github.com/halvard/dagaz/internal/store"
	"github.com/halvard/dagaz/internal/syncer"
)

// newTaskService wires the sync service for one-shot CLI tasks. Logs go to
// stderr so stdout stays free for command output (and MCP stdio framing).
func newTaskService(ctx context.Context, cfg *Config) (*syncer.Service, *notes.FS, *store.DB, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	noteFS, err := notes.NewFS(cfg.Notes.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init notes: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init store: %w", err)
	}

	orc, err := oracle.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("init oracle: %w", err)
	}

	return syncer.NewService(noteFS, db, orc, cfg.Notes.RecordPath, logger), noteFS, db, nil
}

// RunSync runs one synchronous sync pass and prints per-date outcomes.
func RunSync(ctx context.Context, cfg *Config, full bool) error {
	svc, _, db, err := newTaskService(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mode := syncer.ModeIncremental
	if full {
		mode = syncer.ModeFull
	}

	outcomes, err := svc.Run(ctx, mode, nil, func(o syncer.Outcome) {
		if o.Success {
			fmt.Printf("%s: ok\n", o.Date)
		} else {
			fmt.Printf("%s: FAILED (%s)\n", o.Date, o.Error)
		}
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	fmt.Printf("processed %d date(s), %d failed\n", len(outcomes), failed)
	if failed > 0 {
		return fmt.Errorf("sync: %d of %d dates failed", failed, len(outcomes))
	}
	return nil
}

// RunReprocess re-extracts a single date, replacing any stored row.
func RunReprocess(ctx context.Context, cfg *Config, date string) error {
	if !models.ValidDate(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	svc, _, db, err := newTaskService(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	o := svc.ProcessDate(ctx, date)
	if !o.Success {
		return fmt.Errorf("reprocess %s: %s", date, o.Error)
	}
	fmt.Printf("%s: ok\n", date)
	return nil
}

// RunImportRecord imports the aggregate procrastination record document.
func RunImportRecord(ctx context.Context, cfg *Config) error {
	if cfg.Notes.RecordPath == "" {
		return fmt.Errorf("notes.record_path is not configured")
	}

	svc, _, db, err := newTaskService(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := svc.ImportRecord(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d event(s)\n", n)
	return nil
}

// RunMCP serves the MCP tools over stdio until the client disconnects.
func RunMCP(ctx context.Context, cfg *Config) error {
	svc, noteFS, db, err := newTaskService(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return mcpserver.New(noteFS, svc).ServeStdio()
}
