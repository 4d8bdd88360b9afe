package notes

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/halvard/dagaz/internal/checksum"
)

// EventCallback is called for each observed note change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind, date string)

// Fingerprints looks up the content checksum recorded at extraction time.
// An empty string means the date has never been extracted.
type Fingerprints interface {
	NoteChecksum(date string) (string, error)
}

// Watch starts an fsnotify watcher on the notes root and reports note file
// changes until ctx is cancelled. Files not matching YYYY-MM-DD.md are
// ignored. Write events whose content still matches the stored extraction
// checksum are suppressed: the structured row is current, so there is no
// status change worth broadcasting.
func Watch(ctx context.Context, root string, known Fingerprints, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			m := noteFileRe.FindStringSubmatch(filepath.Base(ev.Name))
			if m == nil {
				continue
			}
			date := m[1]

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: note created", slog.String("date", date))
				if cb != nil {
					cb("created", date)
				}

			case ev.Op&fsnotify.Write != 0:
				if unchanged(known, root, date) {
					logger.Debug("watcher: write ignored, content unchanged", slog.String("date", date))
					continue
				}
				logger.Debug("watcher: note updated", slog.String("date", date))
				if cb != nil {
					cb("updated", date)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path only; the new name arrives
				// as a separate Create event if it still matches.
				logger.Debug("watcher: note removed", slog.String("date", date))
				if cb != nil {
					cb("deleted", date)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// unchanged reports whether the note content on disk still matches the
// checksum stored with its extraction.
func unchanged(known Fingerprints, root, date string) bool {
	if known == nil {
		return false
	}
	stored, err := known.NoteChecksum(date)
	if err != nil || stored == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(root, date+".md"))
	if err != nil {
		return false
	}
	return strings.EqualFold(stored, checksum.Sum(data))
}
