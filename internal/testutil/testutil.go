// Package testutil provides shared test helpers for setting up note
// directories and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halvard/dagaz/internal/notes"
	"github.com/halvard/dagaz/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestNotes creates a temporary notes directory with a notes.Provider.
func TestNotes(t *testing.T) (string, *notes.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := notes.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// WriteNote writes a daily note file for date into dir.
func WriteNote(t *testing.T, dir, date, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, date+".md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
