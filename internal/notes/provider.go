// Package notes provides access to the daily-note files on disk.
package notes

// Provider is the interface for reading daily notes. One markdown file per
// calendar date, named YYYY-MM-DD.md, under a single root directory.
type Provider interface {
	// ListDates returns every discoverable note date, newest first.
	ListDates() ([]string, error)
	// Read returns the raw content of the note for date.
	// Returns apperr.ErrNotFound when no matching file exists.
	Read(date string) ([]byte, error)
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
