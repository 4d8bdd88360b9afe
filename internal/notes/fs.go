package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/models"
)

var noteFileRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.md$`)

// FS implements Provider backed by a flat directory of markdown files.
type FS struct {
	root string // absolute path to the notes directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("notes: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("notes: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// ListDates returns the dates of every file matching YYYY-MM-DD.md under the
// root, descending. Files that do not match the pattern are ignored.
func (f *FS) ListDates() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("notes: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := noteFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		out = append(out, m[1])
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// Read returns the raw bytes of the note for date.
func (f *FS) Read(date string) ([]byte, error) {
	if !models.ValidDate(date) {
		return nil, fmt.Errorf("notes: invalid date %q: %w", date, apperr.ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(f.root, date+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("notes: %s: %w", date, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("notes: read %s: %w", date, err)
	}
	return data, nil
}

// Root returns the absolute notes directory.
func (f *FS) Root() string {
	return f.root
}
