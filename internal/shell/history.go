package shell

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultHistorySize bounds the lines kept in memory for recall.
const DefaultHistorySize = 500

// History is the recall buffer of the terminal reader. It is seeded from an
// append-only history file and implements term.History. Lines reach the
// file only through Append.
type History struct {
	path    string
	max     int
	entries []string // oldest first
}

// LoadHistory reads the last max lines of the file at path. An empty path
// gives an in-memory history. A missing or unreadable file gives an empty
// history; read failures are logged.
func LoadHistory(path string, max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	h := &History{path: path, max: max}
	if path == "" {
		return h
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("cannot read history", "path", path, "err", err)
		}
		return h
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		h.Add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		slog.Warn("cannot read history", "path", path, "err", err)
	}
	return h
}

// Add records entry for recall. Blank entries and repeats of the most
// recent entry are dropped.
func (h *History) Add(entry string) {
	if strings.TrimSpace(entry) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Len returns the number of recallable entries.
func (h *History) Len() int { return len(h.entries) }

// At returns the idx-th most recent entry; 0 is the newest.
func (h *History) At(idx int) string {
	if idx < 0 || idx >= len(h.entries) {
		panic(fmt.Sprintf("shell: history index %d out of range [0,%d)", idx, len(h.entries)))
	}
	return h.entries[len(h.entries)-1-idx]
}

// Append adds line to the history file. Blank lines are skipped.
func (h *History) Append(line string) error {
	if h.path == "" || strings.TrimSpace(line) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("shell.History.Append: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("shell.History.Append: %w", err)
	}
	_, err = fmt.Fprintln(f, strings.ReplaceAll(line, "\n", " "))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("shell.History.Append: %w", err)
	}
	return nil
}
