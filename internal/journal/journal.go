// Package journal keeps an append-only JSONL record of store mutations.
// Each line is one Entry; readers skip lines that do not parse so a torn
// final write never blocks history.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// FileName is the journal file inside the data directory.
const FileName = "journal.jsonl"

// Operation names the kind of mutation an entry records.
type Operation string

// Journal operations.
const (
	OpInsert      Operation = "insert"
	OpUpdate      Operation = "update"
	OpDelete      Operation = "delete"
	OpCascade     Operation = "cascade"
	OpStockAdd    Operation = "stock_add"
	OpStockRemove Operation = "stock_remove"
)

// Entry is one journal line.
type Entry struct {
	EntryID   string    `json:"entry_id"`
	Operation Operation `json:"operation"`
	Kind      string    `json:"kind"`
	RecordID  types.ID  `json:"record_id"`
	Field     string    `json:"field,omitempty"`

	// Related is the record that caused a cascade or the product moved by a
	// stock operation.
	Related types.ID `json:"related,omitempty"`
	Count   int      `json:"count,omitempty"`

	At time.Time `json:"at"`
}

// Journal appends entries to a JSONL file.
type Journal struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Open returns a journal writing to FileName in dataDir. The file is created
// on the first append.
func Open(dataDir string) *Journal {
	return &Journal{
		path: filepath.Join(dataDir, FileName),
		now:  time.Now,
	}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append stamps e with a fresh UUID v7 and the current time and writes it as
// one line.
func (j *Journal) Append(e Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating entry id: %w", err)
	}
	e.EntryID = id.String()
	e.At = j.now().UTC()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", j.path, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", j.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", j.path, err)
	}
	return nil
}

// Read returns the entries in path in file order. A missing file yields no
// entries. Blank and malformed lines are skipped.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return entries, nil
}

// Trim keeps only the newest keep entries in path. The file is rewritten
// with the temp-file, fsync, rename pattern so a crash leaves either the old
// or the new journal.
func Trim(path string, keep int) (int, error) {
	entries, err := Read(path)
	if err != nil {
		return 0, err
	}
	keep = max(keep, 0)
	if len(entries) <= keep {
		return 0, nil
	}
	dropped := len(entries) - keep
	if err := writeEntries(path, entries[dropped:]); err != nil {
		return 0, err
	}
	return dropped, nil
}

func writeEntries(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".journal-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fail("writing entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
