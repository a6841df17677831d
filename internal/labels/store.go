package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrStoreIO marks label file read/write failures; test with errors.Is.
var ErrStoreIO = errors.New("label store I/O")

const (
	colImagePath = "image_path"
	colParentDir = "parent_directory"
	colLabel     = "label"
)

// Store is a durable mapping from image path to label code, backed by a CSV
// file with an in-memory cache. New files are created with the two-column
// schema (image_path,label); the older three-column schema with a
// parent_directory column is read and preserved on rewrite.
//
// Every Save re-reads the table, updates or appends the matching row, and
// rewrites the whole file, so disk and cache agree after each successful
// call. On a failed Save the cache may be ahead of disk; the next Load
// resyncs.
type Store struct {
	mu     sync.Mutex
	path   string
	labels map[string]string
	legacy bool
}

// Open loads the label file at path, creating it (and missing parent
// directories) with a header row when absent.
func Open(path string) (*Store, error) {
	s := &Store{path: path, labels: make(map[string]string)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the backing file, replacing the cache. Rows missing either
// the path or the label field are skipped.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labels = make(map[string]string)
	s.legacy = false

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return s.createEmpty()
	}

	header, rows, err := s.readTable()
	if err != nil {
		return err
	}
	cols := columnIndex(header)
	pathIdx, okPath := cols[colImagePath]
	labelIdx, okLabel := cols[colLabel]
	if !okPath || !okLabel {
		return fmt.Errorf("%w: %s: header missing %s/%s columns", ErrStoreIO, s.path, colImagePath, colLabel)
	}
	_, s.legacy = cols[colParentDir]

	for _, row := range rows {
		if pathIdx >= len(row) || labelIdx >= len(row) {
			continue
		}
		if row[pathIdx] == "" || row[labelIdx] == "" {
			continue
		}
		s.labels[row[pathIdx]] = row[labelIdx]
	}
	return nil
}

// Get returns the cached label for path, or DefaultCode when absent.
func (s *Store) Get(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.labels[path]; ok {
		return code
	}
	return DefaultCode
}

// LabeledPaths returns a snapshot of all labeled path keys.
func (s *Store) LabeledPaths() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.labels))
	for p := range s.labels {
		out[p] = struct{}{}
	}
	return out
}

// All returns a copy of the full path-to-label table.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.labels))
	for p, c := range s.labels {
		out[p] = c
	}
	return out
}

// Count returns the number of labeled paths.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save records a label for path. With autoSave set, an existing record is
// never overwritten; this is how the default label gets written on first
// display without clobbering a reviewer's earlier choice. The on-disk table
// is re-read and rewritten in full, replacing the row for path or appending
// one.
func (s *Store) Save(path, code string, autoSave bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if autoSave {
		if _, ok := s.labels[path]; ok {
			return nil
		}
	}
	s.labels[path] = code

	header, rows, err := s.readTable()
	if err != nil {
		return err
	}
	if len(header) == 0 {
		header = s.newHeader()
	}
	cols := columnIndex(header)
	pathIdx, ok := cols[colImagePath]
	if !ok {
		return fmt.Errorf("%w: %s: header missing %s column", ErrStoreIO, s.path, colImagePath)
	}
	labelIdx, ok := cols[colLabel]
	if !ok {
		return fmt.Errorf("%w: %s: header missing %s column", ErrStoreIO, s.path, colLabel)
	}
	parentIdx, hasParent := cols[colParentDir]

	updated := false
	for _, row := range rows {
		if pathIdx < len(row) && row[pathIdx] == path {
			if labelIdx < len(row) {
				row[labelIdx] = code
			}
			updated = true
			break
		}
	}
	if !updated {
		row := make([]string, len(header))
		row[pathIdx] = path
		row[labelIdx] = code
		if hasParent {
			row[parentIdx] = filepath.Dir(path)
		}
		rows = append(rows, row)
	}

	return s.writeTable(header, rows)
}

func (s *Store) createEmpty() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrStoreIO, dir, err)
		}
	}
	return s.writeTable(s.newHeader(), nil)
}

func (s *Store) newHeader() []string {
	if s.legacy {
		return []string{colImagePath, colParentDir, colLabel}
	}
	return []string{colImagePath, colLabel}
}

// readTable reads the header and data rows of the backing file. A missing
// file yields an empty table so Save can recreate it.
func (s *Store) readTable() (header []string, rows [][]string, err error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrStoreIO, s.path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (s *Store) writeTable(header []string, rows [][]string) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	return nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}
