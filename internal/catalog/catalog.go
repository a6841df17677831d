// Package catalog discovers image files under a directory and tracks the
// review cursor through them.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when navigation is attempted on an empty catalog.
var ErrNoImages = errors.New("no images in catalog")

// supportedExts lists the recognized image file extensions (lower case).
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jp2":  true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
}

// Catalog holds an ordered sequence of image paths and a cursor into it.
// The entry list is immutable between scans; the cursor only moves through
// Advance and Retreat and wraps modulo the entry count. A cursor of -1 means
// "before the first entry", so the first Advance lands on entry 0.
type Catalog struct {
	root    string
	entries []string
	cursor  int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{cursor: -1}
}

// Scan recursively enumerates supported image files under root, sorts them in
// natural order, and positions the cursor just before the first entry whose
// path is not in labeled. If every entry is already labeled the cursor stays
// at -1. Returns the number of entries found. Traversal errors (missing
// directory, permission denied) abort the scan and leave the catalog empty.
func (c *Catalog) Scan(root string, labeled map[string]struct{}) (int, error) {
	entries, err := collect(root, nil, "")
	if err != nil {
		c.reset(root, nil)
		return 0, err
	}

	c.reset(root, entries)
	for i, p := range entries {
		if _, ok := labeled[p]; !ok {
			c.cursor = i - 1
			break
		}
	}
	return len(entries), nil
}

// ScanFiltered enumerates and sorts like Scan but keeps only entries whose
// recorded label in table equals target. The cursor resets to -1.
func (c *Catalog) ScanFiltered(root string, table map[string]string, target string) (int, error) {
	entries, err := collect(root, table, target)
	if err != nil {
		c.reset(root, nil)
		return 0, err
	}

	c.reset(root, entries)
	return len(entries), nil
}

// ScanLabeled builds the catalog from the label table alone, keeping paths
// whose label equals target. Used for reviewing prior sessions where no
// directory is open; entries are not checked for existence, a missing file
// surfaces later as a decode failure.
func (c *Catalog) ScanLabeled(table map[string]string, target string) int {
	var entries []string
	for path, label := range table {
		if label == target {
			entries = append(entries, path)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return naturalLess(entries[i], entries[j]) })

	c.reset("", entries)
	return len(entries)
}

// Advance moves the cursor forward one entry, wrapping past the end, and
// returns the path at the new position.
func (c *Catalog) Advance() (string, error) {
	if len(c.entries) == 0 {
		return "", ErrNoImages
	}
	c.cursor = (c.cursor + 1) % len(c.entries)
	return c.entries[c.cursor], nil
}

// Retreat moves the cursor back one entry, wrapping before the start, and
// returns the path at the new position.
func (c *Catalog) Retreat() (string, error) {
	n := len(c.entries)
	if n == 0 {
		return "", ErrNoImages
	}
	c.cursor = ((c.cursor-1)%n + n) % n
	return c.entries[c.cursor], nil
}

// Current returns the path at the cursor and its parent directory. ok is
// false when the cursor is before the first entry.
func (c *Catalog) Current() (path, parentDir string, ok bool) {
	if c.cursor < 0 || c.cursor >= len(c.entries) {
		return "", "", false
	}
	p := c.entries[c.cursor]
	return p, filepath.Dir(p), true
}

// Progress returns the 1-based cursor position (0 before the first entry)
// and the total entry count.
func (c *Catalog) Progress() (position, total int) {
	return c.cursor + 1, len(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Root returns the directory of the last Scan, or "" for a review catalog.
func (c *Catalog) Root() string {
	return c.root
}

// Paths returns a copy of the entry sequence.
func (c *Catalog) Paths() []string {
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) reset(root string, entries []string) {
	c.root = root
	c.entries = entries
	c.cursor = -1
}

// collect walks root gathering supported image files in natural order. When
// table is non-nil only paths labeled target are kept.
func collect(root string, table map[string]string, target string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if table != nil && table[path] != target {
			return nil
		}
		entries = append(entries, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return naturalLess(entries[i], entries[j]) })
	return entries, nil
}
