package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates empty files under dir and returns their full paths in
// creation order.
func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		paths[i] = p
	}
	return paths
}

func TestScanNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "img10.png", "img2.png", "img1.png")

	c := New()
	count, err := c.Scan(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var got []string
	for i := 0; i < 3; i++ {
		p, err := c.Advance()
		require.NoError(t, err)
		got = append(got, filepath.Base(p))
	}
	assert.Equal(t, []string{"img1.png", "img2.png", "img10.png"}, got)
}

func TestScanFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.JPG", "c.jpeg", "d.bmp", "e.gif", "f.jp2", "notes.txt", "g.tiff")

	c := New()
	count, err := c.Scan(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestScanRecursesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "top.png", filepath.Join("sub", "nested.png"), filepath.Join("sub", "deeper", "leaf.jpg"))

	c := New()
	count, err := c.Scan(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestScanMissingDirectory(t *testing.T) {
	c := New()
	count, err := c.Scan(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Zero(t, count)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, c.Len())
}

func TestScanEmptyDirectory(t *testing.T) {
	c := New()
	count, err := c.Scan(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = c.Advance()
	assert.ErrorIs(t, err, ErrNoImages)
	_, err = c.Retreat()
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestScanResumesAtFirstUnlabeled(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.png", "b.png", "c.png")

	c := New()
	_, err := c.Scan(dir, map[string]struct{}{paths[0]: {}})
	require.NoError(t, err)

	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, paths[1], p)
}

func TestScanAllLabeledResetsCursor(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.png", "b.png")
	labeled := map[string]struct{}{paths[0]: {}, paths[1]: {}}

	c := New()
	_, err := c.Scan(dir, labeled)
	require.NoError(t, err)

	pos, total := c.Progress()
	assert.Zero(t, pos)
	assert.Equal(t, 2, total)

	// Next advance lands on the first entry.
	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, paths[0], p)
}

func TestAdvanceWrapsAround(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.png", "b.png", "c.png")

	c := New()
	_, err := c.Scan(dir, nil)
	require.NoError(t, err)

	for range paths {
		_, err := c.Advance()
		require.NoError(t, err)
	}
	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, paths[0], p)
}

func TestRetreatWrapsToLastEntry(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.png", "b.png", "c.png")

	c := New()
	_, err := c.Scan(dir, nil)
	require.NoError(t, err)

	// Cursor at a.png (index 0); retreating wraps to the last entry.
	_, err = c.Advance()
	require.NoError(t, err)
	p, err := c.Retreat()
	require.NoError(t, err)
	assert.Equal(t, paths[2], p)
}

func TestCurrentBeforeFirstNavigation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png")

	c := New()
	_, err := c.Scan(dir, nil)
	require.NoError(t, err)

	_, _, ok := c.Current()
	assert.False(t, ok)

	p, err := c.Advance()
	require.NoError(t, err)
	cur, parent, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, p, cur)
	assert.Equal(t, dir, parent)
}

func TestProgress(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png")

	c := New()
	_, err := c.Scan(dir, nil)
	require.NoError(t, err)

	pos, total := c.Progress()
	assert.Equal(t, 0, pos)
	assert.Equal(t, 2, total)

	_, err = c.Advance()
	require.NoError(t, err)
	pos, _ = c.Progress()
	assert.Equal(t, 1, pos)
}

func TestRescanReplacesEntriesAndCursor(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFiles(t, dirA, "a.png", "b.png")
	other := writeFiles(t, dirB, "z.png")

	c := New()
	_, err := c.Scan(dirA, nil)
	require.NoError(t, err)
	_, err = c.Advance()
	require.NoError(t, err)

	count, err := c.Scan(dirB, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, ok := c.Current()
	assert.False(t, ok)
	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, other[0], p)
}

func TestScanFiltered(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.png", "b.png", "c.png")
	table := map[string]string{
		paths[0]: "1",
		paths[1]: "0",
		paths[2]: "1",
	}

	c := New()
	count, err := c.ScanFiltered(dir, table, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, paths[0], p)
	p, err = c.Advance()
	require.NoError(t, err)
	assert.Equal(t, paths[2], p)
}

func TestScanLabeled(t *testing.T) {
	table := map[string]string{
		"/data/img10.png": "2",
		"/data/img2.png":  "2",
		"/data/img3.png":  "0",
	}

	c := New()
	count := c.ScanLabeled(table, "2")
	assert.Equal(t, 2, count)

	p, err := c.Advance()
	require.NoError(t, err)
	assert.Equal(t, "/data/img2.png", p)
	p, err = c.Advance()
	require.NoError(t, err)
	assert.Equal(t, "/data/img10.png", p)
}
