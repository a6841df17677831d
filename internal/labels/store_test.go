package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAt(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(dir, "image_labels.csv"))
	require.NoError(t, err)
	return s
}

func TestOpenCreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "image_labels.csv")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Zero(t, s.Count())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image_path,label", strings.TrimSpace(string(data)))
}

func TestGetDefaultsToLive(t *testing.T) {
	s := storeAt(t, t.TempDir())
	assert.Equal(t, "0", s.Get("/never/seen.png"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := storeAt(t, dir)
	require.NoError(t, s.Save("/data/img1.png", "2", false))

	// A fresh store over the same file sees the label.
	fresh := storeAt(t, dir)
	assert.Equal(t, "2", fresh.Get("/data/img1.png"))
	assert.Equal(t, 1, fresh.Count())
}

func TestSaveOverwritesExistingRow(t *testing.T) {
	dir := t.TempDir()
	s := storeAt(t, dir)
	require.NoError(t, s.Save("/data/img1.png", "1", false))
	require.NoError(t, s.Save("/data/img1.png", "3", false))

	fresh := storeAt(t, dir)
	assert.Equal(t, "3", fresh.Get("/data/img1.png"))
	assert.Equal(t, 1, fresh.Count(), "upsert must not duplicate the row")
}

func TestAutoSaveNeverClobbers(t *testing.T) {
	dir := t.TempDir()
	s := storeAt(t, dir)
	require.NoError(t, s.Save("/data/img1.png", "1", false))
	require.NoError(t, s.Save("/data/img1.png", "0", true))

	assert.Equal(t, "1", s.Get("/data/img1.png"))

	fresh := storeAt(t, dir)
	assert.Equal(t, "1", fresh.Get("/data/img1.png"))
}

func TestAutoSaveRecordsWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	s := storeAt(t, dir)
	require.NoError(t, s.Save("/data/img1.png", "0", true))

	fresh := storeAt(t, dir)
	assert.Equal(t, 1, fresh.Count())
	assert.Equal(t, "0", fresh.Get("/data/img1.png"))
}

func TestLoadLegacySchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image_labels.csv")
	content := "image_path,parent_directory,label\n" +
		"/data/img1.png,/data,1\n" +
		"/data/img2.png,/data,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "1", s.Get("/data/img1.png"))
	assert.Equal(t, "0", s.Get("/data/img2.png"))
}

func TestSavePreservesLegacySchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image_labels.csv")
	content := "image_path,parent_directory,label\n/data/img1.png,/data,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("/data/sub/img2.png", "4", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "image_path,parent_directory,label", lines[0])
	assert.Contains(t, lines, "/data/sub/img2.png,"+filepath.Dir("/data/sub/img2.png")+",4")
}

func TestLoadSkipsIncompleteRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image_labels.csv")
	content := "image_path,label\n" +
		"/data/ok.png,1\n" +
		",2\n" +
		"/data/empty.png,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, "1", s.Get("/data/ok.png"))
}

func TestOpenRejectsForeignHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image_labels.csv")
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreIO)
}

func TestLabeledPathsSnapshot(t *testing.T) {
	s := storeAt(t, t.TempDir())
	require.NoError(t, s.Save("/a.png", "1", false))
	require.NoError(t, s.Save("/b.png", "0", false))

	paths := s.LabeledPaths()
	assert.Len(t, paths, 2)
	assert.Contains(t, paths, "/a.png")

	// Mutating the snapshot must not affect the store.
	delete(paths, "/a.png")
	assert.Equal(t, 2, s.Count())
}

func TestAllReturnsCopy(t *testing.T) {
	s := storeAt(t, t.TempDir())
	require.NoError(t, s.Save("/a.png", "5", false))

	all := s.All()
	all["/a.png"] = "0"
	assert.Equal(t, "5", s.Get("/a.png"))
}

func TestLoadResyncsCache(t *testing.T) {
	dir := t.TempDir()
	s := storeAt(t, dir)
	require.NoError(t, s.Save("/a.png", "1", false))

	// Simulate another process rewriting the file.
	content := "image_path,label\n/b.png,2\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	require.NoError(t, s.Load())
	assert.Equal(t, "0", s.Get("/a.png"))
	assert.Equal(t, "2", s.Get("/b.png"))
}
