package manifest

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

func newTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "manifests"))
	require.NoError(t, err)
	return m
}

func scanResult() *types.ScanResult {
	return &types.ScanResult{
		Root:            "/data",
		FilesScanned:    3,
		FoldersScanned:  4,
		DuplicatesFound: 1,
		Elapsed:         2 * time.Second,
		Duplicates: []types.DuplicateSet{
			{Digest: "d", Size: 9, Files: []types.File{{Path: "/data/a"}, {Path: "/data/b"}}},
		},
	}
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	m, err := New("/tmp/manifests")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/manifests", m.Dir())
}

func TestLogScan(t *testing.T) {
	m := newTestManifest(t)

	entry, err := m.LogScan(scanResult(), "md5")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^scan-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-[0-9a-f]{8}$`), entry.ID)
	assert.Equal(t, OpScan, entry.Operation)
	assert.Equal(t, "/data", entry.Root)
	assert.Equal(t, "md5", entry.Algorithm)
	require.NotNil(t, entry.Scan)
	assert.Equal(t, 1, entry.Scan.DuplicateSets)
	assert.Equal(t, int64(9), entry.Scan.WastedBytes)
	assert.Equal(t, "2s", entry.Scan.Elapsed)
	assert.Nil(t, entry.Clean)

	_, err = os.Stat(filepath.Join(m.Dir(), entry.ID+".json"))
	assert.NoError(t, err)
}

func TestLogClean_RoundTrip(t *testing.T) {
	m := newTestManifest(t)

	report := &types.CleanReport{
		Removed:        2,
		Errors:         1,
		BytesReclaimed: 9,
		SetsSkipped:    1,
		Unverified:     1,
		RemovedFiles: []types.RemovedFile{
			{Path: "/data/b", Size: 9, Digest: "d"},
			{Path: "/data/c", Size: 9, Digest: "d"},
		},
	}

	entry, err := m.LogClean("/data", report, true)
	require.NoError(t, err)

	got, err := m.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, OpClean, got.Operation)
	require.NotNil(t, got.Clean)
	assert.Equal(t, CleanSummary{Removed: 2, Errors: 1, BytesReclaimed: 9, SetsSkipped: 1, Unverified: 1, Aborted: true}, *got.Clean)
	assert.Equal(t, []FileRecord{
		{Path: "/data/b", Size: 9, Digest: "d"},
		{Path: "/data/c", Size: 9, Digest: "d"},
	}, got.Files)
	assert.True(t, entry.Timestamp.Equal(got.Timestamp))
}

func TestGet_NotFound(t *testing.T) {
	m := newTestManifest(t)

	_, err := m.Get("scan-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get("")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get("../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	m := newTestManifest(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 3 {
		ts := base.Add(time.Duration(i) * time.Hour)
		m.now = func() time.Time { return ts }
		entry, err := m.LogScan(scanResult(), "md5")
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	all, err := m.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := m.List(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, ids[2], limited[0].ID)
}

func TestList_MissingDirAndJunk(t *testing.T) {
	m := newTestManifest(t)

	entries, err := m.List(0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = m.LogScan(scanResult(), "md5")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "junk.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0o644))

	entries, err = m.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCleanup(t *testing.T) {
	m := newTestManifest(t)
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return now.AddDate(0, 0, -45) }
	old, err := m.LogScan(scanResult(), "md5")
	require.NoError(t, err)

	m.now = func() time.Time { return now.AddDate(0, 0, -5) }
	recent, err := m.LogScan(scanResult(), "md5")
	require.NoError(t, err)

	m.now = func() time.Time { return now }

	removed, err := m.Cleanup(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = m.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = m.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(recent.ID)
	assert.NoError(t, err)
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	m := newTestManifest(t)

	_, err := m.LogScan(scanResult(), "md5")
	require.NoError(t, err)

	files, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".json", filepath.Ext(files[0].Name()))
}
