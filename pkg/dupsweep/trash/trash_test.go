package trash

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMove_FallsBackToDelete(t *testing.T) {
	path := writeFile(t, "a.txt")

	method, err := (&Trasher{}).Move(path)
	require.NoError(t, err)
	assert.Equal(t, MethodDelete, method)
	requireMissing(t, path)
}

func TestMove_UsesFirstWorkingMethod(t *testing.T) {
	if _, err := os.Stat("/bin/rm"); err != nil {
		t.Skip("rm not available")
	}
	path := writeFile(t, "a.txt")

	tr := &Trasher{Methods: []Method{
		{Name: "missing", Command: "dupsweep-no-such-command", Args: func(p string) []string { return []string{p} }},
		{Name: "failing", Command: "false", Args: func(string) []string { return nil }},
		{Name: "rm", Command: "rm", Args: func(p string) []string { return []string{p} }},
	}}

	method, err := tr.Move(path)
	require.NoError(t, err)
	assert.Equal(t, "rm", method)
	requireMissing(t, path)
}

func TestMove_MethodThatLeavesFileFallsBack(t *testing.T) {
	path := writeFile(t, "a.txt")

	tr := &Trasher{Methods: []Method{
		{Name: "noop", Command: "true", Args: func(string) []string { return nil }},
	}}

	method, err := tr.Move(path)
	require.NoError(t, err)
	assert.Equal(t, MethodDelete, method)
	requireMissing(t, path)
}

func TestMove_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := (&Trasher{}).Move(dir)
	assert.ErrorIs(t, err, ErrNotRegular)

	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestMove_RejectsSymlink(t *testing.T) {
	target := writeFile(t, "target.txt")
	link := filepath.Join(t.TempDir(), "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := (&Trasher{}).Move(link)
	assert.ErrorIs(t, err, ErrNotRegular)
}

func TestMove_Nonexistent(t *testing.T) {
	_, err := (&Trasher{}).Move(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestPlatformMethods(t *testing.T) {
	linux := platformMethods("linux")
	require.Len(t, linux, 2)
	assert.Equal(t, "gio", linux[0].Name)
	assert.Equal(t, []string{"trash", "/x"}, linux[0].Args("/x"))
	assert.Equal(t, []string{"/x"}, linux[1].Args("/x"))

	darwin := platformMethods("darwin")
	require.Len(t, darwin, 1)
	assert.Equal(t, "osascript", darwin[0].Command)
	assert.Contains(t, darwin[0].Args("/x y")[1], `POSIX file "/x y"`)

	assert.Empty(t, platformMethods("plan9"))
}
