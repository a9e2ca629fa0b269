// Package trash moves duplicate files to the system trash where available,
// falling back to permanent deletion when no trash support is detected.
package trash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// commandTimeout is the maximum time to wait for a trash command.
const commandTimeout = 30 * time.Second

// MethodDelete names the permanent-delete fallback.
const MethodDelete = "delete"

// ErrNotRegular is returned for paths that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// Method is an external command that moves a file to the trash.
type Method struct {
	// Name identifies the method in logs.
	Name string

	// Command is the executable looked up on PATH.
	Command string

	// Args builds the command arguments for an absolute path.
	Args func(path string) []string
}

// Trasher tries each method in order and falls back to os.Remove.
type Trasher struct {
	Methods []Method
	Timeout time.Duration
}

// New returns a Trasher with the methods available on this platform.
// On macOS it asks Finder via AppleScript, which keeps "Put Back" working.
// On Linux it tries gio, then trash-cli.
func New() *Trasher {
	return &Trasher{Methods: platformMethods(runtime.GOOS), Timeout: commandTimeout}
}

func platformMethods(goos string) []Method {
	switch goos {
	case "darwin":
		return []Method{{
			Name:    "finder",
			Command: "osascript",
			Args: func(path string) []string {
				return []string{"-e", fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)}
			},
		}}
	case "linux":
		return []Method{
			{Name: "gio", Command: "gio", Args: func(path string) []string { return []string{"trash", path} }},
			{Name: "trash-put", Command: "trash-put", Args: func(path string) []string { return []string{path} }},
		}
	default:
		return nil
	}
}

// Move moves a regular file to the trash and returns the name of the method
// that succeeded. Directories and symlinks are rejected.
func (t *Trasher) Move(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot trash %q: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("cannot trash %q: %w", path, ErrNotRegular)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = commandTimeout
	}

	for _, m := range t.Methods {
		if t.run(m, absPath, timeout) {
			return m.Name, nil
		}
	}

	return MethodDelete, fallbackDelete(absPath)
}

// run reports whether the method ran and the file is gone.
func (t *Trasher) run(m Method, path string, timeout time.Duration) bool {
	bin, err := exec.LookPath(m.Command)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := exec.CommandContext(ctx, bin, m.Args(path)...).Run(); err != nil {
		return false
	}

	_, err = os.Lstat(path)
	return errors.Is(err, fs.ErrNotExist)
}

// fallbackDelete permanently removes a file.
func fallbackDelete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}
