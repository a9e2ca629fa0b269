package cleaner

import (
	"fmt"
	"os"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/trash"
)

// Remover deletes one file.
type Remover interface {
	Remove(path string) error
}

// FileRemover removes files permanently.
type FileRemover struct{}

// Remove deletes the file at path.
func (FileRemover) Remove(path string) error {
	return os.Remove(path)
}

// TrashRemover moves files to the system trash.
type TrashRemover struct {
	Trasher *trash.Trasher
}

// NewTrashRemover returns a TrashRemover using the platform trash methods.
func NewTrashRemover() *TrashRemover {
	return &TrashRemover{Trasher: trash.New()}
}

// Remove moves the file at path to the trash.
func (r *TrashRemover) Remove(path string) error {
	method, err := r.Trasher.Move(path)
	if err != nil {
		return err
	}
	logger.Debug("file trashed", "path", path, "method", method)
	return nil
}

// RemovalError records a file that could not be removed. It never aborts
// a clean run.
type RemovalError struct {
	Path string
	Err  error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("failed to remove %s: %v", e.Path, e.Err)
}

func (e *RemovalError) Unwrap() error {
	return e.Err
}
