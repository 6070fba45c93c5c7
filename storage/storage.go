package storage

import (
	"context"
	"io/fs"
	"time"

	"github.com/GriffinCanCode/AgentFS/types"
)

// Info is the portable stat data the service consumes.
type Info struct {
	Size    int64       `json:"size"`
	Mode    fs.FileMode `json:"mode"`
	ModTime time.Time   `json:"mod_time"`
	Symlink bool        `json:"symlink"`
}

// IsDir reports whether the path is a directory.
func (i Info) IsDir() bool { return i.Mode.IsDir() }

// IsRegular reports whether the path is a regular file.
func (i Info) IsRegular() bool { return i.Mode.IsRegular() }

// Backend is the primitive byte-level I/O surface beneath the service.
// Implementations must be safe for concurrent use and must honor context
// cancellation on every call.
type Backend interface {
	// Origin labels content served by this backend in read results.
	Origin() types.Source

	// ReadBytes returns the full content of a regular file.
	ReadBytes(ctx context.Context, path string) ([]byte, error)

	// WriteBytes writes data, creating parent directories as needed.
	// With overwrite false it fails with a Conflict when the destination
	// already exists.
	WriteBytes(ctx context.Context, path string, data []byte, overwrite bool) error

	// Stat returns metadata for the path, following symlinks for size and
	// mode while still flagging the link itself.
	Stat(ctx context.Context, path string) (Info, error)

	// Listdir returns the names of the direct children of a directory.
	Listdir(ctx context.Context, path string) ([]string, error)

	// Exists reports whether the path resolves to an existing entry.
	Exists(ctx context.Context, path string) (bool, error)

	// Mkdir creates a directory. An existing directory is not an error.
	Mkdir(ctx context.Context, path string, parents bool) error

	// Remove deletes a file or an empty directory.
	Remove(ctx context.Context, path string) error

	// Rename moves a file or directory, creating the destination's parent
	// directories as needed.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Rmtree deletes a directory tree. A missing path is an error.
	Rmtree(ctx context.Context, path string) error

	// Chmod sets permission bits.
	Chmod(ctx context.Context, path string, mode fs.FileMode) error

	// Copy duplicates a regular file's bytes and permission bits.
	Copy(ctx context.Context, src, dst string) error
}

// WalkFunc visits one entry during a recursive traversal. Returning
// fs.SkipDir on a directory prunes its subtree.
type WalkFunc func(path string, entry fs.DirEntry) error

// Walker is an optional Backend capability for fast recursive traversal.
// Callbacks may run concurrently; fn must synchronize shared state.
type Walker interface {
	Walk(ctx context.Context, root string, fn WalkFunc) error
}
