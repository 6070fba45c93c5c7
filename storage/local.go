package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Local serves files from disk, off-loading blocking OS calls to a bounded
// worker pool.
type Local struct {
	pool *ioPool
}

// NewLocal creates a disk backend. workers <= 0 selects the default pool
// size.
func NewLocal(workers int) *Local {
	return &Local{pool: newIOPool(workers)}
}

// Close stops the worker pool after in-flight calls finish. The backend
// must not be used afterwards.
func (l *Local) Close() {
	l.pool.close()
}

// Origin labels local content as disk-sourced.
func (l *Local) Origin() types.Source { return types.SourceDisk }

func (l *Local) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	data, err := submit(ctx, l.pool, func() ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	return data, nil
}

func (l *Local) WriteBytes(ctx context.Context, path string, data []byte, overwrite bool) error {
	err := submitErr(ctx, l.pool, func() error {
		if !overwrite {
			if _, statErr := os.Stat(path); statErr == nil {
				return fserr.NewConflict(fmt.Sprintf("Destination exists: %s", path), path)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	})
	if err != nil {
		return fserr.Wrap(err, path)
	}
	return nil
}

func (l *Local) Stat(ctx context.Context, path string) (Info, error) {
	info, err := submit(ctx, l.pool, func() (Info, error) {
		fi, err := os.Stat(path)
		if err != nil {
			return Info{}, err
		}
		symlink := false
		if li, lerr := os.Lstat(path); lerr == nil {
			symlink = li.Mode()&fs.ModeSymlink != 0
		}
		return Info{
			Size:    fi.Size(),
			Mode:    fi.Mode(),
			ModTime: fi.ModTime(),
			Symlink: symlink,
		}, nil
	})
	if err != nil {
		return Info{}, fserr.Wrap(err, path)
	}
	return info, nil
}

func (l *Local) Listdir(ctx context.Context, path string) ([]string, error) {
	names, err := submit(ctx, l.pool, func() ([]string, error) {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return names, nil
	})
	if err != nil {
		return nil, fserr.Wrap(err, path)
	}
	return names, nil
}

func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := submit(ctx, l.pool, func() (bool, error) {
		// Follows symlinks: a broken link reads as absent.
		_, err := os.Stat(path)
		return err == nil, nil
	})
	if err != nil {
		return false, fserr.Wrap(err, path)
	}
	return ok, nil
}

func (l *Local) Mkdir(ctx context.Context, path string, parents bool) error {
	err := submitErr(ctx, l.pool, func() error {
		if parents {
			return os.MkdirAll(path, 0o755)
		}
		err := os.Mkdir(path, 0o755)
		if errors.Is(err, fs.ErrExist) {
			if fi, statErr := os.Stat(path); statErr == nil && fi.IsDir() {
				return nil
			}
		}
		return err
	})
	if err != nil {
		return fserr.Wrap(err, path)
	}
	return nil
}

func (l *Local) Remove(ctx context.Context, path string) error {
	err := submitErr(ctx, l.pool, func() error {
		return os.Remove(path)
	})
	if err != nil {
		return fserr.Wrap(err, path)
	}
	return nil
}

func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	err := submitErr(ctx, l.pool, func() error {
		if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
			return err
		}
		return os.Rename(oldPath, newPath)
	})
	if err != nil {
		return fserr.Wrap(err, oldPath)
	}
	return nil
}

func (l *Local) Rmtree(ctx context.Context, path string) error {
	err := submitErr(ctx, l.pool, func() error {
		// RemoveAll tolerates a missing root; the contract does not.
		if _, err := os.Stat(path); err != nil {
			return err
		}
		return os.RemoveAll(path)
	})
	if err != nil {
		return fserr.Wrap(err, path)
	}
	return nil
}

func (l *Local) Chmod(ctx context.Context, path string, mode fs.FileMode) error {
	err := submitErr(ctx, l.pool, func() error {
		return os.Chmod(path, mode)
	})
	if err != nil {
		return fserr.Wrap(err, path)
	}
	return nil
}

func (l *Local) Copy(ctx context.Context, src, dst string) error {
	err := submitErr(ctx, l.pool, func() error {
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()

		fi, err := in.Stat()
		if err != nil {
			return err
		}
		// Truncating the destination would destroy the source if they
		// alias the same file.
		if di, err := os.Stat(dst); err == nil && os.SameFile(fi, di) {
			return fserr.NewConflict(fmt.Sprintf("Source and destination are the same file: %s", src), src)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
	if err != nil {
		return fserr.Wrap(err, src)
	}
	return nil
}

// Walk traverses root concurrently via fastwalk without following
// symlinks. Unreadable entries are skipped. fn may be called from multiple
// goroutines.
func (l *Local) Walk(ctx context.Context, root string, fn WalkFunc) error {
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil
		}
		return fn(p, d)
	})
	if err != nil {
		return fserr.Wrap(err, root)
	}
	return nil
}
