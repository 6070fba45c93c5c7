package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

// Policy resolves caller-supplied paths against a fixed sandbox root.
// Relative inputs are joined to the root and containment-checked; absolute
// inputs are cleaned and used as-is (allows trusted out-of-sandbox access).
type Policy struct {
	root string
}

// Resolved pairs the sandbox-relative form of a path with its absolute form.
// Relative is the lock and cache key; Absolute is what storage receives.
type Resolved struct {
	Relative string
	Absolute string
}

// New builds a policy anchored at root. The root is made absolute once at
// construction and never changes.
func New(root string) (*Policy, error) {
	if root == "" {
		return nil, fserr.NewInvalidPath("base directory must not be empty", root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fserr.NewInvalidPath(fmt.Sprintf("cannot resolve base directory: %v", err), root)
	}
	return &Policy{root: filepath.Clean(abs)}, nil
}

// Root returns the sandbox root directory.
func (p *Policy) Root() string { return p.root }

// ResolveAbsolute canonicalizes path. Relative inputs join the sandbox root
// and must stay inside it; absolute inputs pass through cleaned.
func (p *Policy) ResolveAbsolute(path string) (string, error) {
	if path == "" {
		return "", fserr.NewInvalidPath("path must not be empty", path)
	}
	if filepath.IsAbs(path) {
		// Already absolute, use as-is.
		return filepath.Clean(path), nil
	}
	abs := filepath.Join(p.root, filepath.FromSlash(path))
	if abs != p.root && !strings.HasPrefix(abs, p.root+string(os.PathSeparator)) {
		return "", fserr.NewPathTraversal(
			fmt.Sprintf("Resolved path '%s' escapes base_dir '%s'", abs, p.root), path)
	}
	return abs, nil
}

// ToRelative returns the path relative to the sandbox root in POSIX form.
// Paths outside the root (reachable via the absolute pass-through) are
// returned unchanged.
func (p *Policy) ToRelative(absolute string) string {
	rel, err := filepath.Rel(p.root, absolute)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return absolute
	}
	return filepath.ToSlash(rel)
}

// Resolve canonicalizes path and returns both forms.
func (p *Policy) Resolve(path string) (Resolved, error) {
	abs, err := p.ResolveAbsolute(path)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Relative: p.ToRelative(abs), Absolute: abs}, nil
}
