package service

import (
	"context"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Stat returns file metadata. A missing path is a failed result with
// Exists false, not an error. Stat takes no lock; it only observes.
func (s *Service) Stat(ctx context.Context, req types.StatRequest) types.StatResult {
	o := s.begin("stat")
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		o.fail(req.Path, err)
		return types.StatResult{Path: req.Path, Message: fmt.Sprintf("Failed to get file stats: %v", err)}
	}
	exists, err := s.storage.Exists(ctx, res.Absolute)
	if err != nil {
		o.fail(req.Path, err)
		return types.StatResult{Path: req.Path, Message: fmt.Sprintf("Failed to get file stats: %v", err)}
	}
	if !exists {
		o.fail(res.Relative, fserr.NewNotFound(fmt.Sprintf("Path not found: %s", res.Relative), res.Relative))
		return types.StatResult{Path: res.Relative, Message: fmt.Sprintf("Path not found: %s", res.Relative)}
	}
	info, err := s.storage.Stat(ctx, res.Absolute)
	if err != nil {
		o.fail(req.Path, err)
		return types.StatResult{Path: req.Path, Message: fmt.Sprintf("Failed to get file stats: %v", err)}
	}

	stats := &types.FileStats{
		Size:        info.Size,
		Permissions: fmt.Sprintf("%03o", info.Mode.Perm()),
		IsDirectory: info.IsDir(),
		IsFile:      info.IsRegular(),
		IsSymlink:   info.Symlink,
	}
	if !info.ModTime.IsZero() {
		modified := info.ModTime
		stats.Modified = &modified
	}
	o.done(res.Relative)
	return types.StatResult{
		Path:    res.Relative,
		Stats:   stats,
		Exists:  true,
		Success: true,
		Message: fmt.Sprintf("Successfully retrieved stats for %s", res.Relative),
	}
}

// ChangePermissions sets permission bits from an octal string such as
// "755". Failures are captured in the result.
func (s *Service) ChangePermissions(ctx context.Context, req types.PermissionsRequest) types.PermissionsResult {
	o := s.begin("change_permissions")
	relative, err := s.doChangePermissions(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.PermissionsResult{Path: req.Path, Message: fmt.Sprintf("Failed to change permissions: %v", err)}
	}
	o.done(relative)
	return types.PermissionsResult{
		Path:    relative,
		Success: true,
		Message: fmt.Sprintf("Successfully changed permissions for %s", relative),
	}
}

func (s *Service) doChangePermissions(ctx context.Context, req types.PermissionsRequest) (string, error) {
	bits, err := strconv.ParseUint(req.Permissions, 8, 32)
	if err != nil {
		return "", fserr.NewInvalidArgument(fmt.Sprintf("permissions must be an octal string, got %q", req.Permissions))
	}
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return "", err
	}
	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return "", err
	}
	defer guard.Release()

	if err := s.storage.Chmod(ctx, res.Absolute, fs.FileMode(bits)); err != nil {
		return "", err
	}
	return res.Relative, nil
}
