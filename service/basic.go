package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/handlers"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Read returns file content decoded by the handler matching the path's
// extension. Bytes come from the cache when fresh, otherwise from storage.
// Read propagates typed errors; it does not capture them in the result.
func (s *Service) Read(ctx context.Context, req types.ReadRequest) (*types.ReadResult, error) {
	o := s.begin("read")
	if err := req.Validate(); err != nil {
		return nil, o.fail(req.Path, err)
	}
	if req.Encoding == "" {
		req.Encoding = types.DefaultEncoding
	}
	if req.MaxBytes == 0 {
		req.MaxBytes = types.DefaultMaxReadBytes
	}
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return nil, o.fail(req.Path, err)
	}

	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return nil, o.fail(req.Path, err)
	}
	exists, err := s.storage.Exists(ctx, res.Absolute)
	if err != nil {
		guard.Release()
		return nil, o.fail(req.Path, err)
	}
	if !exists {
		guard.Release()
		return nil, o.fail(req.Path, fserr.NewNotFound(fmt.Sprintf("Path not found: %s", res.Relative), res.Relative))
	}
	data, source, err := s.readRaw(ctx, res)
	guard.Release()
	if err != nil {
		return nil, o.fail(req.Path, err)
	}

	// Decode outside the lock; handlers only look at the byte snapshot.
	result, err := s.registry.ForPath(res.Absolute).Decode(data, &req)
	if err != nil {
		return nil, o.fail(req.Path, err)
	}
	result.Source = source
	result.FileSize = int64(len(data))
	now := time.Now()
	result.ReadTime = &now
	o.done(res.Relative)
	return result, nil
}

// WriteBytes writes raw bytes without handler encoding. With overwrite false
// an existing destination is a Conflict. WriteBytes propagates typed errors.
func (s *Service) WriteBytes(ctx context.Context, path string, data []byte, overwrite bool) error {
	o := s.begin("write_bytes")
	res, err := s.policy.Resolve(path)
	if err != nil {
		return o.fail(path, err)
	}
	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return o.fail(path, err)
	}
	defer guard.Release()

	if !overwrite {
		exists, err := s.storage.Exists(ctx, res.Absolute)
		if err != nil {
			return o.fail(path, err)
		}
		if exists {
			return o.fail(path, fserr.NewConflict(fmt.Sprintf("Destination exists: %s", res.Relative), res.Relative))
		}
	}
	if err := s.storage.WriteBytes(ctx, res.Absolute, data, true); err != nil {
		return o.fail(path, err)
	}
	s.cache.Put(res.Relative, data)
	s.syncCacheGauges()
	o.done(res.Relative)
	return nil
}

// Write encodes text through the path's handler and writes it. Mode "a"
// appends to existing content. Failures are captured in the result.
func (s *Service) Write(ctx context.Context, req types.WriteRequest) types.WriteResult {
	o := s.begin("write")
	relative, written, err := s.doWrite(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.WriteResult{Path: req.Path, Message: fmt.Sprintf("Failed to write file: %v", err)}
	}
	o.done(relative)
	return types.WriteResult{
		Path:         relative,
		BytesWritten: written,
		Success:      true,
		Message:      fmt.Sprintf("Successfully wrote %d bytes to %s", written, relative),
	}
}

func (s *Service) doWrite(ctx context.Context, req types.WriteRequest) (string, int64, error) {
	if req.Mode == "" {
		req.Mode = types.ModeWrite
	}
	if req.Encoding == "" {
		req.Encoding = types.DefaultEncoding
	}
	if err := req.Validate(); err != nil {
		return "", 0, err
	}
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return "", 0, err
	}
	data, err := s.registry.ForPath(res.Absolute).Encode(req.Content, req.Mode, req.Encoding)
	if err != nil {
		return "", 0, err
	}

	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return "", 0, err
	}
	defer guard.Release()

	if req.Mode == types.ModeAppend {
		exists, err := s.storage.Exists(ctx, res.Absolute)
		if err != nil {
			return "", 0, err
		}
		if exists {
			existing, _, err := s.readRaw(ctx, res)
			if err != nil {
				return "", 0, err
			}
			combined := make([]byte, 0, len(existing)+len(data))
			combined = append(combined, existing...)
			combined = append(combined, data...)
			data = combined
		}
	}
	if err := s.storage.WriteBytes(ctx, res.Absolute, data, true); err != nil {
		return "", 0, err
	}
	s.cache.Put(res.Relative, data)
	s.syncCacheGauges()
	return res.Relative, int64(len(data)), nil
}

// Replace substitutes occurrences of a string, optionally restricted to a
// 1-based inclusive line window. Failures are captured in the result.
func (s *Service) Replace(ctx context.Context, req types.ReplaceRequest) types.ReplaceResult {
	o := s.begin("replace")
	count, err := s.doReplace(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.ReplaceResult{Path: req.Path, Message: fmt.Sprintf("Failed to replace text: %v", err)}
	}
	o.done(req.Path)
	return types.ReplaceResult{
		Path:             req.Path,
		ReplacementsMade: count,
		Success:          true,
		Message:          fmt.Sprintf("Successfully made %d replacements in %s", count, req.Path),
	}
}

func (s *Service) doReplace(ctx context.Context, req types.ReplaceRequest) (int, error) {
	if req.Encoding == "" {
		req.Encoding = types.DefaultEncoding
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	readReq := types.NewReadRequest(req.Path)
	readReq.Encoding = req.Encoding
	result, err := s.Read(ctx, readReq)
	if err != nil {
		return 0, err
	}
	var text string
	if result.ContentText != nil {
		text = *result.ContentText
	}

	var count int
	var newText string
	if req.StartLine != 0 || req.EndLine != 0 {
		lines := handlers.SplitLines(text)
		total := len(lines)
		start := 0
		if req.StartLine != 0 {
			start = req.StartLine - 1
		}
		end := total
		if req.EndLine != 0 && req.EndLine < total {
			end = req.EndLine
		}
		if start > total {
			start = total
		}
		before := strings.Join(lines[:start], "\n")
		target := strings.Join(lines[start:end], "\n")
		after := strings.Join(lines[end:], "\n")

		count = strings.Count(target, req.OldString)
		target = strings.ReplaceAll(target, req.OldString, req.NewString)

		parts := make([]string, 0, 3)
		if before != "" {
			parts = append(parts, before)
		}
		parts = append(parts, target)
		if after != "" {
			parts = append(parts, after)
		}
		newText = strings.Join(parts, "\n")
	} else {
		count = strings.Count(text, req.OldString)
		newText = strings.ReplaceAll(text, req.OldString, req.NewString)
	}

	writeReq := types.WriteRequest{Path: req.Path, Content: newText, Mode: types.ModeWrite, Encoding: req.Encoding}
	if _, _, err := s.doWrite(ctx, writeReq); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a single file. Failures are captured in the result.
func (s *Service) Delete(ctx context.Context, req types.DeleteRequest) types.DeleteResult {
	o := s.begin("delete")
	relative, err := s.doDelete(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.DeleteResult{Path: req.Path, Message: fmt.Sprintf("Failed to delete file: %v", err)}
	}
	o.done(relative)
	return types.DeleteResult{
		Path:    relative,
		Success: true,
		Message: fmt.Sprintf("Successfully deleted %s", relative),
	}
}

func (s *Service) doDelete(ctx context.Context, req types.DeleteRequest) (string, error) {
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return "", err
	}
	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return "", err
	}
	defer guard.Release()

	exists, err := s.storage.Exists(ctx, res.Absolute)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fserr.NewNotFound(fmt.Sprintf("Path not found: %s", res.Relative), res.Relative)
	}
	if err := s.storage.Remove(ctx, res.Absolute); err != nil {
		return "", err
	}
	s.cache.Delete(res.Relative)
	s.syncCacheGauges()
	return res.Relative, nil
}

// Copy duplicates a file. Both paths are locked in sorted key order; the
// destination must not exist unless Overwrite is set. BytesCopied is always
// zero. Failures are captured in the result.
func (s *Service) Copy(ctx context.Context, req types.CopyRequest) types.CopyResult {
	o := s.begin("copy")
	src, dst, err := s.doCopy(ctx, req)
	if err != nil {
		o.fail(req.SrcPath, err)
		return types.CopyResult{
			SrcPath: req.SrcPath,
			DstPath: req.DstPath,
			Message: fmt.Sprintf("Failed to copy file: %v", err),
		}
	}
	o.done(src)
	return types.CopyResult{
		SrcPath: src,
		DstPath: dst,
		Success: true,
		Message: fmt.Sprintf("Successfully copied %s to %s", src, dst),
	}
}

func (s *Service) doCopy(ctx context.Context, req types.CopyRequest) (string, string, error) {
	src, err := s.policy.Resolve(req.SrcPath)
	if err != nil {
		return "", "", err
	}
	dst, err := s.policy.Resolve(req.DstPath)
	if err != nil {
		return "", "", err
	}
	g1, g2, err := s.acquireTwo(ctx, src.Relative, dst.Relative)
	if err != nil {
		return "", "", err
	}
	defer g1.Release()
	if g2 != nil {
		defer g2.Release()
	}

	exists, err := s.storage.Exists(ctx, src.Absolute)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", fserr.NewNotFound(fmt.Sprintf("Path not found: %s", src.Relative), src.Relative)
	}
	if !req.Overwrite {
		exists, err := s.storage.Exists(ctx, dst.Absolute)
		if err != nil {
			return "", "", err
		}
		if exists {
			return "", "", fserr.NewConflict(fmt.Sprintf("Destination exists: %s", dst.Relative), dst.Relative)
		}
	}
	if err := s.storage.Copy(ctx, src.Absolute, dst.Absolute); err != nil {
		return "", "", err
	}
	s.cache.Delete(dst.Relative)
	s.syncCacheGauges()
	return src.Relative, dst.Relative, nil
}

// Move renames a file or directory. Both paths are locked in sorted key
// order and the cache entry follows the move. Failures are captured in the
// result.
func (s *Service) Move(ctx context.Context, req types.MoveRequest) types.MoveResult {
	o := s.begin("move")
	src, dst, err := s.doMove(ctx, req)
	if err != nil {
		o.fail(req.SrcPath, err)
		return types.MoveResult{
			SrcPath: req.SrcPath,
			DstPath: req.DstPath,
			Message: fmt.Sprintf("Failed to move file: %v", err),
		}
	}
	o.done(src)
	return types.MoveResult{
		SrcPath: src,
		DstPath: dst,
		Success: true,
		Message: fmt.Sprintf("Successfully moved %s to %s", src, dst),
	}
}

func (s *Service) doMove(ctx context.Context, req types.MoveRequest) (string, string, error) {
	src, err := s.policy.Resolve(req.SrcPath)
	if err != nil {
		return "", "", err
	}
	dst, err := s.policy.Resolve(req.DstPath)
	if err != nil {
		return "", "", err
	}
	g1, g2, err := s.acquireTwo(ctx, src.Relative, dst.Relative)
	if err != nil {
		return "", "", err
	}
	defer g1.Release()
	if g2 != nil {
		defer g2.Release()
	}

	exists, err := s.storage.Exists(ctx, src.Absolute)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", fserr.NewNotFound(fmt.Sprintf("Path not found: %s", src.Relative), src.Relative)
	}
	if !req.Overwrite {
		exists, err := s.storage.Exists(ctx, dst.Absolute)
		if err != nil {
			return "", "", err
		}
		if exists {
			return "", "", fserr.NewConflict(fmt.Sprintf("Destination exists: %s", dst.Relative), dst.Relative)
		}
	}
	if err := s.storage.Rename(ctx, src.Absolute, dst.Absolute); err != nil {
		return "", "", err
	}
	if data, ok := s.cache.Get(src.Relative); ok {
		s.cache.Delete(src.Relative)
		s.cache.Put(dst.Relative, data)
	}
	s.syncCacheGauges()
	return src.Relative, dst.Relative, nil
}
