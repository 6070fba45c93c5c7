package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentFS/config"
	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/monitoring"
	"github.com/GriffinCanCode/AgentFS/types"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	svc, err := New(root)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, root
}

func mustWrite(t *testing.T, svc *Service, path, content string) {
	t.Helper()
	res := svc.Write(context.Background(), types.NewWriteRequest(path, content))
	require.True(t, res.Success, res.Message)
}

func textOf(t *testing.T, result *types.ReadResult) string {
	t.Helper()
	require.NotNil(t, result.ContentText)
	return *result.ContentText
}

func TestDescribe(t *testing.T) {
	svc, _ := newService(t)
	assert.Equal(t,
		"The file system is a file system that provides file operations as an environment interface.",
		svc.Describe())
}

func TestInstanceIdentity(t *testing.T) {
	a, _ := newService(t)
	b, _ := newService(t)
	assert.NotEmpty(t, a.InstanceID())
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}

func TestReadSourceTransitions(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("hello"), 0o644))

	result, err := svc.Read(ctx, types.NewReadRequest("f.txt"))
	require.NoError(t, err)
	assert.Equal(t, types.SourceDisk, result.Source)
	assert.Equal(t, "hello", textOf(t, result))
	assert.Equal(t, int64(5), result.FileSize)
	assert.NotNil(t, result.ReadTime)

	result, err = svc.Read(ctx, types.NewReadRequest("f.txt"))
	require.NoError(t, err)
	assert.Equal(t, types.SourceCache, result.Source)

	svc.ClearCache()
	result, err = svc.Read(ctx, types.NewReadRequest("f.txt"))
	require.NoError(t, err)
	assert.Equal(t, types.SourceDisk, result.Source)
}

func TestWritePopulatesCache(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	mustWrite(t, svc, "f.txt", "hello")
	result, err := svc.Read(ctx, types.NewReadRequest("f.txt"))
	require.NoError(t, err)
	assert.Equal(t, types.SourceCache, result.Source)

	stats := svc.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(5), stats.TotalBytes)
}

func TestReadMissingFile(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Read(context.Background(), types.NewReadRequest("ghost.txt"))
	require.Error(t, err)
	assert.True(t, fserr.IsNotFound(err))
	assert.Contains(t, err.Error(), "Path not found: ghost.txt")
}

func TestSandboxContainment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Read(ctx, types.NewReadRequest("../escape.txt"))
	require.Error(t, err)
	assert.True(t, fserr.IsPathTraversal(err))

	res := svc.Write(ctx, types.NewWriteRequest("../../etc/passwd", "x"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Failed to write file")
	assert.Contains(t, res.Message, "escapes base_dir")
}

func TestAbsolutePathInsideSandbox(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()

	res := svc.Write(ctx, types.NewWriteRequest(filepath.Join(root, "abs.txt"), "deep"))
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "abs.txt", res.Path)

	result, err := svc.Read(ctx, types.NewReadRequest("abs.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", textOf(t, result))
}

func TestReadMaxBytes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	mustWrite(t, svc, "big.txt", "0123456789")

	req := types.NewReadRequest("big.txt")
	req.MaxBytes = 4
	result, err := svc.Read(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "0123", textOf(t, result))
	assert.Equal(t, int64(10), result.FileSize, "file size reports the raw length, not the cap")
}

func TestReadRawBytes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	mustWrite(t, svc, "f.txt", "hello")

	req := types.ReadRequest{Path: "f.txt"}
	result, err := svc.Read(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, result.ContentText)
	assert.Equal(t, []byte("hello"), result.ContentBytes)
}

func TestReadLineRange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	mustWrite(t, svc, "f.txt", "one\ntwo\nthree\nfour")

	req := types.NewReadRequest("f.txt")
	req.StartLine = 2
	req.EndLine = 3
	result, err := svc.Read(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree", textOf(t, result))

	req.StartLine = 3
	req.EndLine = 2
	_, err = svc.Read(ctx, req)
	assert.True(t, fserr.IsInvalidArgument(err))
}

func TestSerializedMutation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, content := range []string{"A", "B"} {
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			res := svc.Write(ctx, types.NewWriteRequest("contested.txt", c))
			assert.True(t, res.Success, res.Message)
		}(content)
	}
	wg.Wait()

	result, err := svc.Read(ctx, types.NewReadRequest("contested.txt"))
	require.NoError(t, err)
	text := textOf(t, result)
	assert.Contains(t, []string{"A", "B"}, text, "content must be one writer's value, never interleaved")
}

func TestConcurrentDistinctPaths(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			path := fmt.Sprintf("f%02d.txt", n)
			res := svc.Write(ctx, types.NewWriteRequest(path, path))
			assert.True(t, res.Success, res.Message)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		path := fmt.Sprintf("f%02d.txt", i)
		result, err := svc.Read(ctx, types.NewReadRequest(path))
		require.NoError(t, err)
		assert.Equal(t, path, textOf(t, result))
	}
}

func TestMetricsRecording(t *testing.T) {
	root := t.TempDir()
	metrics := monitoring.NewMetrics()
	svc, err := New(root, WithMetrics(metrics))
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	mustWrite(t, svc, "f.txt", "hello")
	_, err = svc.Read(ctx, types.NewReadRequest("f.txt"))
	require.NoError(t, err)
	_, err = svc.Read(ctx, types.NewReadRequest("ghost.txt"))
	require.Error(t, err)
	assert.NotNil(t, metrics.Registry())
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sandbox.Root = t.TempDir()
	cfg.Cache.MaxEntries = 4

	svc, err := NewFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	assert.Equal(t, cfg.Sandbox.Root, svc.Root())

	mustWrite(t, svc, "f.txt", "hello")
	result, rerr := svc.Read(context.Background(), types.NewReadRequest("f.txt"))
	require.NoError(t, rerr)
	assert.Equal(t, "hello", textOf(t, result))
	assert.Equal(t, 4, svc.CacheStats().MaxEntries)
}

func TestNewFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.MaxEntries = -1

	_, err := NewFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache max entries")
}
