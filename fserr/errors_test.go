package fserr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	withPath := NewNotFound("Path not found: notes/a.txt", "notes/a.txt")
	assert.Equal(t, "Path not found: notes/a.txt (path: notes/a.txt)", withPath.Error())

	withoutPath := NewInvalidArgument("mode must be 'w' or 'a'")
	assert.Equal(t, "mode must be 'w' or 'a'", withoutPath.Error())
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		pred func(error) bool
	}{
		{"invalid path", NewInvalidPath("bad", "x"), CodeInvalidPath, IsInvalidPath},
		{"traversal", NewPathTraversal("escape", "../x"), CodePathTraversal, IsPathTraversal},
		{"not found", NewNotFound("missing", "x"), CodeNotFound, IsNotFound},
		{"conflict", NewConflict("exists", "x"), CodeConflict, IsConflict},
		{"permission", NewPermissionDenied("denied", "x"), CodePermissionDenied, IsPermissionDenied},
		{"unsupported", NewUnsupportedType("nope", "x"), CodeUnsupportedType, IsUnsupportedType},
		{"argument", NewInvalidArgument("bad arg"), CodeInvalidArgument, IsInvalidArgument},
		{"storage", NewStorage("io failed", "x", errors.New("disk")), CodeStorage, IsStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.True(t, tt.pred(tt.err))
			assert.False(t, tt.pred(errors.New("plain")))
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NewConflict("Destination exists: b.txt", "b.txt")
	wrapped := fmt.Errorf("rename failed: %w", inner)

	assert.True(t, IsConflict(wrapped))
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, &Error{Code: CodeConflict}))
}

func TestFromOS(t *testing.T) {
	notExist := &os.PathError{Op: "open", Path: "/tmp/x", Err: fs.ErrNotExist}
	assert.Equal(t, CodeNotFound, FromOS(notExist, "x").Code)

	exist := &os.PathError{Op: "mkdir", Path: "/tmp/x", Err: fs.ErrExist}
	assert.Equal(t, CodeConflict, FromOS(exist, "x").Code)

	perm := &os.PathError{Op: "chmod", Path: "/tmp/x", Err: fs.ErrPermission}
	assert.Equal(t, CodePermissionDenied, FromOS(perm, "x").Code)

	other := errors.New("device offline")
	mapped := FromOS(other, "x")
	assert.Equal(t, CodeStorage, mapped.Code)
	assert.ErrorIs(t, mapped, other)

	assert.Nil(t, FromOS(nil, "x"))
}

func TestWrapPassesTypedErrorsThrough(t *testing.T) {
	typed := NewNotFound("Path not found: a", "a")
	assert.Same(t, typed, Wrap(typed, "ignored"))

	mapped := Wrap(fs.ErrPermission, "a")
	assert.Equal(t, CodePermissionDenied, mapped.Code)

	assert.Nil(t, Wrap(nil, "a"))
}
