// Package fserr defines the error taxonomy shared by every filesystem
// component.
//
// All failures surface as *Error values carrying:
//   - Code: machine-readable category (NOT_FOUND, CONFLICT, ...)
//   - Message: human-readable description
//   - Path: the offending path when known
//   - Err: the wrapped cause, preserved for errors.Is/As
//
// Categories:
//   - INVALID_PATH, PATH_TRAVERSAL: path resolution failures
//   - NOT_FOUND, CONFLICT, PERMISSION_DENIED: precondition and OS failures
//   - UNSUPPORTED_TYPE, INVALID_ARGUMENT: request failures
//   - CACHE_ERROR, STORAGE_ERROR, HANDLER_ERROR, LOCK_ERROR: layer failures
//
// Example Usage:
//
//	if err := svc.WriteBytes(ctx, "a.txt", data, false); fserr.IsConflict(err) {
//		// destination already exists
//	}
package fserr
