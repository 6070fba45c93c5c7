// Package storage provides the primitive byte-level I/O layer beneath the
// file system service.
//
// Backends:
//   - Local: disk-backed, with blocking OS calls off-loaded to a bounded
//     worker pool and fast concurrent traversal via fastwalk
//   - Remote: read-only HTTP mirror with retrying transport, rate limiting,
//     and a circuit breaker
//
// Every operation takes a context and honors cancellation while waiting
// for a pool slot or an HTTP response. Errors surface through the fserr
// taxonomy: a missing path reads as NOT_FOUND, an existing destination as
// CONFLICT, and transport trouble as STORAGE_ERROR.
//
// Example Usage:
//
//	be := storage.NewLocal(0)
//	defer be.Close()
//	data, err := be.ReadBytes(ctx, "/sandbox/notes.txt")
package storage
