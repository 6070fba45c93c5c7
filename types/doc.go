// Package types defines the request/result pairs for every filesystem
// operation, plus the shared statistics structures.
//
// Each operation takes a request struct and returns a matching result struct
// carrying enough data to avoid a second round trip (byte counts, match
// lists, tree lines, stats). Mutating results carry a success flag and a
// human-readable message instead of an error.
//
// Constructors (NewReadRequest, NewTreeRequest, ...) apply the documented
// defaults; zero-valued fields are normalized by the service where a default
// exists (encoding, caps, depth).
package types
