// Package locks serializes operations per logical path key.
//
// One guard exists per key, created lazily under a master mutex and kept for
// the manager's lifetime. Operations touching the same key run strictly in
// acquisition order; disjoint keys interleave freely. There is no separate
// read lock: readers and writers on a key queue behind each other.
package locks
