// Package paths implements sandboxed path resolution within a fixed base
// directory.
//
// Relative inputs resolve under the base directory and are rejected with
// PATH_TRAVERSAL when the cleaned result escapes it. Absolute inputs pass
// through cleaned but unchecked; callers holding absolute paths can reach
// outside the sandbox. That escape hatch is intentional and relied on by
// trusted callers, so harden it only with a policy change, not here.
package paths
