// Package resilience provides a circuit breaker for calls to unreliable
// collaborators such as remote storage mirrors.
//
// The breaker moves between three states:
//   - Closed: calls pass through; a failure pattern trips it open
//   - Open: calls fail immediately with ErrOpen until the cooldown elapses
//   - Half-open: a bounded number of probe calls decide recovery or re-trip
//
// Example Usage:
//
//	br := resilience.New("mirror", resilience.Settings{
//	    Cooldown: 30 * time.Second,
//	})
//	err := br.Do(func() error { return fetch() })
package resilience
