// Package id provides ULID generation for operation correlation.
//
// Every filesystem operation is tagged with a prefixed ULID (op_*) so that
// log lines belonging to one call can be grouped. ULIDs are lexicographically
// sortable, which keeps log ordering consistent with operation start time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OpID identifies a single filesystem operation.
type OpID string

// OpPrefix tags operation IDs in logs.
const OpPrefix = "op"

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Operation IDs
// ============================================================================

// NewOpID generates a new operation ID.
func NewOpID() OpID {
	return OpID(Default().GenerateWithPrefix(OpPrefix))
}

func (id OpID) String() string { return string(id) }

// ULID returns the ULID carried by a prefixed operation ID.
func (id OpID) ULID() (ulid.ULID, error) {
	raw, ok := strings.CutPrefix(string(id), OpPrefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("malformed operation id: %s", id)
	}
	return ulid.Parse(raw)
}

// ============================================================================
// Validation
// ============================================================================

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string.
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a ULID.
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
