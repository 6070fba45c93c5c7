package handlers

import (
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentFS/types"
)

// Handler decodes file bytes into a structured read result and encodes text
// back into bytes for a given file family.
type Handler interface {
	// Name identifies the handler in logs and metrics.
	Name() string

	// Extensions lists the lower-case suffixes this handler owns.
	Extensions() []string

	// Matches reports whether the handler accepts the extension. The
	// universal text fallback matches everything.
	Matches(ext string) bool

	// Decode turns raw bytes into a read result, honoring the request's
	// line range, byte cap, and encoding.
	Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error)

	// Encode turns text into bytes for writing. mode "a" signals an
	// append; concatenation with existing bytes happens in the caller.
	Encode(text, mode, encoding string) ([]byte, error)
}

// Registry dispatches paths to handlers. Registration order is priority
// order: the first handler whose extension set matches wins, and the text
// handler registered last matches unconditionally.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds the default handler set, most specific first.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewXlsx())
	r.Register(NewDocx())
	r.Register(NewPdf())
	r.Register(NewPython())
	r.Register(NewMarkdown())
	r.Register(NewJSON())
	r.Register(NewCSV())
	r.Register(NewYAML())
	r.Register(NewTOML())
	r.Register(NewArchive())
	r.Register(NewBinary())
	r.Register(NewText())
	return r
}

// Register appends a handler at the lowest priority.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// ForPath returns the first handler matching the path's extension.
func (r *Registry) ForPath(path string) Handler {
	ext := strings.ToLower(filepath.Ext(path))
	for _, h := range r.handlers {
		if h.Matches(ext) {
			return h
		}
	}
	return r.handlers[len(r.handlers)-1]
}

// Handlers returns the registered handlers in priority order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// extensionSet is the common Matches/Extensions implementation.
type extensionSet map[string]struct{}

func newExtensionSet(exts ...string) extensionSet {
	s := make(extensionSet, len(exts))
	for _, e := range exts {
		s[e] = struct{}{}
	}
	return s
}

func (s extensionSet) Matches(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

func (s extensionSet) Extensions() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	return out
}

// capBytes truncates data to the request's byte budget.
func capBytes(data []byte, max int64) []byte {
	if max > 0 && int64(len(data)) > max {
		return data[:max]
	}
	return data
}

// firstN returns up to n leading elements.
func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
