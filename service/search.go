package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/handlers"
	"github.com/GriffinCanCode/AgentFS/storage"
	"github.com/GriffinCanCode/AgentFS/types"
)

// maxMatchesPerFile caps the match lines reported for a single file.
const maxMatchesPerFile = 50

// errSearchDone stops a walk once the result cap is reached.
var errSearchDone = errors.New("search result cap reached")

// Search finds files under a directory by name substring, content substring,
// or glob pattern. When the path is a single file it is searched directly.
// Content bytes are read from storage, never the cache. A failure yields an
// empty result.
func (s *Service) Search(ctx context.Context, req types.SearchRequest) types.SearchResult {
	o := s.begin("search")
	if req.By == "" {
		req.By = types.SearchByName
	}
	if req.MaxResults <= 0 {
		req.MaxResults = types.DefaultMaxResults
	}
	empty := types.SearchResult{Query: req.Query, SearchBy: req.By, Results: []types.SearchHit{}}

	if err := req.Validate(); err != nil {
		o.fail(req.Path, err)
		return empty
	}
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		o.fail(req.Path, err)
		return empty
	}

	needle := req.Query
	if !req.CaseSensitive {
		needle = strings.ToLower(needle)
	}
	if req.By == types.SearchByGlob && !doublestar.ValidatePattern(needle) {
		o.fail(req.Path, fserr.NewInvalidArgument(fmt.Sprintf("invalid glob pattern %q", req.Query)))
		return empty
	}
	typeSet := make(map[string]bool, len(req.FileTypes))
	for _, t := range req.FileTypes {
		typeSet[t] = true
	}
	w := &searchWalk{s: s, req: req, needle: needle, typeSet: typeSet, hits: []types.SearchHit{}}

	info, err := s.storage.Stat(ctx, res.Absolute)
	switch {
	case err == nil && info.IsRegular():
		if hit := w.searchFile(ctx, res.Absolute); hit != nil {
			w.hits = append(w.hits, *hit)
		}
	default:
		if walker, ok := s.storage.(storage.Walker); ok {
			w.fast(ctx, walker, res.Absolute)
		} else {
			w.slow(ctx, res.Absolute)
		}
	}
	o.done(res.Relative)
	return types.SearchResult{
		Query:      req.Query,
		SearchBy:   req.By,
		Results:    w.hits,
		TotalFound: len(w.hits),
	}
}

// searchWalk accumulates hits across a traversal. fast runs its callback
// from multiple goroutines, so the hit list is mutex-guarded.
type searchWalk struct {
	s       *Service
	req     types.SearchRequest
	needle  string
	typeSet map[string]bool

	mu   sync.Mutex
	hits []types.SearchHit
}

func (w *searchWalk) full() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.hits) >= w.req.MaxResults
}

// add appends a hit and reports whether the walk may continue.
func (w *searchWalk) add(hit types.SearchHit) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.hits) >= w.req.MaxResults {
		return false
	}
	w.hits = append(w.hits, hit)
	return len(w.hits) < w.req.MaxResults
}

func (w *searchWalk) fast(ctx context.Context, walker storage.Walker, root string) {
	// Walk errors, including the stop sentinel, end the traversal; partial
	// results stand.
	_ = walker.Walk(ctx, root, func(p string, d fs.DirEntry) error {
		if w.full() {
			return errSearchDone
		}
		if d == nil || !d.Type().IsRegular() {
			return nil
		}
		if !w.typeOK(p) {
			return nil
		}
		if hit := w.searchFile(ctx, p); hit != nil {
			if !w.add(*hit) {
				return errSearchDone
			}
		}
		return nil
	})
}

// slow is the listdir-recursion fallback for backends without Walk,
// descending into subdirectories before scanning files.
func (w *searchWalk) slow(ctx context.Context, dir string) {
	if w.full() || ctx.Err() != nil {
		return
	}
	names, err := w.s.storage.Listdir(ctx, dir)
	if err != nil {
		return
	}
	var files, dirs []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		info, err := w.s.storage.Stat(ctx, p)
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			dirs = append(dirs, p)
		case info.IsRegular():
			files = append(files, p)
		}
	}
	for _, d := range dirs {
		w.slow(ctx, d)
	}
	for _, f := range files {
		if w.full() {
			return
		}
		if !w.typeOK(f) {
			continue
		}
		if hit := w.searchFile(ctx, f); hit != nil {
			if !w.add(*hit) {
				return
			}
		}
	}
}

func (w *searchWalk) typeOK(p string) bool {
	if len(w.typeSet) == 0 {
		return true
	}
	return w.typeSet[strings.ToLower(filepath.Ext(p))]
}

// searchFile evaluates one file against the query and returns a hit or nil.
func (w *searchWalk) searchFile(ctx context.Context, absolute string) *types.SearchHit {
	relative := w.s.policy.ToRelative(absolute)
	switch w.req.By {
	case types.SearchByName:
		hay := filepath.Base(absolute)
		if !w.req.CaseSensitive {
			hay = strings.ToLower(hay)
		}
		if strings.Contains(hay, w.needle) {
			return &types.SearchHit{Path: relative, Matches: []types.SearchMatch{}}
		}
		return nil

	case types.SearchByGlob:
		hay := relative
		if !w.req.CaseSensitive {
			hay = strings.ToLower(hay)
		}
		if ok, _ := doublestar.Match(w.needle, hay); ok {
			return &types.SearchHit{Path: relative, Matches: []types.SearchMatch{}}
		}
		return nil

	default: // content
		data, err := w.s.storage.ReadBytes(ctx, absolute)
		if err != nil {
			return nil
		}
		text := string(bytes.ToValidUTF8(data, nil))
		var matches []types.SearchMatch
		for i, line := range handlers.SplitLines(text) {
			if len(matches) >= maxMatchesPerFile {
				break
			}
			hay := line
			if !w.req.CaseSensitive {
				hay = strings.ToLower(line)
			}
			if col := strings.Index(hay, w.needle); col >= 0 {
				column := col
				matches = append(matches, types.SearchMatch{Line: i + 1, Text: line, Column: &column})
			}
		}
		if len(matches) == 0 {
			return nil
		}
		return &types.SearchHit{Path: relative, Matches: matches, TotalMatches: len(matches)}
	}
}
