package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/types"
)

// CreateDirectory makes a directory, with parents when requested. Failures
// are captured in the result.
func (s *Service) CreateDirectory(ctx context.Context, req types.DirectoryCreateRequest) types.DirectoryCreateResult {
	o := s.begin("create_directory")
	relative, err := s.doCreateDirectory(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.DirectoryCreateResult{Path: req.Path, Message: fmt.Sprintf("Failed to create directory: %v", err)}
	}
	o.done(relative)
	return types.DirectoryCreateResult{
		Path:    relative,
		Success: true,
		Message: fmt.Sprintf("Successfully created directory %s", relative),
	}
}

func (s *Service) doCreateDirectory(ctx context.Context, req types.DirectoryCreateRequest) (string, error) {
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return "", err
	}
	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return "", err
	}
	defer guard.Release()

	if err := s.storage.Mkdir(ctx, res.Absolute, req.Parents); err != nil {
		return "", err
	}
	return res.Relative, nil
}

// DeleteDirectory removes a directory. Without Recursive the directory must
// be empty; with it the whole tree goes. Failures are captured in the
// result.
func (s *Service) DeleteDirectory(ctx context.Context, req types.DirectoryDeleteRequest) types.DirectoryDeleteResult {
	o := s.begin("delete_directory")
	relative, err := s.doDeleteDirectory(ctx, req)
	if err != nil {
		o.fail(req.Path, err)
		return types.DirectoryDeleteResult{Path: req.Path, Message: fmt.Sprintf("Failed to delete directory: %v", err)}
	}
	o.done(relative)
	return types.DirectoryDeleteResult{
		Path:    relative,
		Success: true,
		Message: fmt.Sprintf("Successfully deleted directory %s", relative),
	}
}

func (s *Service) doDeleteDirectory(ctx context.Context, req types.DirectoryDeleteRequest) (string, error) {
	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		return "", err
	}
	guard, err := s.acquire(ctx, res.Relative)
	if err != nil {
		return "", err
	}
	defer guard.Release()

	if req.Recursive {
		if err := s.storage.Rmtree(ctx, res.Absolute); err != nil {
			return "", err
		}
		return res.Relative, nil
	}
	entries, err := s.storage.Listdir(ctx, res.Absolute)
	if err != nil {
		return "", err
	}
	if len(entries) > 0 {
		return "", fserr.NewConflict(fmt.Sprintf("Directory not empty: %s", res.Relative), res.Relative)
	}
	if err := s.storage.Remove(ctx, res.Absolute); err != nil {
		return "", err
	}
	return res.Relative, nil
}

// List enumerates one directory level, splitting entries into files and
// directories. Entries whose stat fails are listed as files. A failure
// yields an empty result.
func (s *Service) List(ctx context.Context, req types.ListRequest) types.ListResult {
	o := s.begin("list")
	empty := types.ListResult{Path: req.Path, Files: []string{}, Directories: []string{}}

	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		o.fail(req.Path, err)
		return empty
	}
	entries, err := s.storage.Listdir(ctx, res.Absolute)
	if err != nil {
		o.fail(req.Path, err)
		return empty
	}

	files := []string{}
	directories := []string{}
	for _, name := range entries {
		hidden := strings.HasPrefix(name, ".")
		if hidden && !req.ShowHidden {
			continue
		}
		info, err := s.storage.Stat(ctx, filepath.Join(res.Absolute, name))
		switch {
		case err == nil && info.IsDir():
			directories = append(directories, name)
		case err != nil || info.IsRegular():
			if suffixAllowed(name, req.FileTypes) {
				files = append(files, name)
			}
		}
	}
	o.done(res.Relative)
	return types.ListResult{
		Path:             res.Relative,
		Files:            files,
		Directories:      directories,
		TotalFiles:       len(files),
		TotalDirectories: len(directories),
	}
}

func suffixAllowed(name string, fileTypes []string) bool {
	if len(fileTypes) == 0 {
		return true
	}
	for _, suffix := range fileTypes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Tree renders a depth-bounded directory tree with box-drawing connectors,
// directories first at each level. Counts are tallied as lines are emitted.
// A failure yields an empty result.
func (s *Service) Tree(ctx context.Context, req types.TreeRequest) types.TreeResult {
	o := s.begin("tree")
	empty := types.TreeResult{Path: req.Path, TreeLines: []string{}}
	if req.MaxDepth <= 0 {
		req.MaxDepth = types.DefaultTreeDepth
	}

	res, err := s.policy.Resolve(req.Path)
	if err != nil {
		o.fail(req.Path, err)
		return empty
	}
	excludes := make([]*regexp.Regexp, 0, len(req.ExcludePatterns))
	for _, expr := range req.ExcludePatterns {
		re, err := s.excludePattern(expr)
		if err != nil {
			o.fail(req.Path, err)
			return empty
		}
		excludes = append(excludes, re)
	}
	typeSet := make(map[string]bool, len(req.FileTypes))
	for _, t := range req.FileTypes {
		typeSet[t] = true
	}

	walker := &treeWalk{s: s, req: req, excludes: excludes, typeSet: typeSet}
	if err := walker.walk(ctx, res.Absolute, "", 0); err != nil {
		o.fail(req.Path, err)
		return empty
	}
	o.done(res.Relative)
	return types.TreeResult{
		Path:             res.Relative,
		TreeLines:        walker.lines,
		TotalFiles:       walker.files,
		TotalDirectories: walker.dirs,
	}
}

type treeWalk struct {
	s        *Service
	req      types.TreeRequest
	excludes []*regexp.Regexp
	typeSet  map[string]bool

	lines []string
	files int
	dirs  int
}

type treeNode struct {
	name  string
	isDir bool
}

func (w *treeWalk) walk(ctx context.Context, dir, prefix string, depth int) error {
	if depth >= w.req.MaxDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	names, err := w.s.storage.Listdir(ctx, dir)
	if err != nil {
		return err
	}

	visible := make([]treeNode, 0, len(names))
	for _, name := range names {
		if !w.req.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if w.excluded(name) {
			continue
		}
		info, err := w.s.storage.Stat(ctx, filepath.Join(dir, name))
		isDir := err == nil && info.IsDir()
		if !isDir && len(w.typeSet) > 0 && !w.typeSet[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		visible = append(visible, treeNode{name: name, isDir: isDir})
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].isDir != visible[j].isDir {
			return visible[i].isDir
		}
		return strings.ToLower(visible[i].name) < strings.ToLower(visible[j].name)
	})

	for i, node := range visible {
		last := i == len(visible)-1
		connector := "├── "
		if last {
			connector = "└── "
		}
		w.lines = append(w.lines, prefix+connector+node.name)
		if !node.isDir {
			w.files++
			continue
		}
		w.dirs++
		childPrefix := prefix + "│   "
		if last {
			childPrefix = prefix + "    "
		}
		if err := w.walk(ctx, filepath.Join(dir, node.name), childPrefix, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *treeWalk) excluded(name string) bool {
	for _, re := range w.excludes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// CollectAllFiles enumerates files under root recursively, up to maxFiles
// (100 when maxFiles is not positive). Returned paths are joined onto the
// root as given. Entries whose stat fails count as files; unreadable
// directories are skipped.
func (s *Service) CollectAllFiles(ctx context.Context, root string, maxFiles int) []string {
	o := s.begin("collect_all_files")
	if maxFiles <= 0 {
		maxFiles = 100
	}
	collected := make([]string, 0, maxFiles)

	var collect func(current string)
	collect = func(current string) {
		if len(collected) >= maxFiles || ctx.Err() != nil {
			return
		}
		res, err := s.policy.Resolve(current)
		if err != nil {
			return
		}
		names, err := s.storage.Listdir(ctx, res.Absolute)
		if err != nil {
			return
		}
		for _, name := range names {
			if len(collected) >= maxFiles {
				return
			}
			itemPath := path.Join(current, name)
			item, err := s.policy.Resolve(itemPath)
			if err != nil {
				continue
			}
			exists, err := s.storage.Exists(ctx, item.Absolute)
			if err != nil || !exists {
				continue
			}
			info, err := s.storage.Stat(ctx, item.Absolute)
			switch {
			case err != nil:
				collected = append(collected, itemPath)
			case info.IsDir():
				collect(itemPath)
			case info.IsRegular():
				collected = append(collected, itemPath)
			}
		}
	}
	collect(root)
	o.done(root)
	return collected
}
