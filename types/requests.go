package types

import (
	"fmt"

	"github.com/GriffinCanCode/AgentFS/fserr"
)

// Operation defaults.
const (
	DefaultEncoding     = "utf-8"
	DefaultMaxReadBytes = 5 * 1024 * 1024
	DefaultTreeDepth    = 3
	DefaultMaxResults   = 100
)

// Write modes.
const (
	ModeWrite  = "w"
	ModeAppend = "a"
)

// Search modes.
const (
	SearchByName    = "name"
	SearchByContent = "content"
	SearchByGlob    = "glob"
)

// ReadRequest asks for file content with optional line filtering.
// The zero value of AsText requests raw bytes; NewReadRequest applies the
// text-by-default contract.
type ReadRequest struct {
	Path      string `json:"path"`
	AsText    bool   `json:"as_text"`
	Encoding  string `json:"encoding,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	MaxBytes  int64  `json:"max_bytes,omitempty"`
}

// NewReadRequest returns a read request with default settings.
func NewReadRequest(path string) ReadRequest {
	return ReadRequest{Path: path, AsText: true, Encoding: DefaultEncoding, MaxBytes: DefaultMaxReadBytes}
}

// Validate checks line-range and size arguments.
func (r ReadRequest) Validate() error {
	if err := validateLineRange(r.StartLine, r.EndLine); err != nil {
		return err
	}
	if r.MaxBytes < 0 {
		return fserr.NewInvalidArgument("max_bytes must not be negative")
	}
	return nil
}

// WriteRequest writes text content to a file.
type WriteRequest struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Mode     string `json:"mode,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// NewWriteRequest returns an overwrite request with default encoding.
func NewWriteRequest(path, content string) WriteRequest {
	return WriteRequest{Path: path, Content: content, Mode: ModeWrite, Encoding: DefaultEncoding}
}

// Validate checks the write mode.
func (r WriteRequest) Validate() error {
	if r.Mode != "" && r.Mode != ModeWrite && r.Mode != ModeAppend {
		return fserr.NewInvalidArgument("mode must be 'w' or 'a'")
	}
	return nil
}

// ReplaceRequest substitutes occurrences of a string, optionally within a
// line window.
type ReplaceRequest struct {
	Path      string `json:"path"`
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
}

// NewReplaceRequest returns a whole-file replace request.
func NewReplaceRequest(path, oldString, newString string) ReplaceRequest {
	return ReplaceRequest{Path: path, OldString: oldString, NewString: newString, Encoding: DefaultEncoding}
}

// Validate checks the line window.
func (r ReplaceRequest) Validate() error {
	return validateLineRange(r.StartLine, r.EndLine)
}

// DeleteRequest removes a single file.
type DeleteRequest struct {
	Path string `json:"path"`
}

// CopyRequest copies a file to a new location.
type CopyRequest struct {
	SrcPath   string `json:"src_path"`
	DstPath   string `json:"dst_path"`
	Overwrite bool   `json:"overwrite"`
}

// MoveRequest renames or moves a file.
type MoveRequest struct {
	SrcPath   string `json:"src_path"`
	DstPath   string `json:"dst_path"`
	Overwrite bool   `json:"overwrite"`
}

// DirectoryCreateRequest creates a directory.
type DirectoryCreateRequest struct {
	Path    string `json:"path"`
	Parents bool   `json:"parents"`
}

// NewDirectoryCreateRequest returns a create request that makes parents.
func NewDirectoryCreateRequest(path string) DirectoryCreateRequest {
	return DirectoryCreateRequest{Path: path, Parents: true}
}

// DirectoryDeleteRequest removes a directory.
type DirectoryDeleteRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

// ListRequest enumerates one directory level.
type ListRequest struct {
	Path       string   `json:"path"`
	ShowHidden bool     `json:"show_hidden"`
	FileTypes  []string `json:"file_types,omitempty"`
}

// TreeRequest renders a depth-bounded directory tree.
type TreeRequest struct {
	Path            string   `json:"path"`
	MaxDepth        int      `json:"max_depth,omitempty"`
	ShowHidden      bool     `json:"show_hidden"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	FileTypes       []string `json:"file_types,omitempty"`
}

// NewTreeRequest returns a tree request with the default depth.
func NewTreeRequest(path string) TreeRequest {
	return TreeRequest{Path: path, MaxDepth: DefaultTreeDepth}
}

// SearchRequest finds files by name, content, or glob pattern.
type SearchRequest struct {
	Path          string   `json:"path"`
	Query         string   `json:"query"`
	By            string   `json:"by,omitempty"`
	FileTypes     []string `json:"file_types,omitempty"`
	CaseSensitive bool     `json:"case_sensitive"`
	MaxResults    int      `json:"max_results,omitempty"`
}

// NewSearchRequest returns a search request with default mode and cap.
func NewSearchRequest(path, query, by string) SearchRequest {
	if by == "" {
		by = SearchByName
	}
	return SearchRequest{Path: path, Query: query, By: by, MaxResults: DefaultMaxResults}
}

// Validate checks the search mode and cap.
func (r SearchRequest) Validate() error {
	switch r.By {
	case "", SearchByName, SearchByContent, SearchByGlob:
	default:
		return fserr.NewInvalidArgument(fmt.Sprintf("by must be one of 'name', 'content', 'glob', got %q", r.By))
	}
	if r.MaxResults < 0 {
		return fserr.NewInvalidArgument("max_results must not be negative")
	}
	return nil
}

// StatRequest fetches file statistics.
type StatRequest struct {
	Path string `json:"path"`
}

// PermissionsRequest changes file permissions. Permissions is an octal
// string such as "755".
type PermissionsRequest struct {
	Path        string `json:"path"`
	Permissions string `json:"permissions"`
}

func validateLineRange(start, end int) error {
	if start < 0 || end < 0 {
		return fserr.NewInvalidArgument("line numbers are 1-based and must not be negative")
	}
	if start != 0 && end != 0 && end <= start {
		return fserr.NewInvalidArgument("end_line must be greater than start_line")
	}
	return nil
}
