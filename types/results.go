package types

import "time"

// Source labels where read bytes came from.
type Source string

// Read sources.
const (
	SourceCache  Source = "cache"
	SourceDisk   Source = "disk"
	SourceRemote Source = "remote"
)

// ReadResult carries decoded file content and metadata.
type ReadResult struct {
	Path         string     `json:"path"`
	Source       Source     `json:"source"`
	ContentBytes []byte     `json:"content_bytes,omitempty"`
	ContentText  *string    `json:"content_text,omitempty"`
	TotalLines   *int       `json:"total_lines,omitempty"`
	Preview      string     `json:"preview,omitempty"`
	ReadTime     *time.Time `json:"read_time,omitempty"`
	FileSize     int64      `json:"file_size"`
}

// WriteResult reports a text write.
type WriteResult struct {
	Path         string `json:"path"`
	BytesWritten int64  `json:"bytes_written"`
	Success      bool   `json:"success"`
	Message      string `json:"message"`
}

// ReplaceResult reports a substitution pass.
type ReplaceResult struct {
	Path             string `json:"path"`
	ReplacementsMade int    `json:"replacements_made"`
	Success          bool   `json:"success"`
	Message          string `json:"message"`
}

// DeleteResult reports a file removal.
type DeleteResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CopyResult reports a file copy. BytesCopied is always zero; the byte count
// is not tracked through the storage layer.
type CopyResult struct {
	SrcPath     string `json:"src_path"`
	DstPath     string `json:"dst_path"`
	BytesCopied int64  `json:"bytes_copied"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
}

// MoveResult reports a rename/move.
type MoveResult struct {
	SrcPath string `json:"src_path"`
	DstPath string `json:"dst_path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DirectoryCreateResult reports a mkdir.
type DirectoryCreateResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DirectoryDeleteResult reports a directory removal.
type DirectoryDeleteResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListResult holds one directory level, files and directories separated.
type ListResult struct {
	Path             string   `json:"path"`
	Files            []string `json:"files"`
	Directories      []string `json:"directories"`
	TotalFiles       int      `json:"total_files"`
	TotalDirectories int      `json:"total_directories"`
}

// TreeResult holds rendered tree lines and walk totals.
type TreeResult struct {
	Path             string   `json:"path"`
	TreeLines        []string `json:"tree_lines"`
	TotalFiles       int      `json:"total_files"`
	TotalDirectories int      `json:"total_directories"`
}

// SearchMatch is one matching line within a file. Column is the byte offset
// of the first occurrence in the line.
type SearchMatch struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Column *int   `json:"column,omitempty"`
}

// SearchHit groups the matches found in a single file.
type SearchHit struct {
	Path         string        `json:"path"`
	Matches      []SearchMatch `json:"matches"`
	TotalMatches int           `json:"total_matches"`
}

// SearchResult reports a search pass.
type SearchResult struct {
	Query      string      `json:"query"`
	SearchBy   string      `json:"search_by"`
	Results    []SearchHit `json:"results"`
	TotalFound int         `json:"total_found"`
}

// FileStats mirrors the OS stat structure.
type FileStats struct {
	Size        int64      `json:"size"`
	Created     *time.Time `json:"created,omitempty"`
	Modified    *time.Time `json:"modified,omitempty"`
	Accessed    *time.Time `json:"accessed,omitempty"`
	Permissions string     `json:"permissions,omitempty"`
	IsDirectory bool       `json:"is_directory"`
	IsFile      bool       `json:"is_file"`
	IsSymlink   bool       `json:"is_symlink"`
}

// StatResult reports file statistics. A missing path is a failed result,
// not an error.
type StatResult struct {
	Path    string     `json:"path"`
	Stats   *FileStats `json:"stats,omitempty"`
	Exists  bool       `json:"exists"`
	Success bool       `json:"success"`
	Message string     `json:"message"`
}

// PermissionsResult reports a permissions change.
type PermissionsResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CacheStats reports cache performance counters. HitRate is a percentage in
// [0, 100].
type CacheStats struct {
	Entries    int     `json:"entries"`
	TotalBytes int64   `json:"total_bytes"`
	MaxEntries int     `json:"max_entries"`
	MaxBytes   int64   `json:"max_bytes"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	TTLSeconds int     `json:"ttl_seconds"`
}
