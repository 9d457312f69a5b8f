package fs

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quantfold/scout/pkg/agent/tools"
	"github.com/quantfold/scout/pkg/security/workspace"
)

// ListFilesTool lists files and directories with optional recursion and
// glob pattern filtering.
type ListFilesTool struct {
	guard *workspace.Guard
}

// NewListFilesTool creates a new ListFilesTool with workspace security.
func NewListFilesTool(guard *workspace.Guard) *ListFilesTool {
	return &ListFilesTool{
		guard: guard,
	}
}

// Name returns the tool name.
func (t *ListFilesTool) Name() string {
	return "list_files"
}

// Description returns the tool description.
func (t *ListFilesTool) Description() string {
	return "List files and directories in a specified path. Supports recursive listing and glob pattern filtering."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ListFilesTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Directory path to list (relative to workspace, defaults to workspace root)",
			},
			"recursive": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to list files recursively (default: false)",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Optional glob pattern to filter files (e.g., '*.go', 'skill.yaml')",
			},
		},
		[]string{},
	)
}

// Execute lists files in the specified directory.
func (t *ListFilesTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName   xml.Name `xml:"arguments"`
		Path      string   `xml:"path"`
		Recursive bool     `xml:"recursive"`
		Pattern   string   `xml:"pattern"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.Path == "" {
		input.Path = "."
	}

	if err := t.guard.ValidatePath(input.Path); err != nil {
		return "", nil, fmt.Errorf("invalid path: %w", err)
	}

	absPath, err := t.guard.ResolvePath(input.Path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("path is not a directory: %s", input.Path)
	}

	var entries []fileEntry
	if input.Recursive {
		entries, err = t.listRecursive(absPath, input.Pattern)
	} else {
		entries, err = t.listDirectory(absPath, input.Pattern)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to list files: %w", err)
	}

	metadata := map[string]interface{}{
		"path":       input.Path,
		"recursive":  input.Recursive,
		"file_count": len(entries),
	}
	if input.Pattern != "" {
		metadata["pattern"] = input.Pattern
	}

	return t.formatEntries(entries), metadata, nil
}

// fileEntry represents a file or directory entry.
type fileEntry struct {
	Path  string
	IsDir bool
	Size  int64
}

// listDirectory lists files in a single directory (non-recursive).
func (t *ListFilesTool) listDirectory(dirPath string, pattern string) ([]fileEntry, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var result []fileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		if t.guard.IsDenied(fullPath) {
			continue
		}

		if pattern != "" {
			matched, err := filepath.Match(pattern, entry.Name())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern: %w", err)
			}
			if !matched {
				continue
			}
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		result = append(result, fileEntry{
			Path:  fullPath,
			IsDir: entry.IsDir(),
			Size:  info.Size(),
		})
	}

	return result, nil
}

// listRecursive lists files recursively, skipping denied subtrees.
func (t *ListFilesTool) listRecursive(rootPath string, pattern string) ([]fileEntry, error) {
	var result []fileEntry

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if path == rootPath {
			return nil
		}

		if t.guard.IsDenied(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if pattern != "" && !info.IsDir() {
			matched, err := filepath.Match(pattern, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		result = append(result, fileEntry{
			Path:  path,
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})

		return nil
	})

	return result, err
}

// formatEntries formats file entries into a readable listing, directories
// first then files, both sorted by path.
func (t *ListFilesTool) formatEntries(entries []fileEntry) string {
	if len(entries) == 0 {
		return "No files found"
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Path < entries[j].Path
	})

	var builder strings.Builder
	var totalFiles, totalDirs int

	for _, entry := range entries {
		relPath, err := t.guard.MakeRelative(entry.Path)
		if err != nil {
			relPath = filepath.Base(entry.Path)
		}

		if entry.IsDir {
			fmt.Fprintf(&builder, "%s/\n", relPath)
			totalDirs++
		} else {
			fmt.Fprintf(&builder, "%s (%s)\n", relPath, formatFileSize(entry.Size))
			totalFiles++
		}
	}

	fmt.Fprintf(&builder, "\n%d directories, %d files\n", totalDirs, totalFiles)
	return builder.String()
}

// formatFileSize renders a byte count in human-readable units.
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
