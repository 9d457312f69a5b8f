// Package fs implements Scout's sandboxed filesystem tools. Every path is
// validated through the workspace guard before any disk access.
package fs

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantfold/scout/pkg/agent/tools"
	"github.com/quantfold/scout/pkg/security/workspace"
)

// ReadFileTool reads file contents with optional line range support.
type ReadFileTool struct {
	guard *workspace.Guard
}

// NewReadFileTool creates a new ReadFileTool with workspace security.
func NewReadFileTool(guard *workspace.Guard) *ReadFileTool {
	return &ReadFileTool{
		guard: guard,
	}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return "read_file"
}

// Description returns the tool description.
func (t *ReadFileTool) Description() string {
	return "Read the contents of a file with optional line range support. Returns line-numbered content for easy reference."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ReadFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to read (relative to workspace)",
			},
			"start_line": map[string]interface{}{
				"type":        "integer",
				"description": "Optional starting line number (1-based, inclusive)",
			},
			"end_line": map[string]interface{}{
				"type":        "integer",
				"description": "Optional ending line number (1-based, inclusive)",
			},
		},
		[]string{"path"},
	)
}

// Execute reads the file and returns its contents.
func (t *ReadFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName   xml.Name `xml:"arguments"`
		Path      string   `xml:"path"`
		StartLine int      `xml:"start_line"`
		EndLine   int      `xml:"end_line"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.Path == "" {
		return "", nil, fmt.Errorf("missing required parameter: path")
	}

	if err := t.guard.ValidatePath(input.Path); err != nil {
		return "", nil, fmt.Errorf("invalid path: %w", err)
	}

	absPath, err := t.guard.ResolvePath(input.Path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	content, err := readFileWithLineNumbers(absPath, input.StartLine, input.EndLine)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	metadata := map[string]interface{}{
		"path": input.Path,
	}
	if input.StartLine > 0 {
		metadata["start_line"] = input.StartLine
	}
	if input.EndLine > 0 {
		metadata["end_line"] = input.EndLine
	}

	if info, statErr := os.Stat(absPath); statErr == nil {
		metadata["size_bytes"] = info.Size()
		metadata["modified"] = info.ModTime().Format(time.RFC3339)
	}

	return content, metadata, nil
}

// readFileWithLineNumbers reads a file and prefixes each line with its
// 1-based line number, optionally restricted to [startLine, endLine].
func readFileWithLineNumbers(path string, startLine, endLine int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var builder strings.Builder
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if startLine > 0 && lineNum < startLine {
			continue
		}
		if endLine > 0 && lineNum > endLine {
			break
		}
		fmt.Fprintf(&builder, "%d | %s\n", lineNum, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	if builder.Len() == 0 && startLine > 0 {
		return "", fmt.Errorf("no lines in range %d-%d", startLine, endLine)
	}

	return builder.String(), nil
}
