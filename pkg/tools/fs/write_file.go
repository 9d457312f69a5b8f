package fs

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantfold/scout/pkg/agent/tools"
	"github.com/quantfold/scout/pkg/security/workspace"
)

// WriteFileTool creates or overwrites files with workspace validation.
type WriteFileTool struct {
	guard *workspace.Guard
}

// NewWriteFileTool creates a new WriteFileTool with workspace security.
func NewWriteFileTool(guard *workspace.Guard) *WriteFileTool {
	return &WriteFileTool{
		guard: guard,
	}
}

// Name returns the tool name.
func (t *WriteFileTool) Name() string {
	return "write_file"
}

// Description returns the tool description.
func (t *WriteFileTool) Description() string {
	return "Write content to a file, creating it if it doesn't exist or overwriting if it does. Automatically creates parent directories as needed."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *WriteFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to write (relative to workspace)",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to write to the file",
			},
		},
		[]string{"path", "content"},
	)
}

// Execute writes content to the specified file.
func (t *WriteFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Path    string   `xml:"path"`
		Content string   `xml:"content"`
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

	if err := os.MkdirAll(filepath.Dir(absPath), 0750); err != nil {
		return "", nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	existed := false
	if _, statErr := os.Stat(absPath); statErr == nil {
		existed = true
	}

	if err := os.WriteFile(absPath, []byte(input.Content), 0600); err != nil {
		return "", nil, fmt.Errorf("failed to write file: %w", err)
	}

	verb := "created"
	if existed {
		verb = "overwritten"
	}

	lineCount := strings.Count(input.Content, "\n")
	if len(input.Content) > 0 && !strings.HasSuffix(input.Content, "\n") {
		lineCount++
	}

	metadata := map[string]interface{}{
		"path":        input.Path,
		"size_bytes":  len(input.Content),
		"line_count":  lineCount,
		"overwritten": existed,
	}

	return fmt.Sprintf("File %s %s (%d bytes, %d lines)", input.Path, verb, len(input.Content), lineCount), metadata, nil
}
