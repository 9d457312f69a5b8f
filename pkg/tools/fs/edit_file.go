package fs

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/quantfold/scout/pkg/agent/tools"
	"github.com/quantfold/scout/pkg/security/workspace"
)

// EditFileTool performs exact search-and-replace edits on a file.
type EditFileTool struct {
	guard *workspace.Guard
}

// NewEditFileTool creates a new EditFileTool with workspace security.
func NewEditFileTool(guard *workspace.Guard) *EditFileTool {
	return &EditFileTool{
		guard: guard,
	}
}

// Name returns the tool name.
func (t *EditFileTool) Name() string {
	return "edit_file"
}

// Description returns the tool description.
func (t *EditFileTool) Description() string {
	return "Edit a file by replacing an exact text match. The search text must appear exactly once unless replace_all is set."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *EditFileTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to edit (relative to workspace)",
			},
			"search": map[string]interface{}{
				"type":        "string",
				"description": "Exact text to find in the file",
			},
			"replace": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text",
			},
			"replace_all": map[string]interface{}{
				"type":        "boolean",
				"description": "Replace every occurrence instead of requiring a unique match",
			},
		},
		[]string{"path", "search", "replace"},
	)
}

// Execute applies the edit.
func (t *EditFileTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName    xml.Name `xml:"arguments"`
		Path       string   `xml:"path"`
		Search     string   `xml:"search"`
		Replace    string   `xml:"replace"`
		ReplaceAll bool     `xml:"replace_all"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.Path == "" {
		return "", nil, fmt.Errorf("missing required parameter: path")
	}
	if input.Search == "" {
		return "", nil, fmt.Errorf("missing required parameter: search")
	}

	if err := t.guard.ValidatePath(input.Path); err != nil {
		return "", nil, fmt.Errorf("invalid path: %w", err)
	}

	absPath, err := t.guard.ResolvePath(input.Path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	content := string(data)

	count := strings.Count(content, input.Search)
	if count == 0 {
		return "", nil, fmt.Errorf("search text not found in %s", input.Path)
	}
	if count > 1 && !input.ReplaceAll {
		return "", nil, fmt.Errorf("search text appears %d times in %s; provide more context or set replace_all", count, input.Path)
	}

	replaced := count
	if input.ReplaceAll {
		content = strings.ReplaceAll(content, input.Search, input.Replace)
	} else {
		content = strings.Replace(content, input.Search, input.Replace, 1)
		replaced = 1
	}

	if err := os.WriteFile(absPath, []byte(content), 0600); err != nil {
		return "", nil, fmt.Errorf("failed to write file: %w", err)
	}

	metadata := map[string]interface{}{
		"path":         input.Path,
		"replacements": replaced,
	}

	return fmt.Sprintf("Applied %d replacement(s) in %s", replaced, input.Path), metadata, nil
}
