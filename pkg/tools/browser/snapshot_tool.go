package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// SnapshotTool captures the accessibility tree of the active page and
// rebuilds the session's ref table.
type SnapshotTool struct {
	manager *Manager
}

// NewSnapshotTool creates a new snapshot tool.
func NewSnapshotTool(manager *Manager) *SnapshotTool {
	return &SnapshotTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *SnapshotTool) Name() string {
	return "browser_snapshot"
}

// Description returns the tool description.
func (t *SnapshotTool) Description() string {
	return "Capture an accessibility-tree snapshot of the active page. Interactive elements are annotated with refs (e.g. [ref=e7]) that browser_act accepts. Each snapshot replaces the previous ref table."
}

// Schema returns the tool's JSON schema.
func (t *SnapshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"max_chars": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum snapshot length in characters; larger trees are truncated (default 50000)",
			},
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		nil,
	)
}

// Execute captures a snapshot.
func (t *SnapshotTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		MaxChars int      `xml:"max_chars"`
		Session  string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("snapshot", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Snapshot(input.MaxChars)
	return session.Envelope("snapshot", payload, err), nil, nil
}
