package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// CloseTool tears down a browser session and releases its resources.
type CloseTool struct {
	manager *Manager
}

// NewCloseTool creates a new close tool.
func NewCloseTool(manager *Manager) *CloseTool {
	return &CloseTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *CloseTool) Name() string {
	return "browser_close"
}

// Description returns the tool description.
func (t *CloseTool) Description() string {
	return "Close the browser session, releasing the browser and all of its pages. Closing an already-closed session succeeds."
}

// Schema returns the tool's JSON schema.
func (t *CloseTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		nil,
	)
}

// Execute closes the session.
func (t *CloseTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Session string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("close", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Close()
	return session.Envelope("close", payload, err), nil, nil
}
