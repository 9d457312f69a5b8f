package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// ReadTool extracts the visible text of the active page's main content
// region, independent of the ref mechanism.
type ReadTool struct {
	manager *Manager
}

// NewReadTool creates a new read tool.
func NewReadTool(manager *Manager) *ReadTool {
	return &ReadTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *ReadTool) Name() string {
	return "browser_read"
}

// Description returns the tool description.
func (t *ReadTool) Description() string {
	return "Extract the readable content of the active page. Prefers the main content region (main, article, ...) and falls back to the whole body. Format 'text' returns visible text; 'html' returns cleaned markup."
}

// Schema returns the tool's JSON schema.
func (t *ReadTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Output format: text (default) or html",
			},
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		nil,
	)
}

// Execute extracts page content.
func (t *ReadTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Format  string   `xml:"format"`
		Session string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("read", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Read(input.Format)
	return session.Envelope("read", payload, err), nil, nil
}
