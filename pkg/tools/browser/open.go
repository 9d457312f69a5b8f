package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// OpenTool opens a URL in a new page and makes it the active page.
type OpenTool struct {
	manager *Manager
}

// NewOpenTool creates a new open tool.
func NewOpenTool(manager *Manager) *OpenTool {
	return &OpenTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *OpenTool) Name() string {
	return "browser_open"
}

// Description returns the tool description.
func (t *OpenTool) Description() string {
	return "Open a URL in a new browser page within the same session and make it the active page. Previously opened pages remain open."
}

// Schema returns the tool's JSON schema.
func (t *OpenTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to open (must include protocol, e.g., https://example.com)",
			},
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		[]string{"url"},
	)
}

// Execute opens the URL in a new page.
func (t *OpenTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
		Session string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("open", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Open(input.URL)
	return session.Envelope("open", payload, err), nil, nil
}
