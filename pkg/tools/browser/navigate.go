package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// NavigateTool loads a URL in the session's active page.
type NavigateTool struct {
	manager *Manager
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(manager *Manager) *NavigateTool {
	return &NavigateTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "browser_navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate the active browser page to a URL. Launches the browser on first use. Returns the page's url and title only; use browser_snapshot to inspect content."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to (must include protocol, e.g., https://example.com)",
			},
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		[]string{"url"},
	)
}

// Execute navigates to a URL. All outcomes, including validation failures,
// are returned as a structured result envelope.
func (t *NavigateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
		Session string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("navigate", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Navigate(input.URL)
	return session.Envelope("navigate", payload, err), nil, nil
}
