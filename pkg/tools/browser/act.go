package browser

import (
	"context"
	"encoding/xml"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// ActTool dispatches one interaction (click, type, press, hover, scroll,
// wait) against the active page.
type ActTool struct {
	manager *Manager
}

// NewActTool creates a new act tool.
func NewActTool(manager *Manager) *ActTool {
	return &ActTool{
		manager: manager,
	}
}

// Name returns the tool name.
func (t *ActTool) Name() string {
	return "browser_act"
}

// Description returns the tool description.
func (t *ActTool) Description() string {
	return "Perform one interaction on the active page. Kinds: click (ref), type (ref, text), press (key), hover (ref), scroll (direction up/down), wait (time_ms). Refs come from the most recent browser_snapshot."
}

// Schema returns the tool's JSON schema.
func (t *ActTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "Interaction kind: click, type, press, hover, scroll, or wait",
			},
			"ref": map[string]interface{}{
				"type":        "string",
				"description": "Element ref from the latest snapshot (required for click, type, hover)",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text for type; the target's existing content is cleared",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Key to send for press (e.g. Enter, Escape, ArrowDown)",
			},
			"direction": map[string]interface{}{
				"type":        "string",
				"description": "Scroll direction: up or down (default down)",
			},
			"time_ms": map[string]interface{}{
				"type":        "integer",
				"description": "Pause duration for wait in milliseconds (default 2000, max 10000)",
			},
			"session": map[string]interface{}{
				"type":        "string",
				"description": "Optional session id; omit to use the default session",
			},
		},
		[]string{"kind"},
	)
}

// Execute performs the requested interaction.
func (t *ActTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName   xml.Name `xml:"arguments"`
		Kind      string   `xml:"kind"`
		Ref       string   `xml:"ref"`
		Text      string   `xml:"text"`
		Key       string   `xml:"key"`
		Direction string   `xml:"direction"`
		TimeMs    int      `xml:"time_ms"`
		Session   string   `xml:"session"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return ErrorEnvelope("act", err), nil, nil
	}
	session := t.manager.Session(input.Session)

	payload, err := session.Act(ActionRequest{
		Kind:      input.Kind,
		Ref:       input.Ref,
		Text:      input.Text,
		Key:       input.Key,
		Direction: input.Direction,
		TimeMs:    input.TimeMs,
	})
	return session.Envelope("act", payload, err), nil, nil
}
