package browser

import (
	"github.com/quantfold/scout/pkg/agent/tools"
)

// RegisterTools creates all browser tools backed by the given session
// manager.
func RegisterTools(manager *Manager) []tools.Tool {
	return []tools.Tool{
		NewNavigateTool(manager),
		NewOpenTool(manager),
		NewSnapshotTool(manager),
		NewActTool(manager),
		NewReadTool(manager),
		NewCloseTool(manager),
	}
}
