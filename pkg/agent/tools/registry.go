package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the set of tools available to the agent and assembles
// the tool descriptions presented in the system prompt.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Registering a tool with a name
// that is already present returns an error rather than silently replacing it.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Tool, 0, len(names))
	for _, name := range names {
		list = append(list, r.tools[name])
	}
	return list
}

// DescribeAll assembles the full tool description block for the system
// prompt: one section per tool with its description and parameter schema.
func (r *Registry) DescribeAll() string {
	list := r.List()
	if len(list) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("## Available Tools\n\n")

	for _, tool := range list {
		builder.WriteString(fmt.Sprintf("### %s\n\n%s\n", tool.Name(), tool.Description()))

		if schema := tool.Schema(); schema != nil {
			encoded, err := json.MarshalIndent(schema, "", "  ")
			if err == nil {
				builder.WriteString("\nParameters:\n```json\n")
				builder.Write(encoded)
				builder.WriteString("\n```\n")
			}
		}
		builder.WriteString("\n")
	}

	return strings.TrimRight(builder.String(), "\n") + "\n"
}
