package skills

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// SkillTool surfaces one discovered skill through the tool registry. It is
// description-only: the manifest description is what the agent sees in the
// tool listing, and executing it returns the skill's instruction file.
type SkillTool struct {
	skill *Skill
}

// NewSkillTool wraps a discovered skill as a registry entry.
func NewSkillTool(skill *Skill) *SkillTool {
	return &SkillTool{
		skill: skill,
	}
}

// Name returns the tool name, derived from the skill name.
func (t *SkillTool) Name() string {
	return "skill_" + strings.ReplaceAll(t.skill.Name, "-", "_")
}

// Description returns the manifest description.
func (t *SkillTool) Description() string {
	return t.skill.Description + " (skill: executing this returns the full instructions)"
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *SkillTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, []string{})
}

// Execute returns the skill's instruction file contents.
func (t *SkillTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	content, err := os.ReadFile(t.skill.InstructionPath())
	if err != nil {
		return "", nil, fmt.Errorf("failed to read skill instructions: %w", err)
	}

	metadata := map[string]interface{}{
		"skill": t.skill.Name,
	}
	return string(content), metadata, nil
}

// RegisterTools wraps every discovered skill under dir as a registry entry.
// A missing skills directory yields no tools.
func RegisterTools(dir string) ([]tools.Tool, error) {
	discovered, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	registered := make([]tools.Tool, 0, len(discovered))
	for _, skill := range discovered {
		registered = append(registered, NewSkillTool(skill))
	}
	return registered, nil
}
