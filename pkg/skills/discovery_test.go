package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, name, manifest string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "skill.yaml"), []byte(manifest), 0644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "chart-analysis", `
name: chart-analysis
description: Analyze price charts for common patterns
`)
	writeSkill(t, dir, "earnings-review", `
name: earnings-review
description: Summarize quarterly earnings reports
instruction: INSTRUCTIONS.md
`)

	skills, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, skills, 2)

	assert.Equal(t, "chart-analysis", skills[0].Name)
	assert.Equal(t, "earnings-review", skills[1].Name)
	assert.Equal(t, filepath.Join(dir, "earnings-review", "INSTRUCTIONS.md"), skills[1].InstructionPath())
	assert.Equal(t, filepath.Join(dir, "chart-analysis", "SKILL.md"), skills[0].InstructionPath())
}

func TestDiscoverMissingDir(t *testing.T) {
	skills, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestDiscoverSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "good", "name: good\ndescription: A working skill\n")
	writeSkill(t, dir, "no-description", "name: no-description\n")
	writeSkill(t, dir, "broken-yaml", "name: [unclosed\n")

	// Directories without manifests and plain files are ignored too.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	skills, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "good", skills[0].Name)
}

func TestLoadManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: missing name\n"), 0644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name cannot be empty")
}

func TestSkillTool(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "chart-analysis", `
name: chart-analysis
description: Analyze price charts for common patterns
`)
	instructions := "# Chart analysis\n\nLook for head-and-shoulders first.\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "chart-analysis", "SKILL.md"), []byte(instructions), 0644))

	registered, err := RegisterTools(dir)
	require.NoError(t, err)
	require.Len(t, registered, 1)

	tool := registered[0]
	assert.Equal(t, "skill_chart_analysis", tool.Name())
	assert.Contains(t, tool.Description(), "Analyze price charts for common patterns")

	result, metadata, err := tool.Execute(context.Background(), []byte("<arguments></arguments>"))
	require.NoError(t, err)
	assert.Equal(t, instructions, result)
	assert.Equal(t, "chart-analysis", metadata["skill"])
}

func TestSkillToolMissingInstructions(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "bare", "name: bare\ndescription: No instruction file\n")

	registered, err := RegisterTools(dir)
	require.NoError(t, err)
	require.Len(t, registered, 1)

	_, _, err = registered[0].Execute(context.Background(), []byte("<arguments></arguments>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill instructions")
}

func TestRegisterToolsMissingDir(t *testing.T) {
	registered, err := RegisterTools(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, registered)
}
