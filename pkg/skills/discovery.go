// Package skills discovers reusable skill definitions from the skills
// directory. A skill is a directory containing a skill.yaml manifest plus
// any supporting files; each discovered skill is surfaced through the tool
// registry so the agent can read its instructions on demand.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Skill represents a discovered skill and its manifest.
type Skill struct {
	Name        string `yaml:"name"`        // Skill identifier (matches directory name)
	Description string `yaml:"description"` // One-line summary shown in listings
	Instruction string `yaml:"instruction"` // Entry file with the full instructions (default SKILL.md)
	Dir         string `yaml:"-"`           // Absolute path to the skill directory
}

// Validate checks if the manifest is usable.
func (s *Skill) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("skill name cannot be empty")
	}
	if s.Description == "" {
		return fmt.Errorf("skill description cannot be empty")
	}
	return nil
}

// InstructionPath returns the absolute path to the skill's instruction file.
func (s *Skill) InstructionPath() string {
	instruction := s.Instruction
	if instruction == "" {
		instruction = "SKILL.md"
	}
	return filepath.Join(s.Dir, instruction)
}

// LoadManifest reads and parses a skill.yaml file.
func LoadManifest(path string) (*Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var skill Skill
	if err := yaml.Unmarshal(data, &skill); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := skill.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	skill.Dir = filepath.Dir(path)
	return &skill, nil
}

// Discover scans dir for subdirectories containing a skill.yaml manifest
// and returns the valid skills sorted by name. A missing skills directory
// is not an error; directories with broken manifests are skipped.
func Discover(dir string) ([]*Skill, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read skills directory: %w", err)
	}

	var skills []*Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifestPath := filepath.Join(dir, entry.Name(), "skill.yaml")
		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}
		skill, err := LoadManifest(manifestPath)
		if err != nil {
			continue
		}
		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Name < skills[j].Name
	})

	return skills, nil
}
