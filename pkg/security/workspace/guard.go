// Package workspace provides security mechanisms for enforcing workspace
// boundaries on file system operations. It prevents path traversal attacks
// and ensures all operations stay within the designated working directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultDenyPatterns are always refused regardless of location inside the
// workspace. Credentials and VCS internals have no business in tool output.
var defaultDenyPatterns = []string{
	".git/**",
	"**/.env",
	"**/.env.*",
	"**/id_rsa*",
	"**/*.pem",
}

// Guard enforces workspace boundary restrictions on file paths.
// It validates that all file operations remain within the workspace
// directory, preventing path traversal attacks and unauthorized file access.
type Guard struct {
	workspaceDir string
	denied       []glob.Glob
}

// NewGuard creates a new workspace guard for the given directory.
// The directory path is converted to an absolute path, cleaned, and
// symlinks are evaluated. Extra deny patterns extend the built-in set.
func NewGuard(workspaceDir string, denyPatterns ...string) (*Guard, error) {
	if workspaceDir == "" {
		return nil, fmt.Errorf("workspace directory cannot be empty")
	}

	absPath, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate workspace directory symlinks: %w", err)
	}

	patterns := append(append([]string{}, defaultDenyPatterns...), denyPatterns...)
	denied := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid deny pattern %q: %w", pattern, err)
		}
		denied = append(denied, compiled)
	}

	return &Guard{
		workspaceDir: evalPath,
		denied:       denied,
	}, nil
}

// WorkspaceDir returns the absolute workspace root.
func (g *Guard) WorkspaceDir() string {
	return g.workspaceDir
}

// ValidatePath checks if the given path is within the workspace boundaries
// and not matched by a deny pattern.
func (g *Guard) ValidatePath(path string) error {
	resolved, err := g.ResolvePath(path)
	if err != nil {
		return err
	}

	if !g.isWithinWorkspace(resolved) {
		return fmt.Errorf("path %q is outside workspace boundaries", path)
	}

	rel, err := filepath.Rel(g.workspaceDir, resolved)
	if err != nil {
		return fmt.Errorf("failed to relativize path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range g.denied {
		if pattern.Match(rel) {
			return fmt.Errorf("path %q is denied by workspace policy", path)
		}
	}

	return nil
}

// ResolvePath converts a relative or absolute path to an absolute path
// within the workspace context. It cleans the path and resolves symbolic
// links where the target exists; for not-yet-existing files the parent is
// resolved instead so writes can be validated.
func (g *Guard) ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	var absPath string
	if filepath.IsAbs(cleanPath) {
		absPath = cleanPath
	} else {
		absPath = filepath.Join(g.workspaceDir, cleanPath)
	}
	absPath = filepath.Clean(absPath)

	evalPath, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return evalPath, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	// The file does not exist yet; validate through the nearest existing
	// parent so symlinked escapes are still caught.
	parent := filepath.Dir(absPath)
	evalParent, parentErr := filepath.EvalSymlinks(parent)
	if parentErr != nil {
		if os.IsNotExist(parentErr) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to resolve parent directory: %w", parentErr)
	}
	return filepath.Join(evalParent, filepath.Base(absPath)), nil
}

// MakeRelative converts an absolute path to one relative to the workspace
// root, for display purposes.
func (g *Guard) MakeRelative(absPath string) (string, error) {
	rel, err := filepath.Rel(g.workspaceDir, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize path: %w", err)
	}
	return rel, nil
}

// IsDenied reports whether an absolute path inside the workspace matches a
// deny pattern. Used by directory walks to skip denied subtrees.
func (g *Guard) IsDenied(absPath string) bool {
	rel, err := filepath.Rel(g.workspaceDir, absPath)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range g.denied {
		// The second check lets directory patterns like ".git/**" match
		// the directory itself so walks can skip the whole subtree.
		if pattern.Match(rel) || pattern.Match(rel+"/") {
			return true
		}
	}
	return false
}

// isWithinWorkspace reports whether an absolute path is the workspace root
// or one of its descendants.
func (g *Guard) isWithinWorkspace(absPath string) bool {
	if absPath == g.workspaceDir {
		return true
	}
	return strings.HasPrefix(absPath, g.workspaceDir+string(filepath.Separator))
}
