package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T, patterns ...string) (*Guard, string) {
	t.Helper()
	dir := t.TempDir()
	guard, err := NewGuard(dir, patterns...)
	require.NoError(t, err)
	return guard, guard.WorkspaceDir()
}

func TestGuardAcceptsWorkspacePaths(t *testing.T) {
	guard, dir := newTestGuard(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600))

	assert.NoError(t, guard.ValidatePath("notes.txt"))
	assert.NoError(t, guard.ValidatePath(filepath.Join(dir, "notes.txt")))
	assert.NoError(t, guard.ValidatePath("sub/dir/new-file.txt"))
}

func TestGuardRejectsTraversal(t *testing.T) {
	guard, _ := newTestGuard(t)

	assert.Error(t, guard.ValidatePath("../outside.txt"))
	assert.Error(t, guard.ValidatePath("../../etc/passwd"))
	assert.Error(t, guard.ValidatePath("/etc/passwd"))
	assert.Error(t, guard.ValidatePath("sub/../../escape.txt"))
}

func TestGuardRejectsEmptyPath(t *testing.T) {
	guard, _ := newTestGuard(t)
	assert.Error(t, guard.ValidatePath(""))

	_, err := NewGuard("")
	assert.Error(t, err)
}

func TestGuardDenyPatterns(t *testing.T) {
	guard, dir := newTestGuard(t, "secrets/**")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte(""), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "secrets"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secrets", "token"), []byte(""), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(""), 0600))

	assert.Error(t, guard.ValidatePath(".git/config"))
	assert.Error(t, guard.ValidatePath(".env"))
	assert.Error(t, guard.ValidatePath("secrets/token"))
	assert.NoError(t, guard.ValidatePath("README.md"))
}

func TestGuardRejectsSymlinkEscape(t *testing.T) {
	guard, dir := newTestGuard(t)
	outside := t.TempDir()

	link := filepath.Join(dir, "escape")
	require.NoError(t, os.Symlink(outside, link))

	assert.Error(t, guard.ValidatePath("escape/file.txt"))
}
