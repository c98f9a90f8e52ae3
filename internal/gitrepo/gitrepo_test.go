package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// git runs a git command in dir, failing the test on error.
func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// initRepo creates a throwaway repository with one commit on a feature
// branch and returns its path and the commit SHA.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git(t, dir, "init")
	git(t, dir, "config", "user.email", "test@example.com")
	git(t, dir, "config", "user.name", "test")
	git(t, dir, "checkout", "-b", "feature/login")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	// Content kept dissimilar from anything the tests add later, so a
	// staged delete stays a delete instead of collapsing into a rename.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.go"),
		[]byte("package main\n\nfunc legacySum(a, b int) int {\n\tc := a + b\n\tc *= 2\n\treturn c\n}\n"), 0o644))
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "initial")

	base := strings.TrimSpace(git(t, dir, "rev-parse", "HEAD"))
	return dir, base
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("valid repository", func(t *testing.T) {
		dir, _ := initRepo(t)
		repo, err := Open(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, dir, repo.Path())
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Open(ctx, filepath.Join(t.TempDir(), "missing"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("path that is not a repository", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		_, err := Open(ctx, t.TempDir())
		assert.ErrorIs(t, err, ErrNotRepository)
	})
}

func TestCurrentBranch(t *testing.T) {
	ctx := context.Background()
	dir, base := initRepo(t)
	repo, err := Open(ctx, dir)
	require.NoError(t, err)

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature/login", branch)

	t.Run("detached HEAD is an error", func(t *testing.T) {
		git(t, dir, "checkout", "--detach", base)
		_, err := repo.CurrentBranch(ctx)
		assert.ErrorContains(t, err, "detached")
	})
}

func TestOriginURL(t *testing.T) {
	ctx := context.Background()
	dir, _ := initRepo(t)
	repo, err := Open(ctx, dir)
	require.NoError(t, err)

	t.Run("no origin remote", func(t *testing.T) {
		_, err := repo.OriginURL(ctx)
		assert.Error(t, err)
	})

	t.Run("origin remote URL", func(t *testing.T) {
		git(t, dir, "remote", "add", "origin", "git@gitlab.example.com:team/myproj.git")
		url, err := repo.OriginURL(ctx)
		require.NoError(t, err)
		assert.Equal(t, "git@gitlab.example.com:team/myproj.git", url)
	})
}

func TestNameStatusDiff(t *testing.T) {
	ctx := context.Background()
	dir, base := initRepo(t)
	repo, err := Open(ctx, dir)
	require.NoError(t, err)

	t.Run("clean tree yields no entries", func(t *testing.T) {
		entries, err := repo.NameStatusDiff(ctx, base)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	// Unstaged edit, staged new file and staged deletion: all three must
	// show up against the base commit.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.go"), []byte("package main\n\nvar banner = \"hello\"\n"), 0o644))
	git(t, dir, "add", "new.go")
	git(t, dir, "rm", "--quiet", "old.go")

	entries, err := repo.NameStatusDiff(ctx, base)
	require.NoError(t, err)

	byPath := map[string]string{}
	for _, e := range entries {
		byPath[e.Path] = e.Code
	}
	assert.Equal(t, "M", byPath["main.go"])
	assert.Equal(t, "A", byPath["new.go"])
	assert.Equal(t, "D", byPath["old.go"])

	t.Run("unknown base commit is an error", func(t *testing.T) {
		_, err := repo.NameStatusDiff(ctx, "0000000000000000000000000000000000000000")
		assert.Error(t, err)
	})
}

func TestNameStatusDiffRename(t *testing.T) {
	ctx := context.Background()
	dir, base := initRepo(t)
	repo, err := Open(ctx, dir)
	require.NoError(t, err)

	// An unchanged file under a new name is detected as a rename; the
	// entry must carry the new path, which is what FileDiff operates on.
	git(t, dir, "mv", "old.go", "moved.go")

	entries, err := repo.NameStatusDiff(ctx, base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Code, "R"), "code %q", entries[0].Code)
	assert.Equal(t, "moved.go", entries[0].Path)
}

func TestFileDiff(t *testing.T) {
	ctx := context.Background()
	dir, base := initRepo(t)
	repo, err := Open(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	diff, err := repo.FileDiff(ctx, base, "main.go")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/main.go")
	assert.Contains(t, diff, "+++ b/main.go")
	assert.Contains(t, diff, "+func main() {}")
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@gitlab.example.com:team/myproj.git", "myproj"},
		{"https://gitlab.example.com/team/sub/myproj.git", "myproj"},
		{"https://gitlab.example.com/team/myproj", "myproj"},
		{"ssh://git@gitlab.example.com/team/myproj.git", "myproj"},
		{"myproj", "myproj"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectName(tt.url), "url %q", tt.url)
	}
}
