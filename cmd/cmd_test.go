package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glrev/glrev/internal/config"
	"github.com/glrev/glrev/internal/mcp"
)

// runGlrev executes the root command in-process with args, capturing
// what the command printed.
func runGlrev(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	orig := out
	out = &buf
	t.Cleanup(func() { out = orig })

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// clearEnv removes every recognised variable so the developer's shell
// cannot leak configuration into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{config.EnvRepoPath, config.EnvURL, config.EnvProject, config.EnvToken} {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

// initGitRepo creates a throwaway git repository on a named branch,
// skipping the test when git is unavailable.
func initGitRepo(t *testing.T, branch string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
		{"checkout", "-b", branch},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme\n"), 0o644))
	cmd := exec.Command("git", "-C", dir, "add", ".")
	require.NoError(t, cmd.Run())
	cmd = exec.Command("git", "-C", dir, "commit", "-m", "initial")
	require.NoError(t, cmd.Run())
	return dir
}

func TestVersionCommand(t *testing.T) {
	clearEnv(t)
	got, err := runGlrev(t, "version")
	require.NoError(t, err)
	assert.Contains(t, got, "glrev "+mcp.Version)
}

func TestUnknownCommand(t *testing.T) {
	clearEnv(t)
	_, err := runGlrev(t, "bogus")
	assert.ErrorContains(t, err, "unknown command")
}

func TestBranchCommand(t *testing.T) {
	t.Run("missing repo path names the variable", func(t *testing.T) {
		clearEnv(t)
		_, err := runGlrev(t, "branch")
		assert.ErrorContains(t, err, config.EnvRepoPath)
	})

	t.Run("prints the current branch", func(t *testing.T) {
		clearEnv(t)
		dir := initGitRepo(t, "feature/login")
		t.Setenv(config.EnvRepoPath, dir)

		got, err := runGlrev(t, "branch")
		require.NoError(t, err)
		assert.Equal(t, "feature/login\n", got)
	})
}

func TestReportCommandsValidateConfig(t *testing.T) {
	// Each report command must fail on the first missing setting before
	// any network access is attempted.
	for _, name := range []string{"failed-jobs", "review-changes", "review-comments", "mr-id"} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(config.EnvRepoPath, t.TempDir())

			_, err := runGlrev(t, name)
			assert.ErrorContains(t, err, config.EnvURL)
		})
	}
}
