package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/app"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/hostsfile"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/services/auth"
)

// runCLI executes one CLI invocation the way main does, on a fresh command
// tree so flag state never leaks between invocations.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := app.NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

// TestE2E_SyncAndStatus drives the real command tree against a temp hosts
// file: sync applies the default block set, a second sync is a byte-for-byte
// no-op, and disabling a group removes its entries along with stale hand
// edits.
func TestE2E_SyncAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	dir := t.TempDir()
	hostsPath := filepath.Join(dir, "hosts")
	// A stale untagged block line from a hand edit sits above the region.
	seed := "# local names\n127.0.0.1 localhost\n127.0.0.1 facebook.com\n"
	require.NoError(t, os.WriteFile(hostsPath, []byte(seed), 0o644))

	t.Setenv("DEEPFOCUS_HOSTS_PATH", hostsPath)
	t.Setenv("DEEPFOCUS_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("DEEPFOCUS_STATE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("DEEPFOCUS_FLUSH_DNS", "false")
	t.Setenv("DEEPFOCUS_LOG_LEVEL", "error") // Reduce noise

	require.NoError(t, runCLI(t, "sync"))

	data, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, hostsfile.BeginMarker)
	assert.Contains(t, out, hostsfile.EndMarker)
	assert.Contains(t, out, "127.0.0.1 facebook.com  # facebook")
	assert.Contains(t, out, "127.0.0.1 fb.com  # facebook")
	assert.Contains(t, out, "127.0.0.1 localhost", "pass-through lost")
	assert.Equal(t, 1, strings.Count(out, "127.0.0.1 facebook.com"),
		"stale untagged line must be absorbed, not duplicated")

	// Second sync must not change the file.
	require.NoError(t, runCLI(t, "sync"))
	again, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Equal(t, out, string(again), "second sync must be a no-op")

	require.NoError(t, runCLI(t, "status"))
	require.NoError(t, runCLI(t, "check", "facebook.com"))

	// Disabling the group removes its entries, including the absorbed stale
	// line. The fresh install is gated by the seeded default password.
	require.Error(t, runCLI(t, "disable", "facebook", "-p", "wrong"))
	require.NoError(t, runCLI(t, "disable", "facebook", "-p", auth.DefaultPassword))

	data, err = os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "facebook.com", "disabled group still blocked")
	assert.Contains(t, string(data), "127.0.0.1 localhost", "pass-through lost")
}

func TestE2E_CustomDomainLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	dir := t.TempDir()
	hostsPath := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(hostsPath, []byte("127.0.0.1 localhost\n"), 0o644))

	t.Setenv("DEEPFOCUS_HOSTS_PATH", hostsPath)
	t.Setenv("DEEPFOCUS_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("DEEPFOCUS_STATE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("DEEPFOCUS_FLUSH_DNS", "false")
	t.Setenv("DEEPFOCUS_LOG_LEVEL", "error")

	require.NoError(t, runCLI(t, "custom", "add", "news.ycombinator.com"))

	data, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	for _, want := range []string{
		"127.0.0.1 news.ycombinator.com  # custom",
		"127.0.0.1 ycombinator.com  # custom",
	} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("missing %q in:\n%s", want, data)
		}
	}

	require.NoError(t, runCLI(t, "custom", "remove", "news.ycombinator.com"))
	data, err = os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ycombinator", "removed custom domain still blocked")
}
