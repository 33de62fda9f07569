package cli

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapport-app/rapport/internal/stubserver"
	_ "modernc.org/sqlite"
)

// runCLI executes one full command invocation the way main() would,
// with a fresh command tree each time.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_OnlineRoundTrip(t *testing.T) {
	ts := httptest.NewServer(stubserver.New().Router())
	defer ts.Close()
	dbPath := filepath.Join(t.TempDir(), "rapport.db")
	base := []string{"--api", ts.URL, "--db", dbPath}

	out, err := runCLI(t, append(base, "contacts", "add", "--first-name", "Ada", "--last-name", "Lovelace")...)
	require.NoError(t, err)
	assert.Contains(t, out, "created Ada Lovelace")

	out, err = runCLI(t, append(base, "contacts", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")

	out, err = runCLI(t, append(base, "status")...)
	require.NoError(t, err)
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "contacts")
	assert.Contains(t, out, "PENDING")
}

func TestCLI_OfflineQueueThenSync(t *testing.T) {
	ts := httptest.NewServer(stubserver.New().Router())
	defer ts.Close()
	dbPath := filepath.Join(t.TempDir(), "rapport.db")

	// Nothing listens on this port, so every command runs offline.
	offline := []string{"--api", "http://127.0.0.1:1", "--db", dbPath}
	online := []string{"--api", ts.URL, "--db", dbPath}

	out, err := runCLI(t, append(offline, "contacts", "add", "--first-name", "Bo")...)
	require.NoError(t, err)
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "created Bo (temp_")

	out, err = runCLI(t, append(offline, "sync")...)
	require.NoError(t, err)
	assert.Contains(t, out, "still offline")

	out, err = runCLI(t, append(online, "sync")...)
	require.NoError(t, err)
	assert.Contains(t, out, "replayed 1, failed 0")

	out, err = runCLI(t, append(online, "contacts", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Bo")
	assert.NotContains(t, out, "temp_")
}

func TestCLI_LogoutRefusesWithPending(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rapport.db")
	offline := []string{"--api", "http://127.0.0.1:1", "--db", dbPath}

	_, err := runCLI(t, append(offline, "contacts", "add", "--first-name", "Cy")...)
	require.NoError(t, err)

	_, err = runCLI(t, append(offline, "logout")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsynced")

	_, err = runCLI(t, append(offline, "logout", "--force")...)
	require.NoError(t, err)

	out, err := runCLI(t, append(offline, "contacts", "list")...)
	require.NoError(t, err)
	assert.NotContains(t, out, "Cy")
}
