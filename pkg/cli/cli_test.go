package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mocker.json")

	require.NoError(t, runCommand("init", "--config", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"routes"`)

	assert.NoError(t, runCommand("validate", "--config", path))
}

func TestInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mocker.json")

	require.NoError(t, runCommand("init", "--config", path))
	assert.Error(t, runCommand("init", "--config", path))
	assert.NoError(t, runCommand("init", "--config", path, "--force"))
}

func TestValidateReportsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mocker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"routes": [{"method": "NOPE", "path": "/x"}]}`), 0o644))

	assert.Error(t, runCommand("validate", "--config", path))
}

func TestRoutesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mocker.json")
	require.NoError(t, runCommand("init", "--config", path))

	assert.NoError(t, runCommand("routes", "--config", path))
}

func TestJSONOutputMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mocker.json")
	require.NoError(t, runCommand("init", "--config", path))
	t.Cleanup(func() { jsonOutput = false })

	assert.NoError(t, runCommand("validate", "--config", path, "--json"))
	assert.NoError(t, runCommand("routes", "--config", path, "--json"))
}
