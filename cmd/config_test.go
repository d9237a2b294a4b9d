package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Default(t *testing.T) {
	c := newCLI(t, nil)
	require.NoError(t, c.run(t, "", "config"))

	out := c.stdout.String()
	assert.Contains(t, out, "Current Configuration")
	assert.Contains(t, out, "api.base_url")
	assert.Contains(t, out, c.sessionFile)
	assert.Contains(t, out, "127.0.0.1:8787")
}

func TestConfig_JSON(t *testing.T) {
	c := newCLI(t, nil)
	require.NoError(t, c.run(t, "", "config", "--json"))

	var got struct {
		Session struct {
			File string
		}
	}
	decodeJSON(t, c.stdout.Bytes(), &got)
	assert.Equal(t, c.sessionFile, got.Session.File)
}

func TestConfig_Path(t *testing.T) {
	c := newCLI(t, nil)
	require.NoError(t, c.run(t, "", "config", "--path"))
	assert.Contains(t, c.stdout.String(), "No config file found")

	path := filepath.Join(t.TempDir(), "dolabbctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  page_size: 50\nresources:\n  users:\n    page_size: 10\n"), 0o600))

	require.NoError(t, c.run(t, "", "--config", path, "config", "--path"))
	assert.Contains(t, c.stdout.String(), path)

	require.NoError(t, c.run(t, "", "--config", path, "config"))
	assert.Contains(t, c.stdout.String(), "Resource Overrides")
	assert.Contains(t, c.stdout.String(), "page_size: 10")
}
