package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OBBOT_TEST_VALUE=loaded\n"), 0o600))
	t.Setenv("OBBOT_TEST_VALUE", "")
	os.Unsetenv("OBBOT_TEST_VALUE")

	require.NoError(t, Load(path))
	assert.Equal(t, "loaded", os.Getenv("OBBOT_TEST_VALUE"))
}

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "absent.env")))
}
