package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetenv(key string) error {
	return os.Unsetenv(key)
}

func TestParseEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("PNP_API_BASE_URL", "http://env:8000")
	t.Setenv("PNP_REQUEST_TIMEOUT", "5s")
	t.Setenv("PNP_MAX_PAYLOAD_SIZE", "1MiB")
	t.Setenv("PNP_DOWNLOAD_CONCURRENCY", "8")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "http://env:8000", c.APIBaseURL)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.EqualValues(t, 1024*1024, c.MaxPayloadSize)
	assert.Equal(t, 8, c.DownloadConcurrency)
}

func TestParseEnv_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, ".env", "PNP_LOG_LEVEL=debug\nPNP_EXPORT_DIR=from-dotenv\n")
	t.Setenv("PNP_EXPORT_DIR", "from-env")
	// registered for cleanup so the value loaded from .env does not leak
	t.Setenv("PNP_LOG_LEVEL", "")
	require.NoError(t, unsetenv("PNP_LOG_LEVEL"))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "from-env", c.ExportDir)
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	var c Config
	c.LoadDefaults()

	t.Setenv("PNP_SEARCH_DEBOUNCE", "quick")
	require.Error(t, parseEnv(&c))

	t.Setenv("PNP_SEARCH_DEBOUNCE", "100ms")
	t.Setenv("PNP_DOWNLOAD_CONCURRENCY", "many")
	require.Error(t, parseEnv(&c))
}

func TestParseEnv_CustomFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	orig := envFile
	t.Cleanup(func() { envFile = orig })
	envFile = filepath.Join(dir, "reader.env")
	writeFile(t, dir, "reader.env", "PNP_INBOX_DIR=drop\n")
	t.Setenv("PNP_INBOX_DIR", "")
	require.NoError(t, unsetenv("PNP_INBOX_DIR"))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))
	assert.Equal(t, "drop", c.InboxDir)
}
