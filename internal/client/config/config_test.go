package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, "reader.db", c.DBPath)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 300*time.Millisecond, c.SearchDebounce)
	assert.EqualValues(t, 100*1024*1024, c.MaxPayloadSize)
	assert.Equal(t, 4, c.DownloadConcurrency)
	assert.Equal(t, "slog", c.LogBackend)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	c := base()
	c.APIBaseURL = ""
	assert.Error(t, c.Validate())

	c = base()
	c.MaxPayloadSize = 0
	assert.Error(t, c.Validate())

	c = base()
	c.DownloadConcurrency = 0
	assert.Error(t, c.Validate())

	c = base()
	c.DBPath = ""
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"reader"}

	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "reader.json", `{"api_base_url": "http://file:1", "db_path": "file.db", "search_debounce": "150ms"}`)
	t.Setenv("PNP_DB_PATH", "env.db")
	os.Args = []string{"reader", "-c", path, "-a", "http://flag:2"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://flag:2", cfg.APIBaseURL)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
}
