package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgPath := filepath.Join(dir, "config.yml")
	err := os.WriteFile(cfgPath, []byte(`
listen: ":9090"
log_level: debug
default_lang: uz
content:
  videos_dir: /srv/videos
  practice_pattern: "pr%d.pdf"
`), 0644)
	require.NoError(t, err)

	t.Setenv("PORTAL_PRESENTATIONS_DIR", "/srv/slides")
	t.Setenv("PORTAL_METRICS_ENABLED", "false")
	t.Setenv("PORTAL_STREAM_RATE_LIMIT", "2000000")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, LogLevelDebug, cfg.LogLevel)
	require.Equal(t, LangUZ, cfg.DefaultLang)
	require.Equal(t, "/srv/videos", cfg.Content.VideosDir)
	require.Equal(t, "/srv/slides", cfg.Content.PresentationsDir)
	require.Equal(t, "pr%d.pdf", cfg.Content.PracticePattern)
	require.Equal(t, defaultSyllabusFile, cfg.Content.SyllabusFile)
	require.False(t, cfg.Metrics.Enabled)
	require.True(t, cfg.HTTP.Compress)
	require.Equal(t, 2000000, cfg.HTTP.StreamRateLimit)
}

func TestLoadBadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTAL_HTTP_COMPRESS", "maybe")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("does-not-exist.yml")
	require.NoError(t, err)
	require.Equal(t, defaultListen, cfg.Listen)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(c *Config)
		expectError bool
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "trace" },
			expectError: true,
		},
		{
			name:        "default lang not supported",
			modify:      func(c *Config) { c.DefaultLang = "en" },
			expectError: true,
		},
		{
			name:        "practice pattern without number",
			modify:      func(c *Config) { c.Content.PracticePattern = "practice.pdf" },
			expectError: true,
		},
		{
			name:        "negative stream rate",
			modify:      func(c *Config) { c.HTTP.StreamRateLimit = -1 },
			expectError: true,
		},
		{
			name:        "relative static prefix",
			modify:      func(c *Config) { c.Content.StaticPrefix = "static" },
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestLang(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.Equal(t, LangUZ, cfg.Lang("uz"))
	require.Equal(t, LangRU, cfg.Lang("en"))
	require.Equal(t, LangRU, cfg.Lang(""))
}
