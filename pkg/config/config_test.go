package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_DISCORD_TOKEN", "secret-token")
		configContent := `
server:
  listen: ":9090"
  timeout: 45s
store:
  type: json
  dir: /srv/espi
espi:
  identity: title
  timeout: 5s
  excerpt:
    enabled: true
    max_len: 200
decoders:
  dir: /srv/decoders
  watch: true
schedule:
  interval: 2m
  max_workers: 2
llm:
  provider: gemini
  model: gemini-2.0-flash
notify:
  discord:
    token: ${TEST_DISCORD_TOKEN}
    channel_id: "123456"
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "json", cfg.Store.Type)
		assert.Equal(t, "/srv/espi", cfg.Store.Dir)
		assert.Equal(t, "title", cfg.ESPI.Identity)
		assert.Equal(t, 5*time.Second, cfg.ESPI.Timeout)
		assert.True(t, cfg.ESPI.Excerpt.Enabled)
		assert.Equal(t, 200, cfg.ESPI.Excerpt.MaxLen)
		assert.Equal(t, "/srv/decoders", cfg.Decoders.Dir)
		assert.True(t, cfg.Decoders.Watch)
		assert.Equal(t, 2*time.Minute, cfg.Schedule.Interval)
		assert.Equal(t, 2, cfg.Schedule.MaxWorkers)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
		assert.Equal(t, "secret-token", cfg.Notify.Discord.Token)
		assert.True(t, cfg.Notify.Discord.Enabled())
		assert.False(t, cfg.Notify.Email.Enabled())
		assert.Equal(t, []string{"secret-token"}, cfg.Secrets())
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8080\"\n"))
		require.NoError(t, err)

		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "sqlite", cfg.Store.Type)
		assert.Contains(t, cfg.Store.DSN, "espiscope.db")
		assert.Equal(t, "https://biznes.pap.pl/espi/espi/{year}?company={id}&selectCompany={id}", cfg.ESPI.URLTemplate)
		assert.Equal(t, "full", cfg.ESPI.Identity)
		assert.Equal(t, uint32(0), cfg.ESPI.Breaker.MaxRequests, "breaker defaults are applied by fetcher")
		assert.Equal(t, "decoders", cfg.Decoders.Dir)
		assert.Equal(t, 60*time.Second, cfg.Schedule.Interval)
		assert.Equal(t, 4, cfg.Schedule.MaxWorkers)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, "🏢", cfg.LLM.DefaultEmoji)
		assert.Equal(t, "https://discord.com/api/v10", cfg.Notify.Discord.APIURL)
		assert.Equal(t, 587, cfg.Notify.Email.SMTPPort)
		assert.Empty(t, cfg.Secrets())
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "store:\n  type: postgres\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "validate config")
	})
}

func TestValidate(t *testing.T) {
	tbl := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"ok", func(c *Config) {}, ""},
		{"server timeout", func(c *Config) { c.Server.Timeout = time.Millisecond }, "server timeout"},
		{"store type", func(c *Config) { c.Store.Type = "redis" }, "store.type"},
		{"url template", func(c *Config) { c.ESPI.URLTemplate = "https://example.com" }, "{id}"},
		{"identity", func(c *Config) { c.ESPI.Identity = "hash" }, "espi.identity"},
		{"breaker threshold", func(c *Config) { c.ESPI.Breaker.FailureThreshold = 1.5 }, "failure_threshold"},
		{"interval", func(c *Config) { c.Schedule.Interval = time.Millisecond }, "schedule.interval"},
		{"workers", func(c *Config) { c.Schedule.MaxWorkers = -1 }, "max_workers"},
		{"provider", func(c *Config) { c.LLM.Provider = "claude" }, "llm.provider"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "temperature"},
		{"prompt", func(c *Config) { c.LLM.Prompt = "give emoji" }, "llm.prompt"},
		{"discord channel", func(c *Config) { c.Notify.Discord.Token = "t" }, "channel_id"},
		{"discord rate", func(c *Config) { c.Notify.Discord.Rate = -1 }, "rate"},
		{"email addresses", func(c *Config) { c.Notify.Email.SMTPServer = "smtp.example.com" }, "notify.email"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
