package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<API REQUEST_DUMP="true">
  <CONTEXT>
    <PORT>9090</PORT>
    <HOST>127.0.0.1</HOST>
    <TIME_ZONE>Europe/London</TIME_ZONE>
  </CONTEXT>
  <ASSESSMENT SCALE="3" SHUFFLE="false">
    <TITLE>Team check-in</TITLE>
  </ASSESSMENT>
  <SESSION>
    <COOKIE_NAME>sid</COOKIE_NAME>
    <SECRET>s3cret</SECRET>
    <TTL_MINUTES>30</TTL_MINUTES>
  </SESSION>
  <SERVER>
    <MAX_CONNS>16</MAX_CONNS>
    <RATE_LIMIT RPS="1.5" BURST="3"/>
    <ALLOW_ORIGINS>
      <ORIGIN>https://example.org</ORIGIN>
    </ALLOW_ORIGINS>
  </SERVER>
</API>`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFromXML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleXML))
	require.NoError(t, err)

	assert.True(t, cfg.RequestDump)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, 3, cfg.Assessment.Scale)
	assert.False(t, cfg.Assessment.Shuffle)
	assert.Equal(t, "Team check-in", cfg.Assessment.Title)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 16, cfg.Server.MaxConns)
	assert.Equal(t, 1.5, cfg.Server.RateLimit.RPS)
	assert.Equal(t, 3, cfg.Server.RateLimit.Burst)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "Europe/London", cfg.Location().String())

	// Values absent from the file keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15, cfg.Server.ReadTimeoutSeconds)

	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.xml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Context.Port)
	assert.Equal(t, 5, cfg.Assessment.Scale)
	assert.True(t, cfg.Assessment.Shuffle)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ASSESS_PORT", "7000")
	t.Setenv("ASSESS_SCALE", "5")
	t.Setenv("ASSESS_SHUFFLE", "true")
	t.Setenv("ASSESS_ALLOW_ORIGINS", "https://a.test,https://b.test")

	cfg, err := LoadConfig(writeConfig(t, sampleXML))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Context.Port)
	assert.Equal(t, 5, cfg.Assessment.Scale)
	assert.True(t, cfg.Assessment.Shuffle)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowOrigins)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Run("malformed xml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "<API><CONTEXT>"))
		assert.Error(t, err)
	})

	t.Run("bad scale", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `<API><ASSESSMENT SCALE="4"/></API>`))
		assert.ErrorContains(t, err, "invalid scale")
	})

	t.Run("bad port from env", func(t *testing.T) {
		t.Setenv("ASSESS_PORT", "70000")
		_, err := LoadConfig(writeConfig(t, `<API/>`))
		assert.ErrorContains(t, err, "invalid port")
	})

	t.Run("bad time zone", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `<API><CONTEXT><TIME_ZONE>Mars/Olympus</TIME_ZONE></CONTEXT></API>`))
		assert.ErrorContains(t, err, "invalid time zone")
	})
}
