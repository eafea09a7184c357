package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	require.Equal(t, 60, c.Session.HistoryLimit)
	require.Equal(t, 500, c.Session.MaxTextLen)
	require.Equal(t, 800*time.Millisecond, c.RateWindow())
	require.Equal(t, 5, c.Session.StrikeLimit)
	require.Equal(t, 3, c.Session.FlagThreshold)
	require.Len(t, c.Session.Emojis, 5)
	require.Equal(t, 180*time.Second, c.Cooldown())
	require.Equal(t, 5*time.Second, c.Tick())
	require.Len(t, c.Facilitator.Script, 7)
	require.Equal(t, "0.0.0.0:8080", c.Addr())
	require.Empty(t, c.Admin.Credential, "kill switch must be disabled by default")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  address: 127.0.0.1
  port: 9090
session:
  history_limit: 10
admin:
  credential: hush
facilitator:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", c.Addr())
	require.Equal(t, 10, c.Session.HistoryLimit)
	require.Equal(t, 500, c.Session.MaxTextLen, "unset field keeps its default")
	require.Equal(t, "hush", c.Admin.Credential)
	require.False(t, c.Facilitator.Enabled)
	require.Len(t, c.Facilitator.Script, 7, "script default survives")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SESSIONHUB_ADDR", "10.0.0.1:7070")
	t.Setenv("SESSIONHUB_ADMIN_CREDENTIAL", "from-env")
	t.Setenv("SESSIONHUB_HISTORY_LIMIT", "25")

	c := Default()
	require.True(t, LoadEnvOverrides(c))
	require.Equal(t, "10.0.0.1:7070", c.Addr())
	require.Equal(t, "from-env", c.Admin.Credential)
	require.Equal(t, 25, c.Session.HistoryLimit)
}

func TestLoadEffectiveMissingFile(t *testing.T) {
	c, _, err := LoadEffective(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "missing file falls back to defaults")
	require.Equal(t, 60, c.Session.HistoryLimit)
}

func TestResolveConfigPath(t *testing.T) {
	require.Equal(t, "/flag/path.yaml", ResolveConfigPath("/flag/path.yaml", true), "explicit flag wins")

	t.Setenv("SESSIONHUB_CONFIG", "/env/path.yaml")
	require.Equal(t, "/env/path.yaml", ResolveConfigPath("./config.yaml", false))
}
