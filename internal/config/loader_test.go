package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T, home string) {
	t.Helper()
	original := osUserHomeDir
	osUserHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { osUserHomeDir = original })
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetDefaultConfig(t *testing.T) {
	withHome(t, "/home/alice")

	cfg := GetDefaultConfig()

	assert.Equal(t, "/home/alice/.tlp", cfg.Profiles.Dir)
	assert.Equal(t, "/etc/tlp.conf", cfg.Profiles.LiveConfigPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Profiles.Debounce)
	assert.Equal(t, []string{"pkexec"}, cfg.Apply.ElevateCommand)
	assert.Equal(t, "systemctl restart tlp", cfg.Apply.ReloadCommand)
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	cfg, err := LoadConfig(filepath.Join(home, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_DefaultPath(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	dir := filepath.Join(home, ".config", "tlpswitch")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeConfig(t, dir, "displayWidth: 12\n")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.DisplayWidth)
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	path := writeConfig(t, home, `
profiles:
  dir: ~/profiles
  debounce: 250ms
  locale: sv
apply:
  elevateCommand: [sudo, -n]
  reloadCommand: tlp start
  settleDelay: 0s
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "profiles"), cfg.Profiles.Dir)
	assert.Equal(t, "/etc/tlp.conf", cfg.Profiles.LiveConfigPath, "unset fields keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Profiles.Debounce)
	assert.Equal(t, "sv", cfg.Profiles.Locale)
	assert.Equal(t, []string{"sudo", "-n"}, cfg.Apply.ElevateCommand)
	assert.Equal(t, "tlp start", cfg.Apply.ReloadCommand)
	assert.Equal(t, time.Duration(0), cfg.Apply.SettleDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_ExpandsLiveConfigPath(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	path := writeConfig(t, home, `
profiles:
  liveConfigPath: ~/tlp-test/tlp.conf
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "tlp-test", "tlp.conf"), cfg.Profiles.LiveConfigPath)
	assert.Equal(t, filepath.Join(home, ".tlp"), cfg.Profiles.Dir)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	path := writeConfig(t, home, "profiles: [unterminated\n")

	_, err := LoadConfig(path)
	require.Error(t, err)

	var cfgErr ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "parse", cfgErr.ErrorType)
	assert.Equal(t, path, cfgErr.FilePath)
	assert.Contains(t, cfgErr.DetailedError(), "Suggestions:")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	path := writeConfig(t, home, `
profiles:
  debounce: -1s
log:
  level: loud
`)

	_, err := LoadConfig(path)
	require.Error(t, err)

	var cfgErr ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "validation", cfgErr.ErrorType)
	assert.Contains(t, cfgErr.Message, "profiles.debounce")
	assert.Contains(t, cfgErr.Message, "log.level")
}

func TestExpandHome(t *testing.T) {
	withHome(t, "/home/bob")

	assert.Equal(t, "/home/bob", expandHome("~"))
	assert.Equal(t, "/home/bob/.tlp", expandHome("~/.tlp"))
	assert.Equal(t, "/srv/tlp", expandHome("/srv/tlp"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
