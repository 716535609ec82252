package app

import (
	"io"

	"tlpswitch/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the config file.
	Debug bool

	// Custom configuration file (optional). Empty uses
	// ~/.config/tlpswitch/config.yaml.
	ConfigPath string

	// ProfileDir overrides profiles.dir from the config file when set.
	ProfileDir string

	// Watch enables the directory watcher. One-shot commands leave it off.
	Watch bool

	// LogOutput receives log output. Defaults to stderr.
	LogOutput io.Writer

	// Loaded configuration. Populated by NewApplication when nil.
	TLPSwitchConfig *config.TLPSwitchConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, profileDir string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		ProfileDir: profileDir,
	}
}
