package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tlpswitch/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/tlpswitch"
	configFileName = "config.yaml"
)

// GetDefaultConfigPath returns ~/.config/tlpswitch/config.yaml.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// LoadConfig reads the config file at path over the defaults. A missing file
// is not an error. An empty path means the default location.
func LoadConfig(path string) (TLPSwitchConfig, error) {
	config := GetDefaultConfig()

	if path == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			logging.Warn("ConfigLoader", "Using defaults: %v", err)
			return config, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config file at %s, using defaults", path)
			return config, nil
		}
		return TLPSwitchConfig{}, ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			ErrorType: "io",
			Message:   err.Error(),
		}
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return TLPSwitchConfig{}, ConfigurationError{
			FilePath:    path,
			FileName:    filepath.Base(path),
			ErrorType:   "parse",
			Message:     "malformed YAML",
			Details:     err.Error(),
			Suggestions: []string{"durations are written like 500ms or 1s", "elevateCommand is a list, e.g. [pkexec]"},
		}
	}

	config.Profiles.Dir = expandHome(config.Profiles.Dir)
	config.Profiles.LiveConfigPath = expandHome(config.Profiles.LiveConfigPath)

	if err := Validate(config); err != nil {
		return TLPSwitchConfig{}, ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return config, nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := osUserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
