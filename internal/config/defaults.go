package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultProfileDirName is the profile directory below the user's home.
	DefaultProfileDirName = ".tlp"

	// DefaultLiveConfigPath is the configuration file read by TLP.
	DefaultLiveConfigPath = "/etc/tlp.conf"

	// DefaultReloadCommand restarts the TLP service after the copy.
	DefaultReloadCommand = "systemctl restart tlp"

	DefaultDebounce    = 500 * time.Millisecond
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultLocale      = "und"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfig returns the configuration used when no file is present.
func GetDefaultConfig() TLPSwitchConfig {
	profileDir := DefaultProfileDirName
	if home, err := osUserHomeDir(); err == nil {
		profileDir = filepath.Join(home, DefaultProfileDirName)
	}

	return TLPSwitchConfig{
		Profiles: ProfilesConfig{
			Dir:            profileDir,
			LiveConfigPath: DefaultLiveConfigPath,
			Locale:         DefaultLocale,
			Debounce:       DefaultDebounce,
		},
		Apply: ApplyConfig{
			ElevateCommand: []string{"pkexec"},
			ReloadCommand:  DefaultReloadCommand,
			SettleDelay:    DefaultSettleDelay,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
