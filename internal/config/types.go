package config

import "time"

// TLPSwitchConfig is the top-level configuration structure for tlpswitch.
type TLPSwitchConfig struct {
	Profiles ProfilesConfig `yaml:"profiles"`
	Apply    ApplyConfig    `yaml:"apply"`
	Log      LogConfig      `yaml:"log"`

	// DisplayWidth caps the width of profile names in list output. Zero disables truncation.
	DisplayWidth int `yaml:"displayWidth,omitempty"`
}

// ProfilesConfig controls discovery and matching.
type ProfilesConfig struct {
	Dir            string        `yaml:"dir,omitempty"`            // Profile directory (default: ~/.tlp)
	LiveConfigPath string        `yaml:"liveConfigPath,omitempty"` // Live TLP config (default: /etc/tlp.conf)
	Locale         string        `yaml:"locale,omitempty"`         // BCP 47 tag used to collate profile names (default: und)
	Debounce       time.Duration `yaml:"debounce,omitempty"`       // Quiet period before a directory change is acted on (default: 500ms)
}

// ApplyConfig controls the privileged swap.
type ApplyConfig struct {
	ElevateCommand []string      `yaml:"elevateCommand,omitempty"` // Privilege escalation prefix (default: [pkexec])
	ReloadCommand  string        `yaml:"reloadCommand,omitempty"`  // Shell command run after the copy (default: systemctl restart tlp)
	SettleDelay    time.Duration `yaml:"settleDelay,omitempty"`    // Wait after an apply before re-resolving (default: 500ms)
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}
