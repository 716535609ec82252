// Package config loads tlpswitch configuration.
//
// Configuration lives in a single YAML file, by default
// ~/.config/tlpswitch/config.yaml. Every field is optional; values missing
// from the file keep the defaults from GetDefaultConfig. A missing file is not
// an error.
//
// Example:
//
//	profiles:
//	  dir: ~/.tlp
//	  liveConfigPath: /etc/tlp.conf
//	  locale: de
//	  debounce: 300ms
//	apply:
//	  elevateCommand: [pkexec]
//	  reloadCommand: tlp start
//	  settleDelay: 500ms
//	log:
//	  level: debug
//	displayWidth: 24
//
// The reload command is run by the privileged shell after the profile has been
// copied over the live config. Both "systemctl restart tlp" and "tlp start"
// are common choices.
//
// Errors are returned as ConfigurationError, which carries the file, the
// failure category and suggestions for fixing it.
package config
