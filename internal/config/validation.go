package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"tlpswitch/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a fully merged configuration.
func Validate(cfg TLPSwitchConfig) error {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.Profiles.Dir) == "" {
		errs.Add("profiles.dir", "is required")
	}
	if strings.TrimSpace(cfg.Profiles.LiveConfigPath) == "" {
		errs.Add("profiles.liveConfigPath", "is required")
	}
	if cfg.Profiles.Debounce < 0 {
		errs.Add("profiles.debounce", "must not be negative", cfg.Profiles.Debounce)
	}
	if cfg.Profiles.Locale != "" {
		if _, err := language.Parse(cfg.Profiles.Locale); err != nil {
			errs.Add("profiles.locale", "is not a valid BCP 47 tag", cfg.Profiles.Locale)
		}
	}
	if strings.TrimSpace(cfg.Apply.ReloadCommand) == "" {
		errs.Add("apply.reloadCommand", "is required")
	}
	if cfg.Apply.SettleDelay < 0 {
		errs.Add("apply.settleDelay", "must not be negative", cfg.Apply.SettleDelay)
	}
	if cfg.DisplayWidth < 0 {
		errs.Add("displayWidth", "must not be negative", cfg.DisplayWidth)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs.Add("log.level", err.Error(), cfg.Log.Level)
	}
	switch logging.Format(cfg.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs.Add("log.format", "must be text or json", cfg.Log.Format)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
