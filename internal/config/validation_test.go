package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TLPSwitchConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*TLPSwitchConfig) {},
		},
		{
			name:    "empty profile dir",
			mutate:  func(c *TLPSwitchConfig) { c.Profiles.Dir = " " },
			wantErr: "profiles.dir",
		},
		{
			name:    "empty live config path",
			mutate:  func(c *TLPSwitchConfig) { c.Profiles.LiveConfigPath = "" },
			wantErr: "profiles.liveConfigPath",
		},
		{
			name:    "bad locale",
			mutate:  func(c *TLPSwitchConfig) { c.Profiles.Locale = "not a tag!" },
			wantErr: "profiles.locale",
		},
		{
			name:    "empty reload command",
			mutate:  func(c *TLPSwitchConfig) { c.Apply.ReloadCommand = "" },
			wantErr: "apply.reloadCommand",
		},
		{
			name:    "bad log format",
			mutate:  func(c *TLPSwitchConfig) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:    "negative display width",
			mutate:  func(c *TLPSwitchConfig) { c.DisplayWidth = -3 },
			wantErr: "displayWidth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("a", "is required")
	assert.Equal(t, "field 'a': is required", errs.Error())

	errs.Add("b", "must be positive", -1)
	assert.Equal(t, "validation failed: field 'a': is required; field 'b': must be positive", errs.Error())
	assert.Equal(t, -1, errs[1].Value)
}
