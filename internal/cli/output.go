package cli

import (
	"fmt"
	"time"

	"tlpswitch/internal/reconciler"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable formats output as a styled table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatWide formats output as a table with source paths
	OutputFormatWide OutputFormat = "wide"
	// OutputFormatJSON formats output as JSON
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatTemplate renders a user-supplied Go template
	OutputFormatTemplate OutputFormat = "template"
)

// ValidOutputFormats contains all valid output format values.
var ValidOutputFormats = []OutputFormat{
	OutputFormatTable,
	OutputFormatWide,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatTemplate,
}

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatWide, OutputFormatJSON, OutputFormatYAML, OutputFormatTemplate:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, wide, json, yaml, template)", format)
	}
}

// ProfileView is the serialized form of one profile.
type ProfileView struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	SourcePath  string `json:"sourcePath" yaml:"sourcePath"`
	Active      bool   `json:"active" yaml:"active"`
}

// StatusView is the serialized form of a controller state.
type StatusView struct {
	ActiveProfile string        `json:"activeProfile" yaml:"activeProfile"`
	Profiles      []ProfileView `json:"profiles" yaml:"profiles"`
	LastError     string        `json:"lastError,omitempty" yaml:"lastError,omitempty"`
	ErrorDetail   string        `json:"errorDetail,omitempty" yaml:"errorDetail,omitempty"`
	Generation    uint64        `json:"generation" yaml:"generation"`
	UpdatedAt     time.Time     `json:"updatedAt" yaml:"updatedAt"`
}

// NewStatusView converts a state for output.
func NewStatusView(s reconciler.State) StatusView {
	view := StatusView{
		ActiveProfile: s.ActiveProfileID,
		Profiles:      make([]ProfileView, 0, len(s.Profiles)),
		LastError:     string(s.LastError),
		ErrorDetail:   s.LastErrorDetail,
		Generation:    s.Generation,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, d := range s.Profiles {
		view.Profiles = append(view.Profiles, ProfileView{
			ID:          d.ID,
			DisplayName: d.DisplayName,
			SourcePath:  d.SourcePath,
			Active:      d.ID == s.ActiveProfileID,
		})
	}
	return view
}
