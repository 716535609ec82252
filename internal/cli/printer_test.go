package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tlpswitch/internal/profile"
	"tlpswitch/internal/reconciler"
)

func testState() reconciler.State {
	return reconciler.State{
		Profiles: profile.Set{
			{ID: "balanced", DisplayName: "balanced", SourcePath: "/home/u/.tlp/balanced.conf"},
			{ID: "performance-on-ac-with-a-long-name", DisplayName: "performance-on-ac-with-a-long-name", SourcePath: "/home/u/.tlp/performance-on-ac-with-a-long-name.conf"},
		},
		ActiveProfileID: "balanced",
		Phase:           reconciler.PhaseIdle,
		Generation:      4,
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range ValidOutputFormats {
		assert.NoError(t, ValidateOutputFormat(string(f)))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}

func TestPrinter_ProfileTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{DisplayWidth: 12, NoColor: true})

	require.NoError(t, p.PrintProfiles(testState()))

	out := buf.String()
	assert.Contains(t, out, "PROFILE")
	assert.Contains(t, out, "balanced")
	assert.Contains(t, out, "performance…")
	assert.NotContains(t, out, "performance-on-ac-with-a-long-name")
	assert.Contains(t, out, "●")
	assert.NotContains(t, out, "SOURCE")
}

func TestPrinter_WideTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{Format: OutputFormatWide, NoColor: true})

	require.NoError(t, p.PrintProfiles(testState()))
	assert.Contains(t, buf.String(), "SOURCE")
	assert.Contains(t, buf.String(), "/home/u/.tlp/balanced.conf")
}

func TestPrinter_EmptyProfiles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{NoColor: true})

	require.NoError(t, p.PrintProfiles(reconciler.State{}))
	assert.Equal(t, "No profiles found\n", buf.String())
}

func TestPrinter_ProfilesJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{Format: OutputFormatJSON, DisplayWidth: 3})

	require.NoError(t, p.PrintProfiles(testState()))

	var views []ProfileView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 2)
	assert.True(t, views[0].Active)
	assert.False(t, views[1].Active)
	assert.Equal(t, "performance-on-ac-with-a-long-name", views[1].DisplayName)
}

func TestPrinter_StatusYAML(t *testing.T) {
	state := testState()
	state.LastError = profile.KindApplyFailed
	state.LastErrorDetail = "authorization was dismissed"

	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{Format: OutputFormatYAML})
	require.NoError(t, p.PrintStatus(state))

	var view StatusView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, "balanced", view.ActiveProfile)
	assert.Equal(t, "ApplyFailed", view.LastError)
	assert.Equal(t, uint64(4), view.Generation)
}

func TestPrinter_StatusText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{NoColor: true})

	require.NoError(t, p.PrintStatus(testState()))
	assert.Contains(t, buf.String(), "Active profile: balanced")
	assert.Contains(t, buf.String(), "Profiles:       2")

	buf.Reset()
	state := testState()
	state.ActiveProfileID = ""
	state.LastError = profile.KindDirectoryUnavailable
	state.LastErrorDetail = "permission denied"
	require.NoError(t, p.PrintStatus(state))
	assert.Contains(t, buf.String(), "Active profile: none")
	assert.Contains(t, buf.String(), "DirectoryUnavailable: permission denied")
}

func TestPrinter_StatusTemplate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PrinterOptions{
		Format:   OutputFormatTemplate,
		Template: `{{ .ActiveProfile | default "none" }} ({{ len .Profiles }})`,
	})

	require.NoError(t, p.PrintStatus(testState()))
	assert.Equal(t, "balanced (2)\n", buf.String())

	buf.Reset()
	state := testState()
	state.ActiveProfileID = ""
	require.NoError(t, p.PrintStatus(state))
	assert.Equal(t, "none (2)\n", buf.String())
}

func TestPrinter_TemplateRequired(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, PrinterOptions{Format: OutputFormatTemplate})
	assert.Error(t, p.PrintProfiles(testState()))
}
