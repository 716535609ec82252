package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"tlpswitch/internal/reconciler"
	"tlpswitch/internal/template"
	tlpstrings "tlpswitch/pkg/strings"
)

// PrinterOptions configures a Printer.
type PrinterOptions struct {
	Format OutputFormat
	// DisplayWidth truncates profile names longer than this many characters.
	// Zero disables truncation.
	DisplayWidth int
	// NoColor disables colored output.
	NoColor bool
	// Template is the Go template used with OutputFormatTemplate.
	Template string
}

// Printer renders controller state in the selected output format.
type Printer struct {
	out     io.Writer
	options PrinterOptions
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, options PrinterOptions) *Printer {
	if options.Format == "" {
		options.Format = OutputFormatTable
	}
	return &Printer{out: out, options: options}
}

// PrintProfiles renders the profile list with the active one marked.
func (p *Printer) PrintProfiles(s reconciler.State) error {
	switch p.options.Format {
	case OutputFormatJSON:
		return p.printJSON(NewStatusView(s).Profiles)
	case OutputFormatYAML:
		return p.printYAML(NewStatusView(s).Profiles)
	case OutputFormatTemplate:
		return p.printTemplate(NewStatusView(s).Profiles)
	case OutputFormatTable, OutputFormatWide:
		return p.printProfileTable(s)
	default:
		return fmt.Errorf("unsupported output format: %s", p.options.Format)
	}
}

// PrintStatus renders the active profile and the last error.
func (p *Printer) PrintStatus(s reconciler.State) error {
	switch p.options.Format {
	case OutputFormatJSON:
		return p.printJSON(NewStatusView(s))
	case OutputFormatYAML:
		return p.printYAML(NewStatusView(s))
	case OutputFormatTemplate:
		return p.printTemplate(NewStatusView(s))
	case OutputFormatTable, OutputFormatWide:
		return p.printStatusText(s)
	default:
		return fmt.Errorf("unsupported output format: %s", p.options.Format)
	}
}

func (p *Printer) printProfileTable(s reconciler.State) error {
	if len(s.Profiles) == 0 {
		fmt.Fprintln(p.out, "No profiles found")
		return nil
	}

	wide := p.options.Format == OutputFormatWide

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)

	header := table.Row{"", "PROFILE"}
	if wide {
		header = append(header, "SOURCE")
	}
	t.AppendHeader(header)

	for _, d := range s.Profiles {
		marker := ""
		name := tlpstrings.TruncateName(d.DisplayName, p.options.DisplayWidth)
		if d.ID == s.ActiveProfileID {
			marker = p.color(text.FgHiGreen, "●")
			name = p.color(text.FgHiCyan, name)
		}
		row := table.Row{marker, name}
		if wide {
			row = append(row, d.SourcePath)
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

func (p *Printer) printStatusText(s reconciler.State) error {
	if d, ok := s.Active(); ok {
		fmt.Fprintf(p.out, "Active profile: %s\n", p.color(text.FgHiCyan, tlpstrings.TruncateName(d.DisplayName, p.options.DisplayWidth)))
		if p.options.Format == OutputFormatWide {
			fmt.Fprintf(p.out, "Source:         %s\n", d.SourcePath)
		}
	} else {
		fmt.Fprintln(p.out, "Active profile: none (live configuration matches no profile)")
	}
	fmt.Fprintf(p.out, "Profiles:       %d\n", len(s.Profiles))

	if s.LastError != "" {
		fmt.Fprintf(p.out, "%s %s: %s\n", p.color(text.FgYellow, "⚠"), s.LastError, s.LastErrorDetail)
	}
	return nil
}

func (p *Printer) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Fprintln(p.out, string(data))
	return nil
}

func (p *Printer) printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	fmt.Fprint(p.out, string(data))
	return nil
}

func (p *Printer) printTemplate(v interface{}) error {
	if p.options.Template == "" {
		return fmt.Errorf("--template is required with -o template")
	}
	out, err := template.New().Render(p.options.Template, v)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, out)
	return nil
}

func (p *Printer) color(c text.Color, s string) string {
	if p.options.NoColor {
		return s
	}
	return c.Sprint(s)
}
