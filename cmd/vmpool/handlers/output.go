package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/vmpool"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func (f outputFormat) contentType() string {
	switch f {
	case formatYAML:
		return "application/yaml"
	case formatJSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// isTerminal reports whether stdout is attached to a terminal.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// resolveFormat validates the requested format. Without one, terminals get
// text and everything else gets JSON.
func resolveFormat(requested string) (outputFormat, error) {
	switch outputFormat(requested) {
	case formatText, formatJSON, formatYAML:
		return outputFormat(requested), nil
	case "":
		if isTerminal() {
			return formatText, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", requested)
	}
}

func render(res *vmpool.Result, name string, format outputFormat) (string, error) {
	if format == formatText {
		return renderText(res, name), nil
	}
	data, err := marshal(res, format)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshal(res *vmpool.Result, format outputFormat) ([]byte, error) {
	switch format {
	case formatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result to yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result to json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

var (
	outTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	outChangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	outOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	outDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// renderText produces a lipgloss-styled summary of the result.
func renderText(res *vmpool.Result, name string) string {
	var b strings.Builder

	b.WriteString(outTitleStyle.Render(fmt.Sprintf("vmpool: %s", name)))
	b.WriteString("\n")

	status := outOKStyle.Render("unchanged")
	if res.Changed {
		status = outChangedStyle.Render("changed")
	}
	writeRow(&b, "status", status)

	if res.ID == "" {
		if res.Changed {
			writeRow(&b, "id", outDimStyle.Render("(not created in check mode)"))
		} else {
			writeRow(&b, "id", outDimStyle.Render("(none)"))
		}
		return b.String()
	}
	writeRow(&b, "id", res.ID)

	if p := res.VMPool; p != nil {
		writeRow(&b, "cluster", refLabel(p.Cluster))
		writeRow(&b, "template", refLabel(p.Template))
		writeRow(&b, "size", countLabel(p.Size))
		writeRow(&b, "prestarted", countLabel(p.PrestartedVMs))
		writeRow(&b, "max per user", countLabel(p.MaxUserVMs))
	}
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-13s %s\n", label+":", value)
}

func refLabel(ref *ovirt.Ref) string {
	switch {
	case ref == nil:
		return "-"
	case ref.Name != "":
		return ref.Name
	default:
		return ref.ID
	}
}

func countLabel(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
