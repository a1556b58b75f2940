package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/debfetch/deb"
	"github.com/pithecene-io/debfetch/manifest"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_deb":
		content = m.renderInspectDeb()
	case "inspect_manifest":
		content = m.renderInspectManifest()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectDeb() string {
	data, ok := m.data.(*deb.Control)
	if !ok {
		return "Invalid data type for inspect_deb"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Package Control"))
	b.WriteString("\n\n")

	for _, field := range data.Fields() {
		label := LabelStyle.Render(field.Name + ":")
		value := ValueStyle.Render(strings.ReplaceAll(field.Value, "\n", " "))
		b.WriteString(fmt.Sprintf("%s %s\n", label, value))
	}

	deps := deb.ParseDepends(data.Depends())
	if len(deps) > 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Dependencies:"))
		b.WriteString("\n")
		for _, dep := range deps {
			b.WriteString(fmt.Sprintf("  • %s\n", ValueStyle.Render(dep)))
		}
	}

	return BoxStyle.Render(b.String())
}

func (m InspectModel) renderInspectManifest() string {
	data, ok := m.data.(*manifest.Report)
	if !ok {
		return "Invalid data type for inspect_manifest"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Download Manifest"))
	b.WriteString("\n\n")

	outcome := "success"
	if len(data.Artifacts) == 0 {
		outcome = "empty"
	}

	rows := [][]string{
		{"Package", data.Package},
		{"Version", data.Version},
		{"Series", data.Series},
		{"Arch", data.Arch},
		{"Depth", fmt.Sprintf("%d", data.Depth)},
		{"Started At", data.StartedAt.Format("2006-01-02 15:04:05")},
		{"Duration", data.Duration().String()},
		{"Tool", data.Tool},
	}

	for _, row := range rows {
		label := LabelStyle.Render(row[0] + ":")
		b.WriteString(fmt.Sprintf("%s %s\n", label, ValueStyle.Render(row[1])))
	}

	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Outcome:"),
		OutcomeStyle(outcome).Render(outcome)))

	if len(data.Artifacts) > 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Artifacts:"))
		b.WriteString("\n")
		for _, a := range data.Artifacts {
			b.WriteString(fmt.Sprintf("  • %s\n", ValueStyle.Render(a.Name)))
		}
	}

	if len(data.Dependencies) > 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Dependencies:"))
		b.WriteString("\n")
		for _, dep := range data.Dependencies {
			b.WriteString(fmt.Sprintf("  • %s\n", ValueStyle.Render(dep)))
		}
	}

	return BoxStyle.Render(b.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
