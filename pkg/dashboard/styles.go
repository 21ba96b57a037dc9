package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/anrid/japan-co2/pkg/co2"
)

// Status colours, matching the web map.
var statusColors = map[co2.Status]lipgloss.Color{
	co2.StatusExcellent: lipgloss.Color("#10b981"),
	co2.StatusGood:      lipgloss.Color("#3b82f6"),
	co2.StatusProgress:  lipgloss.Color("#f59e0b"),
	co2.StatusWarning:   lipgloss.Color("#f97316"),
	co2.StatusDanger:    lipgloss.Color("#ef4444"),
}

var unknownColor = lipgloss.Color("#6b7280")

func statusColor(s co2.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return unknownColor
}

// Styles holds every style the dashboard renders with.
type Styles struct {
	Header      lipgloss.Style
	Subtitle    lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	Selected    lipgloss.Style
	Cursor      lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Code        lipgloss.Style
	BarFilled   lipgloss.Style
	BarEmpty    lipgloss.Style
	FocusedItem lipgloss.Style
}

func DefaultStyles() Styles {
	border := lipgloss.Color("#dce0e5")
	accent := lipgloss.Color("#10b981")

	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38")).Padding(0, 1),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Padding(0, 1),
		Tab:         lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#6b7280")),
		ActiveTab:   lipgloss.NewStyle().Padding(0, 2).Bold(true).Underline(true).Foreground(accent),
		Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Cursor:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Bold:        lipgloss.NewStyle().Bold(true),
		Status:      lipgloss.NewStyle().Foreground(accent),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38")).Background(lipgloss.Color("#f4f5f6")),
		BarFilled:   lipgloss.NewStyle().Foreground(accent),
		BarEmpty:    lipgloss.NewStyle().Foreground(border),
		FocusedItem: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

// dot renders a status marker in the status colour.
func dot(s co2.Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Render("●")
}

// badge renders text on the status colour.
func badge(s co2.Status, text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(statusColor(s)).
		Padding(0, 1).
		Render(text)
}
