package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
	"github.com/anrid/japan-co2/pkg/view"
)

const progressBarWidth = 20

func (m *Model) updateMap(msg tea.KeyMsg) {
	pr := m.state.Project(m.ds)
	ids := pr.IDs()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
		return

	case key.Matches(msg, m.keys.Select):
		// Only prefectures are selectable; the city view is a drill-down.
		if m.state.Level != view.LevelPrefecture || m.cursor >= len(ids) {
			return
		}
		m.state.SelectRegion(ids[m.cursor])
		m.log.Debug("select region", zap.String("id", ids[m.cursor]), zap.String("selected", m.state.Selected))

	case key.Matches(msg, m.keys.PrefectureLevel):
		m.state.SetViewLevel(view.LevelPrefecture)

	case key.Matches(msg, m.keys.CityLevel):
		if !m.state.CanSelectCity() {
			m.setError("Select a prefecture before switching to the city level")
			return
		}
		m.state.SetViewLevel(view.LevelCity)

	case key.Matches(msg, m.keys.Reset):
		m.state.Reset()

	default:
		return
	}

	m.statusLine = ""
	m.clampCursor()
}

// clampCursor keeps the cursor on the selected prefecture when the
// prefecture list is shown, and inside the list otherwise.
func (m *Model) clampCursor() {
	pr := m.state.Project(m.ds)
	ids := pr.IDs()

	if pr.Level == view.LevelPrefecture {
		for i, id := range ids {
			if id == m.state.Selected {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(ids) {
		m.cursor = len(ids) - 1
	}
	if m.cursor < 0 || pr.Level == view.LevelCity {
		m.cursor = 0
	}
}

func (m Model) viewMap() string {
	pr := m.state.Project(m.ds)

	controls := m.viewControls()
	main := m.viewRegions(pr)

	side := []string{m.viewLegend()}
	if pr.Summary != nil {
		side = append(side, m.viewDetails(pr))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		main,
		" ",
		lipgloss.JoinVertical(lipgloss.Left, side...),
	)
	return lipgloss.JoinVertical(lipgloss.Left, controls, body)
}

func (m Model) viewControls() string {
	level := func(label string, active, enabled bool) string {
		switch {
		case active:
			return m.styles.Selected.Render(" " + label + " ")
		case !enabled:
			return m.styles.Muted.Render(" " + label + " ")
		}
		return " " + label + " "
	}

	parts := []string{
		level("Prefecture Level", m.state.Level == view.LevelPrefecture, true),
		level("City Level", m.state.Level == view.LevelCity, m.state.CanSelectCity()),
	}
	if m.state.CanSelectCity() {
		parts = append(parts, m.styles.Muted.Render("[r] Reset Selection"))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) viewRegions(pr view.Projection) string {
	var sb strings.Builder
	sb.WriteString(m.styles.PanelTitle.Render(pr.Title))
	sb.WriteString("\n")

	items := pr.Prefectures
	if pr.Level == view.LevelCity {
		items = pr.Cities
	}
	if len(items) == 0 {
		sb.WriteString(m.styles.Muted.Render("No city data available"))
		return m.styles.Panel.Render(sb.String())
	}

	for i, it := range items {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		name := fmt.Sprintf("%-12s", it.Name)
		if it.Highlighted {
			name = m.styles.Selected.Render(name)
		}
		fmt.Fprintf(&sb, "%s%s %s %6s  %s\n",
			cursor, dot(it.Status), name,
			co2.FormatPercent(it.Reduction),
			m.styles.Muted.Render("target "+co2.FormatPercent(it.Target)),
		)
	}
	return m.styles.Panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) viewLegend() string {
	var sb strings.Builder
	sb.WriteString(m.styles.PanelTitle.Render("Status Legend"))
	sb.WriteString("\n")
	for _, s := range co2.Statuses {
		fmt.Fprintf(&sb, "%s %s\n", dot(s), s.Label())
	}
	return m.styles.Panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) viewDetails(pr view.Projection) string {
	r := pr.Summary

	var sb strings.Builder
	sb.WriteString(m.styles.PanelTitle.Render(r.Name))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Current Reduction: %s\n", badge(r.Status, co2.FormatPercent(r.Reduction)))
	fmt.Fprintf(&sb, "Target:            %s\n", m.styles.Bold.Render(co2.FormatPercent(r.Target)))
	fmt.Fprintf(&sb, "Population:        %s\n", co2.FormatPopulation(r.Population))
	fmt.Fprintf(&sb, "Progress:          %d%%\n", r.Progress())
	sb.WriteString(m.progressBar(r.ProgressBar()))

	if pr.Level == view.LevelCity && len(pr.Cities) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Bold.Render("Cities & Towns"))
		for _, c := range pr.Cities {
			fmt.Fprintf(&sb, "\n%-12s %s", c.Name, badge(c.Status, co2.FormatPercent(c.Reduction)))
		}
	}
	return m.styles.Panel.Render(sb.String())
}

func (m Model) progressBar(pct float64) string {
	filled := int(pct / 100 * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	return m.styles.BarFilled.Render(strings.Repeat("█", filled)) +
		m.styles.BarEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
}
