package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/embed"
	"github.com/anrid/japan-co2/pkg/view"
)

const sizeStep = 50

// Widget configuration fields, in form order.
const (
	fieldWidth = iota
	fieldHeight
	fieldShowLegend
	fieldShowTooltips
	fieldTheme
	fieldDefaultView
	fieldAllowLevelSwitch
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Width (px)",
	"Height (px)",
	"Show Legend",
	"Show Tooltips",
	"Theme",
	"Default View",
	"Allow Level Switching",
}

func (m *Model) updateEmbed(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.field > 0 {
			m.field--
		}
	case key.Matches(msg, m.keys.Down):
		if m.field < fieldCount-1 {
			m.field++
		}
	case key.Matches(msg, m.keys.Left):
		m.adjustField(-1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
		m.adjustField(1)
	case key.Matches(msg, m.keys.CopyIframe):
		m.copySnippet("iframe", m.embeds.Iframe)
	case key.Matches(msg, m.keys.CopyScript):
		m.copySnippet("script", m.embeds.Script)
	}
}

// adjustField steps sizes by sizeStep and flips every other field.
func (m *Model) adjustField(dir int) {
	w := &m.widget
	switch m.field {
	case fieldWidth:
		w.Width = max(sizeStep, w.Width+dir*sizeStep)
	case fieldHeight:
		w.Height = max(sizeStep, w.Height+dir*sizeStep)
	case fieldShowLegend:
		w.ShowLegend = !w.ShowLegend
	case fieldShowTooltips:
		w.ShowTooltips = !w.ShowTooltips
	case fieldTheme:
		if w.Theme == embed.ThemeLight {
			w.Theme = embed.ThemeDark
		} else {
			w.Theme = embed.ThemeLight
		}
	case fieldDefaultView:
		if w.DefaultView == view.LevelPrefecture {
			w.DefaultView = view.LevelCity
		} else {
			w.DefaultView = view.LevelPrefecture
		}
	case fieldAllowLevelSwitch:
		w.AllowLevelSwitch = !w.AllowLevelSwitch
	}
}

func (m *Model) copySnippet(kind string, generate func(embed.Config) (string, error)) {
	code, err := generate(m.widget)
	if err == nil {
		err = clipboardWriteAll(code)
	}
	if err != nil {
		m.log.Warn("copy failed", zap.String("kind", kind), zap.Error(err))
		m.setError("Failed to copy %s code: %v", kind, err)
		return
	}
	m.setStatus("Copied %s code to clipboard", kind)
}

func (m Model) fieldValue(f int) string {
	w := m.widget
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	switch f {
	case fieldWidth:
		return fmt.Sprintf("%d", w.Width)
	case fieldHeight:
		return fmt.Sprintf("%d", w.Height)
	case fieldShowLegend:
		return onOff(w.ShowLegend)
	case fieldShowTooltips:
		return onOff(w.ShowTooltips)
	case fieldTheme:
		return string(w.Theme)
	case fieldDefaultView:
		return string(w.DefaultView)
	case fieldAllowLevelSwitch:
		return onOff(w.AllowLevelSwitch)
	}
	return ""
}

func (m Model) viewEmbed() string {
	var form strings.Builder
	form.WriteString(m.styles.PanelTitle.Render("Widget Configuration"))
	for f := 0; f < fieldCount; f++ {
		line := fmt.Sprintf("%-22s %s", fieldLabels[f], m.fieldValue(f))
		if f == m.field {
			line = m.styles.FocusedItem.Render("> " + line)
		} else {
			line = "  " + line
		}
		form.WriteString("\n" + line)
	}

	pw, ph := m.widget.Preview()
	viewName := "Prefecture View"
	if m.widget.DefaultView == view.LevelCity {
		viewName = "City View"
	}
	preview := []string{fmt.Sprintf("Preview %d×%d", pw, ph), viewName}
	if m.widget.ShowLegend {
		preview = append(preview, "Legend")
	}
	if m.widget.ShowTooltips {
		preview = append(preview, "Tooltips")
	}

	var code strings.Builder
	snippets, err := m.embeds.Snippets(m.widget)
	if err != nil {
		code.WriteString(m.styles.Error.Render(err.Error()))
	} else {
		code.WriteString(m.styles.Bold.Render("HTML Embed (iframe)"))
		code.WriteString("\n" + m.styles.Code.Render(snippets.Iframe))
		code.WriteString("\n\n" + m.styles.Bold.Render("JavaScript Widget"))
		code.WriteString("\n" + m.styles.Code.Render(snippets.Script))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Panel.Render(form.String()),
			" ",
			m.styles.Panel.Render(strings.Join(preview, "\n")),
		),
		m.styles.Panel.Render(code.String()),
	)
}
