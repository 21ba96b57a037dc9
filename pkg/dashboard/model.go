// Package dashboard is the terminal front end: an interactive map of
// prefecture and city reduction figures, a data panel and the embed
// code generator, one tab each.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
	"github.com/anrid/japan-co2/pkg/embed"
	"github.com/anrid/japan-co2/pkg/view"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

type Tab int

const (
	TabMap Tab = iota
	TabData
	TabEmbed
)

var tabNames = []string{"Interactive Map", "Data Management", "Embed Widget"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "Unknown"
}

// Options configures a dashboard session.
type Options struct {
	Embeds    *embed.Generator
	ExportDir string
	Logger    *zap.Logger
}

// Model is the bubbletea model for one dashboard session. It owns the
// session's view state.
type Model struct {
	ds      *co2.Dataset
	state   view.State
	session string

	tab    Tab
	cursor int

	widget     embed.Config
	field      int
	embeds     *embed.Generator
	exportDir  string
	statusLine string
	statusErr  bool

	width  int
	height int

	keys   keyMap
	help   help.Model
	styles Styles
	log    *zap.Logger
}

func NewModel(ds *co2.Dataset, opts Options) Model {
	if opts.Embeds == nil {
		opts.Embeds = embed.NewGenerator("")
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	session := uuid.NewString()

	return Model{
		ds:        ds,
		state:     *view.New(),
		session:   session,
		widget:    embed.DefaultConfig(),
		embeds:    opts.Embeds,
		exportDir: opts.ExportDir,
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    DefaultStyles(),
		log:       opts.Logger.With(zap.String("session", session)),
	}
}

// State returns the session's current view state.
func (m Model) State() view.State { return m.state }

func (m Model) Tab() Tab { return m.tab }

func (m Model) Init() tea.Cmd {
	m.log.Info("dashboard session started",
		zap.Int("prefectures", len(m.ds.Prefectures)),
		zap.Int("cities", m.ds.CityCount()),
	)
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.log.Info("dashboard session ended")
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.setTab((m.tab + 1) % Tab(len(tabNames)))
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.setTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
			return m, nil
		}

		switch m.tab {
		case TabMap:
			m.updateMap(msg)
		case TabData:
			m.updateData(msg)
		case TabEmbed:
			m.updateEmbed(msg)
		}
	}
	return m, nil
}

func (m *Model) setTab(t Tab) {
	m.tab = t
	m.statusLine = ""
	m.statusErr = false
}

func (m *Model) setStatus(format string, args ...interface{}) {
	m.statusLine = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...interface{}) {
	m.statusLine = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("CO₂ Reduction Status"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Carbon reduction progress across Japan"))
	sb.WriteString("\n\n")

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := m.styles.Tab
		if Tab(i) == m.tab {
			style = m.styles.ActiveTab
		}
		tabs[i] = style.Render(fmt.Sprintf("%d %s", i+1, name))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")

	switch m.tab {
	case TabMap:
		sb.WriteString(m.viewMap())
	case TabData:
		sb.WriteString(m.viewData())
	case TabEmbed:
		sb.WriteString(m.viewEmbed())
	}

	sb.WriteString("\n")
	if m.statusLine != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(m.statusLine))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys.forTab(m.tab)))
	sb.WriteString("\n")

	return sb.String()
}

// Run starts the dashboard in the terminal and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
