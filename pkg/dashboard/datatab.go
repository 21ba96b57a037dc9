package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
)

// ExportBaseName is the file name, without extension, of dashboard exports.
const ExportBaseName = "co2-reduction-data"

func (m *Model) updateData(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.ExportJSON):
		m.export(".json")
	case key.Matches(msg, m.keys.ExportXLSX):
		m.export(".xlsx")
	case key.Matches(msg, m.keys.Import):
		m.importExport()
	}
}

// importExport checks the newest export in the export directory. The
// dashboard keeps showing the dataset it was started with.
func (m *Model) importExport() {
	var file string
	var modTime time.Time
	for _, ext := range []string{".json", ".xlsx"} {
		candidate := filepath.Join(m.exportDir, ExportBaseName+ext)
		if fi, err := os.Stat(candidate); err == nil && fi.ModTime().After(modTime) {
			file, modTime = candidate, fi.ModTime()
		}
	}
	if file == "" {
		m.setError("Import failed: no %s.json or .xlsx in %s", ExportBaseName, m.exportDir)
		return
	}

	ds, err := co2.ImportFile(file)
	if err != nil {
		m.log.Warn("import rejected", zap.String("file", file), zap.Error(err))
		m.setError("Import failed: %v", err)
		return
	}
	for _, path := range ds.Inconsistent() {
		m.log.Warn("stored status disagrees with reduction", zap.String("file", file), zap.String("region", path))
	}

	m.log.Info("import checked", zap.String("file", file), zap.Int("prefectures", len(ds.Prefectures)))
	m.setStatus("Imported %s: %d prefectures, %d cities (not merged)", file, len(ds.Prefectures), ds.CityCount())
}

func (m *Model) export(ext string) {
	file := filepath.Join(m.exportDir, ExportBaseName+ext)
	if err := co2.ExportFile(m.ds, file); err != nil {
		m.log.Error("export failed", zap.String("file", file), zap.Error(err))
		m.setError("Export failed: %v", err)
		return
	}
	m.log.Info("exported dataset", zap.String("file", file))
	m.setStatus("Exported to %s", file)
}

func (m Model) viewData() string {
	prefs := newTable("Prefecture Data", "ID", "Name", "Reduction", "Target", "Status", "Population")
	cities := newTable("City Data", "Prefecture", "ID", "Name", "Reduction", "Target", "Status")

	for _, id := range m.ds.PrefectureIDs() {
		p := m.ds.Prefectures[id]
		prefs.addRow(id, p.Name, co2.FormatPercent(p.Reduction), co2.FormatPercent(p.Target),
			string(p.Status), co2.FormatPopulation(p.Population))

		for _, cityID := range p.CityIDs() {
			c := p.Cities[cityID]
			cities.addRow(p.Name, cityID, c.Name, co2.FormatPercent(c.Reduction), co2.FormatPercent(c.Target),
				string(c.Status))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		prefs.view(m.styles),
		cities.view(m.styles),
		m.styles.Muted.Render(fmt.Sprintf("Exports are written to and imported from %s", m.exportDir)),
	)
}

// table renders static rows with aligned columns.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) view(styles Styles) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	render := func(style lipgloss.Style, cells []string) string {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return strings.Join(out, styles.Muted.Render("|"))
	}

	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}

	var sb strings.Builder
	sb.WriteString(styles.PanelTitle.Render(t.title))
	sb.WriteString("\n")
	sb.WriteString(render(styles.Bold.Padding(0, 1), t.headers))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	for _, row := range t.rows {
		sb.WriteString("\n")
		sb.WriteString(render(lipgloss.NewStyle().Padding(0, 1), row))
	}
	return sb.String() + "\n"
}
