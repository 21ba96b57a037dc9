package dashboard

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Toggle  key.Binding

	PrefectureLevel key.Binding
	CityLevel       key.Binding
	Reset           key.Binding

	ExportJSON key.Binding
	ExportXLSX key.Binding
	Import     key.Binding

	CopyIframe key.Binding
	CopyScript key.Binding

	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:         key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:              key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:            key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:            key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "decrease")),
		Right:           key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/+", "increase")),
		Select:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		PrefectureLevel: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prefecture level")),
		CityLevel:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "city level")),
		Reset:           key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		ExportJSON:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export json")),
		ExportXLSX:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export xlsx")),
		Import:          key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		CopyIframe:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy iframe")),
		CopyScript:      key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy script")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// tabKeys is the help.KeyMap for one tab.
type tabKeys struct {
	bindings []key.Binding
}

func (k tabKeys) ShortHelp() []key.Binding  { return k.bindings }
func (k tabKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.bindings} }

func (k keyMap) forTab(t Tab) tabKeys {
	var b []key.Binding
	switch t {
	case TabMap:
		b = []key.Binding{k.Up, k.Down, k.Select, k.PrefectureLevel, k.CityLevel, k.Reset}
	case TabData:
		b = []key.Binding{k.ExportJSON, k.ExportXLSX, k.Import}
	case TabEmbed:
		b = []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Toggle, k.CopyIframe, k.CopyScript}
	}
	return tabKeys{bindings: append(b, k.NextTab, k.Quit)}
}
