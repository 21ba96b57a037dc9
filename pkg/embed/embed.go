// Package embed generates the HTML snippets that place the CO2 map
// widget on a third-party page.
package embed

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/anrid/japan-co2/pkg/view"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultBaseURL is the placeholder host used until a real one is
// configured.
const DefaultBaseURL = "https://your-domain.com"

// Maximum preview size shown next to the configuration form.
const (
	PreviewMaxWidth  = 600
	PreviewMaxHeight = 400
)

// Config is the widget configuration. Field order is the order the
// keys appear in the generated snippets.
type Config struct {
	Width            int        `json:"width"`
	Height           int        `json:"height"`
	ShowLegend       bool       `json:"showLegend"`
	ShowTooltips     bool       `json:"showTooltips"`
	Theme            Theme      `json:"theme"`
	DefaultView      view.Level `json:"defaultView"`
	AllowLevelSwitch bool       `json:"allowLevelSwitch"`
}

func DefaultConfig() Config {
	return Config{
		Width:            800,
		Height:           600,
		ShowLegend:       true,
		ShowTooltips:     true,
		Theme:            ThemeLight,
		DefaultView:      view.LevelPrefecture,
		AllowLevelSwitch: true,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("width must be positive, got %d", c.Width)
	case c.Height <= 0:
		return fmt.Errorf("height must be positive, got %d", c.Height)
	case c.Theme != ThemeLight && c.Theme != ThemeDark:
		return fmt.Errorf("unknown theme %q", c.Theme)
	case !c.DefaultView.Valid():
		return fmt.Errorf("unknown default view %q", c.DefaultView)
	}
	return nil
}

// Preview returns the size of the on-page preview box.
func (c Config) Preview() (width, height int) {
	return min(c.Width, PreviewMaxWidth), min(c.Height, PreviewMaxHeight)
}

// Generator renders snippets pointing at BaseURL.
type Generator struct {
	BaseURL string
}

func NewGenerator(baseURL string) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Generator{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Snippets holds both generated embed codes.
type Snippets struct {
	Iframe string `json:"iframe"`
	Script string `json:"script"`
}

func (g *Generator) Snippets(c Config) (Snippets, error) {
	iframe, err := g.Iframe(c)
	if err != nil {
		return Snippets{}, err
	}
	script, err := g.Script(c)
	if err != nil {
		return Snippets{}, err
	}
	return Snippets{Iframe: iframe, Script: script}, nil
}

// Iframe returns the iframe snippet, with the configuration passed as
// URL-encoded JSON in the config query parameter.
func (g *Generator) Iframe(c Config) (string, error) {
	js, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal widget config: %w", err)
	}

	src := g.BaseURL + "/embed/co2-map?config=" + url.QueryEscape(string(js))

	return fmt.Sprintf(`<iframe
  src="%s"
  width="%d"
  height="%d"
  frameborder="0"
  style="border-radius: 8px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);"
></iframe>`, src, c.Width, c.Height), nil
}

// Script returns the loader snippet that pulls widget.js and initializes
// the widget in place.
func (g *Generator) Script(c Config) (string, error) {
	js, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal widget config: %w", err)
	}

	return fmt.Sprintf(`<div id="co2-reduction-widget"></div>
<script>
  (function() {
    const config = %s;
    const script = document.createElement('script');
    script.src = '%s/widget.js';
    script.onload = function() {
      CO2Widget.init('co2-reduction-widget', config);
    };
    document.head.appendChild(script);
  })();
</script>`, js, g.BaseURL), nil
}
