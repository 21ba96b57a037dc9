package embed

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anrid/japan-co2/pkg/view"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 600, c.Height)
	assert.Equal(t, ThemeLight, c.Theme)
	assert.Equal(t, view.LevelPrefecture, c.DefaultView)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"bad theme", func(c *Config) { c.Theme = "neon" }},
		{"bad view", func(c *Config) { c.DefaultView = "country" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestPreview(t *testing.T) {
	w, h := DefaultConfig().Preview()
	assert.Equal(t, 600, w)
	assert.Equal(t, 400, h)

	w, h = Config{Width: 320, Height: 240}.Preview()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestIframe(t *testing.T) {
	g := NewGenerator("")
	c := DefaultConfig()
	c.Width = 640
	c.ShowLegend = false

	code, err := g.Iframe(c)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "<iframe"))
	assert.True(t, strings.HasSuffix(code, "></iframe>"))
	assert.Contains(t, code, `width="640"`)
	assert.Contains(t, code, `height="600"`)

	m := regexp.MustCompile(`src="([^"]+)"`).FindStringSubmatch(code)
	require.Len(t, m, 2)

	u, err := url.Parse(m[1])
	require.NoError(t, err)
	assert.Equal(t, "your-domain.com", u.Host)
	assert.Equal(t, "/embed/co2-map", u.Path)

	var decoded Config
	require.NoError(t, json.Unmarshal([]byte(u.Query().Get("config")), &decoded))
	assert.Equal(t, c, decoded)
}

func TestScript(t *testing.T) {
	g := NewGenerator("https://co2.example.jp/")
	c := DefaultConfig()
	c.Theme = ThemeDark

	code, err := g.Script(c)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, `<div id="co2-reduction-widget"></div>`))
	assert.Contains(t, code, "script.src = 'https://co2.example.jp/widget.js';")
	assert.Contains(t, code, "CO2Widget.init('co2-reduction-widget', config);")
	assert.Contains(t, code, "const config = {\n  \"width\": 800,\n  \"height\": 600,")
	assert.Contains(t, code, `"theme": "dark"`)
	assert.Contains(t, code, `"allowLevelSwitch": true`)
}

func TestSnippets(t *testing.T) {
	g := NewGenerator("")
	s, err := g.Snippets(DefaultConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, s.Iframe)
	assert.NotEmpty(t, s.Script)
	assert.Equal(t, DefaultBaseURL, g.BaseURL)
}
