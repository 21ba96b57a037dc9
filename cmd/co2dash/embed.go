package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anrid/japan-co2/pkg/embed"
	"github.com/anrid/japan-co2/pkg/view"
)

var (
	embedConfig = embed.DefaultConfig()
	embedTheme  string
	embedView   string
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Print the iframe and script snippets for the map widget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := embedConfig
		c.Theme = embed.Theme(embedTheme)
		c.DefaultView = view.Level(embedView)
		if err := c.Validate(); err != nil {
			return err
		}

		snippets, err := embed.NewGenerator(cfg.Embed.BaseURL).Snippets(c)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "HTML Embed (iframe):\n\n%s\n\n", snippets.Iframe)
		fmt.Fprintf(out, "JavaScript Widget:\n\n%s\n", snippets.Script)
		return nil
	},
}

func init() {
	f := embedCmd.Flags()
	f.IntVar(&embedConfig.Width, "width", embedConfig.Width, "widget width in pixels")
	f.IntVar(&embedConfig.Height, "height", embedConfig.Height, "widget height in pixels")
	f.BoolVar(&embedConfig.ShowLegend, "legend", embedConfig.ShowLegend, "show the status legend")
	f.BoolVar(&embedConfig.ShowTooltips, "tooltips", embedConfig.ShowTooltips, "show tooltips")
	f.BoolVar(&embedConfig.AllowLevelSwitch, "level-switch", embedConfig.AllowLevelSwitch, "allow switching to the city level")
	f.StringVar(&embedTheme, "theme", string(embedConfig.Theme), "light or dark")
	f.StringVar(&embedView, "default-view", string(embedConfig.DefaultView), "prefecture or city")
}
