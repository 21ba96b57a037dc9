package main

import (
	"github.com/spf13/cobra"

	"github.com/anrid/japan-co2/pkg/api"
	"github.com/anrid/japan-co2/pkg/embed"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset, map projections and embed codes over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		h := api.NewHandler(ds, embed.NewGenerator(cfg.Embed.BaseURL), logger)
		return api.Serve(ctx, cfg.Server.Addr, h.Routes(), logger)
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "listen address (overrides config)")
	serveCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		return nil
	}
}
