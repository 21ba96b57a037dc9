package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
)

var (
	createOut   string
	createForce bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Write the built-in sample dataset to a .json or .xlsx file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, found, err := co2.LoadIfExists(createOut)
		if err != nil && !createForce {
			return fmt.Errorf("existing dataset %s: %w", createOut, err)
		}
		if !found || createForce {
			ds = co2.SampleDataset()
			if err := co2.ExportFile(ds, createOut); err != nil {
				return err
			}
			logger.Info("created dataset", zap.String("file", createOut))
		} else {
			logger.Info("dataset already exists", zap.String("file", createOut))
		}

		ds.Info(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createOut, "out", "o", "co2-reduction-data.json", "output file (.json or .xlsx)")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "overwrite an existing file")
}
