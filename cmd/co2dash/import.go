package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anrid/japan-co2/pkg/co2"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse and validate a .json, .xlsx or .xls dataset",
	Long: `Parses and validates a dataset file and reports what it contains.
The dashboard keeps serving its configured data; nothing is merged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		ds, err := co2.ImportFile(file)
		if err != nil {
			logger.Error("import failed", zap.String("file", file), zap.Error(err))
			return err
		}

		logger.Info("import parsed",
			zap.String("file", file),
			zap.Int("prefectures", len(ds.Prefectures)),
			zap.Int("cities", ds.CityCount()),
		)
		for _, path := range ds.Inconsistent() {
			logger.Warn("stored status disagrees with reduction", zap.String("region", path))
		}

		ds.Info(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", file)
		return nil
	},
}
