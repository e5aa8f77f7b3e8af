package main

import (
	"fmt"

	"github.com/spacesedan/brandvoice/internal/export"
	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Re-render charts.html from the exported SoV and SPV tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")

		exporter, err := export.NewExporter(outDir)
		if err != nil {
			return err
		}

		path, err := exporter.RenderChartsFromExports()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Charts saved to %s\n", path)
		return nil
	},
}

func init() {
	chartsCmd.Flags().String("out", "reports", "output directory of an earlier run")
}
