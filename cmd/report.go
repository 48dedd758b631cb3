package cmd

import (
	"fmt"

	"github.com/KaramelBytes/efindex-cli/internal/report"
	"github.com/KaramelBytes/efindex-cli/internal/utils"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Markdown report of the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		full, cr, err := loadTable()
		if err != nil {
			return err
		}
		rep, err := report.Build(c.DataPath, full, cr, report.Options{
			TopN:    c.TopN,
			BottomN: c.BottomN,
			Regions: regions,
		})
		if err != nil {
			return err
		}
		md := rep.Markdown()
		w := cmd.OutOrStdout()
		if reportOutput == "" {
			fmt.Fprint(w, md)
			return nil
		}
		if err := utils.SafeWriteFile(reportOutput, []byte(md)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		success(w, "Wrote report to %s", reportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "optional path to write the report (Markdown)")
}
