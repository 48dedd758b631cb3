package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/display"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/KaramelBytes/efindex-cli/internal/view"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show headline metrics and per-column statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		t := selection(full)
		o := query.Summarize(t, full)
		stats := analysis.SummaryStatistics(t)
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, map[string]any{
				"overview":   view.NewOverview(o),
				"statistics": view.Summary(stats),
			})
		}
		heading(w, "Overview")
		fmt.Fprintf(w, "Countries analyzed:      %d\n", o.Countries)
		fmt.Fprintf(w, "Average score:           %s (%s vs all)\n", display.Fixed(o.AverageScore), display.Signed(o.ScoreDelta))
		fmt.Fprintf(w, "Total GDP (billions):    %s\n", display.Number(o.TotalGDP, 1))
		fmt.Fprintf(w, "Avg GDP per capita:      %s\n", display.Number(o.AverageGDPPerCap, 0))

		heading(w, "Summary Statistics")
		tbl := newTable(w, "Column", "Mean", "Median", "Std", "Min", "Max", "Missing")
		for _, s := range stats {
			tbl.Append([]string{
				s.Column.String(), display.Fixed(s.Mean), display.Fixed(s.Median), display.Fixed(s.StdDev),
				display.Fixed(s.Min), display.Fixed(s.Max), strconv.Itoa(s.Missing),
			})
		}
		tbl.Render()
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show category statistics, highest mean first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		cs := analysis.CategoryStatistics(selection(full))
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, view.Categories(cs))
		}
		heading(w, "Category Statistics")
		tbl := newTable(w, "Category", "Mean", "Std", "Min", "Max")
		for _, c := range cs {
			tbl.Append([]string{c.Category.String(), display.Fixed(c.Mean), display.Fixed(c.StdDev), display.Fixed(c.Min), display.Fixed(c.Max)})
		}
		tbl.Render()
		return nil
	},
}

var correlationsCmd = &cobra.Command{
	Use:   "correlations",
	Short: "Correlate each economic indicator with the overall score",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		cs, err := analysis.CorrelationsWithScore(selection(full))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, view.Correlations(cs))
		}
		heading(w, "Correlation with 2022 Score")
		if len(cs) == 0 {
			warn(w, "No indicator correlation is computable for this selection")
			return nil
		}
		tbl := newTable(w, "Indicator", "r", "p-value", "n", "Significant")
		for _, c := range cs {
			sig := ""
			if c.Significant {
				sig = "✓"
			}
			tbl.Append([]string{
				c.Column.String(),
				strconv.FormatFloat(c.Coefficient, 'f', 3, 64),
				strconv.FormatFloat(c.PValue, 'f', 4, 64),
				strconv.Itoa(c.N),
				sig,
			})
		}
		tbl.Render()
		return nil
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Show per-region statistics and the classification distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		t := selection(full)
		rs := analysis.RegionalStatistics(t)
		bands, err := analysis.ClassificationCounts(t)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut {
			counts := map[string]int{}
			for _, b := range bands {
				counts[b.Class.String()] = b.Count
			}
			return printJSON(w, map[string]any{"regions": view.Regions(rs), "classification": counts})
		}
		heading(w, "Regional Statistics")
		tbl := newTable(w, "Region", "Countries", "Mean", "Min", "Max", "GDP (B)", "Population (M)")
		for _, r := range rs {
			tbl.Append([]string{
				r.Region, strconv.Itoa(r.Count), display.Fixed(r.ScoreMean), display.Fixed(r.ScoreMin),
				display.Fixed(r.ScoreMax), display.Number(r.GDPTotal, 1), display.Number(r.PopulationTotal, 1),
			})
		}
		tbl.Render()

		heading(w, "Classification")
		ct := newTable(w, "Band", "Countries")
		for _, b := range bands {
			ct.Append([]string{b.Class.String(), strconv.Itoa(b.Count)})
		}
		ct.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(correlationsCmd)
	rootCmd.AddCommand(regionsCmd)
}
