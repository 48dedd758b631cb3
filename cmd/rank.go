package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/KaramelBytes/efindex-cli/internal/view"
	"github.com/spf13/cobra"
)

var (
	rankN      int
	rankBottom bool
	rankBy     string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "List the top (or bottom) countries by score or any numeric column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		by := dataset.Score
		if rankBy != "" {
			if by, err = dataset.ParseColumn(rankBy); err != nil {
				return err
			}
		}
		n := rankN
		if !cmd.Flags().Changed("n") {
			n = c.TopN
			if rankBottom {
				n = c.BottomN
			}
		}
		rank, title := query.TopN, "Top"
		if rankBottom {
			rank, title = query.BottomN, "Bottom"
		}
		ranked, err := rank(selection(full), n, by)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, view.Rows(ranked))
		}
		heading(w, "%s %d Countries by %s", title, ranked.Len(), by)
		header := []string{"#", "Country", "Region", "2022 Score", "Classification"}
		if by != dataset.Score {
			header = append(header, by.String())
		}
		tbl := newTable(w, header...)
		for i, r := range ranked.Records() {
			row := []string{strconv.Itoa(i + 1), r.Name, r.Region, display.Fixed(r.Score()), analysis.Label(r.Score())}
			if by != dataset.Score {
				v, _ := r.Value(by)
				row = append(row, display.Fixed(v))
			}
			tbl.Append(row)
		}
		tbl.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().IntVarP(&rankN, "n", "n", 10, "number of countries (default from config top_n/bottom_n)")
	rankCmd.Flags().BoolVar(&rankBottom, "bottom", false, "list the lowest values instead of the highest")
	rankCmd.Flags().StringVar(&rankBy, "by", "", fmt.Sprintf("column to rank by (default %q)", dataset.Score))
}
