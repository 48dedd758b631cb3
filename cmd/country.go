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

var compareCmd = &cobra.Command{
	Use:   "compare <country> [country...]",
	Short: "Compare countries side by side on score and categories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		cmp := query.CompareCountries(selection(full), args)
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, view.Rows(cmp))
		}
		if cmp.Len() < len(args) {
			found := map[string]bool{}
			for _, r := range cmp.Records() {
				found[r.Name] = true
			}
			for _, a := range args {
				if !found[a] {
					warn(w, "Country not found: %s", a)
				}
			}
		}
		if cmp.Len() == 0 {
			return nil
		}
		// One column per country, one row per field.
		header := []string{"Field"}
		recs := cmp.Records()
		for _, r := range recs {
			header = append(header, r.Name)
		}
		tbl := newTable(w, header...)
		region := []string{dataset.Region.String()}
		for _, r := range recs {
			region = append(region, r.Region)
		}
		tbl.Append(region)
		for _, c := range cmp.Columns() {
			if !c.Numeric() {
				continue
			}
			row := []string{c.String()}
			for _, r := range recs {
				v, _ := r.Value(c)
				row = append(row, display.Fixed(v))
			}
			tbl.Append(row)
		}
		heading(w, "Country Comparison")
		tbl.Render()
		return nil
	},
}

var countryCmd = &cobra.Command{
	Use:   "country <name>",
	Short: "Show a country's classification, strongest categories and score contribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _, err := loadTable()
		if err != nil {
			return err
		}
		name := args[0]
		d, err := view.Detail(full, name)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(w, d)
		}
		r, _ := full.FindByName(name)
		heading(w, "%s (%s)", r.Name, r.Region)
		fmt.Fprintf(w, "Overall score:  %s\n", display.Fixed(r.Score()))
		fmt.Fprintf(w, "Classification: %s\n", analysis.Label(r.Score()))
		for _, c := range []dataset.Column{dataset.WorldRank, dataset.GDP, dataset.GDPPerCapita, dataset.Population, dataset.Unemployment, dataset.Inflation} {
			if !full.Has(c) {
				continue
			}
			v, _ := r.Value(c)
			fmt.Fprintf(w, "%-15s %s\n", c.String()+":", display.Fixed(v))
		}

		top, err := query.TopCategoriesByCountry(full, name)
		if err != nil {
			return err
		}
		contrib, err := query.CategoryContribution(full, name)
		if err != nil {
			return err
		}
		shares := make(map[dataset.Column]float64, len(contrib))
		for _, c := range contrib {
			shares[c.Category] = c.Percent
		}
		heading(w, "Categories")
		tbl := newTable(w, "#", "Category", "Score", "Contribution")
		for i, c := range top {
			tbl.Append([]string{strconv.Itoa(i + 1), c.Category.String(), display.Fixed(c.Score), display.Percent(shares[c.Category], 2)})
		}
		tbl.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(countryCmd)
}
