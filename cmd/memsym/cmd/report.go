/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/memsym/internal/colors"
	"github.com/blacktop/memsym/pkg/breakdown"
	"github.com/blacktop/memsym/pkg/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	addFilterFlags(reportCmd, "report")
	reportCmd.Flags().IntP("top", "t", 10, "Number of modules and folders to rank (0 shows all)")
	reportCmd.Flags().BoolP("detail", "d", false, "Also break cost down by module and region")
	viper.BindPFlag("report.top", reportCmd.Flags().Lookup("top"))
	viper.BindPFlag("report.detail", reportCmd.Flags().Lookup("detail"))
}

func statTable(title string, stats []breakdown.Stat) string {
	tbl := table.NewTable(colors.Enabled())
	tbl.SetHeaders(title, "Symbols", "Size", "Mean Size", "Cost", "Mean Cost")
	tbl.AlignRight(1, 2, 3, 4, 5)
	for _, s := range stats {
		tbl.AppendRow(
			s.Name(),
			strconv.Itoa(s.Count),
			bytesStr(s.Size),
			fmt.Sprintf("%.1f", s.MeanSize()),
			humanize.Comma(s.Cost),
			fmt.Sprintf("%.1f", s.MeanCost()),
		)
	}
	return tbl.Render()
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:     "report <CSV>",
	Aliases: []string{"r"},
	Short:   "Break down the size and cost of a symbol table",
	Example: heredoc.Doc(`
		# Totals, top 10 modules, region cost share and folder ranking
		❯ memsym report symbols.csv
		# Only the code section of two modules, with the module/region matrix
		❯ memsym report symbols.csv --section code --module module_1,module_2 --detail`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if _, err := setup(); err != nil {
			return err
		}

		filter, err := readFilter("report")
		if err != nil {
			return err
		}

		symbols, err := loadTable(args[0])
		if err != nil {
			return err
		}
		symbols = filter.Apply(symbols)
		if len(symbols) == 0 {
			return nil
		}

		top := viper.GetInt("report.top")
		totals := breakdown.Summarize(symbols)

		fmt.Println(colors.Heading().Sprint("Totals"))
		tbl := table.NewTable(colors.Enabled())
		tbl.SetHeaders("Symbols", "Size", "Cost", "High Realtime", "HW Usage", "Violations")
		tbl.AlignRight(0, 1, 2, 3, 4, 5)
		tbl.AppendRow(
			humanize.Comma(int64(totals.Symbols)),
			bytesStr(totals.Size),
			humanize.Comma(totals.Cost),
			strconv.Itoa(totals.HighRealtime),
			strconv.Itoa(totals.HWUsage),
			colors.Alert().Sprint(totals.Violations),
		)
		fmt.Println(tbl.Render())
		fmt.Println()

		fmt.Println(colors.Heading().Sprint("Top Modules by Cost"))
		fmt.Println(statTable("Module", breakdown.TopModules(symbols, top)))
		fmt.Println()

		fmt.Println(colors.Heading().Sprint("Region Cost Share"))
		tbl = table.NewTable(colors.Enabled())
		tbl.SetHeaders("Region", "Cost", "Share")
		tbl.AlignRight(1, 2)
		for _, s := range breakdown.CostShare(symbols) {
			tbl.AppendRow(colors.Region(s.Region).Sprint(s.Region), humanize.Comma(s.Cost), fmt.Sprintf("%.1f%%", s.Percent))
		}
		fmt.Println(tbl.Render())
		fmt.Println()

		fmt.Println(colors.Heading().Sprint("Region Sizes"))
		fmt.Println(statTable("Region", breakdown.Regions(symbols)))
		fmt.Println()

		fmt.Println(colors.Heading().Sprint("Folders by Cost"))
		fmt.Println(statTable("Folder", breakdown.Folders(symbols, top)))

		if viper.GetBool("report.detail") {
			fmt.Println()
			fmt.Println(colors.Heading().Sprint("Module / Region"))
			fmt.Println(statTable("Module/Region", breakdown.ModuleRegions(symbols)))
		}
		return nil
	},
}
