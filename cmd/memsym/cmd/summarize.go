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
	"path/filepath"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/colors"
	"github.com/blacktop/memsym/pkg/table"
	"github.com/blacktop/memsym/pkg/trend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringP("project", "p", "", "Project folder holding <date>/symbols.csv tables")
	summarizeCmd.Flags().StringP("output", "o", "", "Summary CSV path (default: <project>/summary.csv)")
	summarizeCmd.Flags().StringP("regions", "r", "", "Region table YAML naming the usage columns (overrides config)")
	summarizeCmd.MarkFlagRequired("project")
	viper.BindPFlag("summarize.project", summarizeCmd.Flags().Lookup("project"))
	viper.BindPFlag("summarize.output", summarizeCmd.Flags().Lookup("output"))
	viper.BindPFlag("summarize.regions", summarizeCmd.Flags().Lookup("regions"))
}

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:     "summarize",
	Aliases: []string{"sum"},
	Short:   "Summarize a project's daily tables into one CSV",
	Example: heredoc.Doc(`
		# Write demo/summary.csv
		❯ memsym summarize -p demo`),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}
		regions, err := regionTable(conf, viper.GetString("summarize.regions"))
		if err != nil {
			return err
		}

		project := viper.GetString("summarize.project")
		days, err := trend.Summarize(project)
		if err != nil {
			return err
		}
		if len(days) == 0 {
			log.Warnf("No daily symbol tables found in %s", project)
			return nil
		}

		tbl := table.NewTable(colors.Enabled())
		headers := []string{"Date", "Symbols", "Size"}
		for _, r := range regions {
			headers = append(headers, r.Name)
		}
		tbl.SetHeaders(headers...)
		for i := 1; i < len(headers); i++ {
			tbl.AlignRight(i)
		}
		for _, d := range days {
			row := []string{d.Date, strconv.Itoa(d.Symbols), bytesStr(d.TotalSize)}
			for _, r := range regions {
				row = append(row, bytesStr(d.RegionUsage[r.Name]))
			}
			tbl.AppendRow(row...)
		}
		fmt.Println(tbl.Render())

		out := viper.GetString("summarize.output")
		if out == "" {
			out = filepath.Join(project, "summary.csv")
		}
		if err := trend.Save(out, days, regions.Names()); err != nil {
			return err
		}
		log.Infof("Summary saved to: %s", out)
		return nil
	},
}
