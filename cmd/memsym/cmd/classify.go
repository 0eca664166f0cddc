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
	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/colors"
	"github.com/blacktop/memsym/internal/utils"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/blacktop/memsym/pkg/table"
	"github.com/blacktop/memsym/pkg/violation"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var symbolHeaders = []string{"Name", "Module", "Memory", "Section", "Size", "Realtime", "Access", "HW", "Folder", "Cost"}

func symbolRow(s *symtab.Symbol) []string {
	return []string{
		s.Name,
		s.Module,
		colors.Region(s.PhysicalMemory).Sprint(s.PhysicalMemory),
		string(s.InputSection),
		strconv.Itoa(s.Size),
		colors.Realtime(string(s.Realtime)).Sprint(s.Realtime),
		strconv.Itoa(s.AccessCount),
		symtab.YesNo(s.HWUsage),
		s.Folder,
		humanize.Comma(s.Cost),
	}
}

func symbolTable(symbols []*symtab.Symbol, limit int) string {
	tbl := table.NewTable(colors.Enabled())
	tbl.SetHeaders(symbolHeaders...)
	tbl.AlignRight(4, 6, 9)
	for i, s := range symbols {
		if limit > 0 && i == limit {
			break
		}
		tbl.AppendRow(symbolRow(s)...)
	}
	return tbl.Render()
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addFilterFlags(classifyCmd, "classify")
	classifyCmd.Flags().StringP("crosstab", "x", "", "Count violations per rule by key (module, folder, memory, section, realtime)")
	classifyCmd.Flags().StringP("export", "e", "", "Write all violating rows to this CSV")
	classifyCmd.Flags().IntP("limit", "l", 10, "Rows to show per rule (0 shows all)")
	classifyCmd.Flags().BoolP("browse", "b", false, "Browse the violations interactively")
	viper.BindPFlag("classify.crosstab", classifyCmd.Flags().Lookup("crosstab"))
	viper.BindPFlag("classify.export", classifyCmd.Flags().Lookup("export"))
	viper.BindPFlag("classify.limit", classifyCmd.Flags().Lookup("limit"))
	viper.BindPFlag("classify.browse", classifyCmd.Flags().Lookup("browse"))
}

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:     "classify <CSV>",
	Aliases: []string{"cl"},
	Short:   "Report symbols placed against their timing or hardware needs",
	Example: heredoc.Doc(`
		# Show every violation group
		❯ memsym classify symbols.csv
		# Only High realtime symbols in external memories
		❯ memsym classify symbols.csv --realtime High -m ext_memory1,ext_memory2
		# Count violations per module and rule
		❯ memsym classify symbols.csv --crosstab module
		# Export the violating rows
		❯ memsym classify symbols.csv --export violations.csv`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if _, err := setup(); err != nil {
			return err
		}

		filter, err := readFilter("classify")
		if err != nil {
			return err
		}
		var key symtab.Key
		if name := viper.GetString("classify.crosstab"); name != "" {
			var ok bool
			if key, ok = symtab.Keys[name]; !ok {
				return fmt.Errorf("invalid --crosstab key %q", name)
			}
		}

		symbols, err := loadTable(args[0])
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			return nil
		}

		rows := filter.Apply(symbols)
		if !filter.Empty() {
			log.Infof("%d of %d symbols match the filter", len(rows), len(symbols))
		}

		groups := violation.Classify(rows)
		if len(groups) == 0 {
			log.Info("No violations found")
			return nil
		}

		if viper.GetBool("classify.browse") {
			var data [][]string
			for _, g := range groups {
				for _, s := range g.Symbols {
					data = append(data, append([]string{g.Rule.ID}, symbolRow(s)...))
				}
			}
			return table.NewBrowser(
				fmt.Sprintf("%d violations in %s", violation.Total(groups), args[0]),
				append([]string{"Rule"}, symbolHeaders...),
				data,
			).Run()
		}

		limit := viper.GetInt("classify.limit")
		for _, g := range groups {
			fmt.Printf("%s %s\n",
				colors.Heading().Sprintf("[%s] %s", g.Rule.ID, g.Label()),
				colors.Alert().Sprintf("(%d)", len(g.Symbols)),
			)
			fmt.Println(symbolTable(g.Symbols, limit))
			if limit > 0 && len(g.Symbols) > limit {
				fmt.Println(colors.ItalicFaint().Sprintf("... %d more", len(g.Symbols)-limit))
			}
			fmt.Println()
		}

		if key != nil {
			m := violation.CrossTab(groups, key)
			tbl := table.NewTable(colors.Enabled())
			tbl.SetHeaders(append([]string{viper.GetString("classify.crosstab")}, m.Rules...)...)
			for i := range m.Rules {
				tbl.AlignRight(i + 1)
			}
			for _, k := range m.Keys {
				row := []string{k}
				for _, rule := range m.Rules {
					row = append(row, strconv.Itoa(m.Count(k, rule)))
				}
				tbl.AppendRow(row...)
			}
			fmt.Println(tbl.Render())
			fmt.Println()
		}

		log.WithFields(log.Fields{
			"rules":      len(groups),
			"violations": violation.Total(groups),
		}).Info("Classified")

		if out := viper.GetString("classify.export"); out != "" {
			if err := symtab.Save(out, violation.Flatten(groups)); err != nil {
				return fmt.Errorf("failed to export violations: %w", err)
			}
			utils.Indent(log.Info, 2)(fmt.Sprintf("Violations saved to: %s", out))
		}
		return nil
	},
}
