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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/commands/gen"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntP("count", "n", 0, "Number of symbols to generate (default from config, 1000)")
	generateCmd.Flags().StringP("output", "o", "symbols.csv", "Output CSV path")
	generateCmd.Flags().IntP("day", "d", 1, "Day index (days after the first drift the previous table)")
	generateCmd.Flags().StringP("prev", "p", "", "Previous day's CSV to continue from")
	generateCmd.Flags().Int64("seed", 0, "Random seed (0 seeds from the clock)")
	generateCmd.Flags().StringP("regions", "r", "", "Region table YAML (overrides config)")
	generateCmd.Flags().Int("max-backfill", 0, "Small symbol backfill attempts per requested symbol")
	generateCmd.Flags().Bool("correlated", false, "Correlate access counts with the realtime class")
	viper.BindPFlag("generate.count", generateCmd.Flags().Lookup("count"))
	viper.BindPFlag("generate.output", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("generate.day", generateCmd.Flags().Lookup("day"))
	viper.BindPFlag("generate.prev", generateCmd.Flags().Lookup("prev"))
	viper.BindPFlag("generate.seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("generate.regions", generateCmd.Flags().Lookup("regions"))
	viper.BindPFlag("generate.max-backfill", generateCmd.Flags().Lookup("max-backfill"))
	viper.BindPFlag("generate.correlated", generateCmd.Flags().Lookup("correlated"))
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a synthetic symbol table",
	Example: heredoc.Doc(`
		# Generate 1000 symbols into symbols.csv
		❯ memsym generate
		# Generate a reproducible table of 5000 symbols
		❯ memsym generate -n 5000 --seed 42 -o day1.csv
		# Grow yesterday's table by up to 2%
		❯ memsym generate --day 2 --prev day1.csv -o day2.csv
		# Use a custom region table
		❯ memsym generate --regions regions.yaml`),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}

		regions, err := regionTable(conf, viper.GetString("generate.regions"))
		if err != nil {
			return err
		}

		count := conf.Generator.Count
		if cmd.Flags().Changed("count") {
			count = viper.GetInt("generate.count")
		}
		seed := conf.Generator.Seed
		if cmd.Flags().Changed("seed") {
			seed = viper.GetInt64("generate.seed")
		}
		backfill := conf.Generator.MaxBackfill
		if cmd.Flags().Changed("max-backfill") {
			backfill = viper.GetInt("generate.max-backfill")
		}

		day := gen.DayConfig{
			Config: gen.Config{
				Regions:     regions,
				Seed:        seed,
				MaxBackfill: backfill,
				Correlated:  conf.Generator.CorrelatedAccess || viper.GetBool("generate.correlated"),
			},
			Count:  count,
			Output: viper.GetString("generate.output"),
			Day:    viper.GetInt("generate.day"),
		}
		if day.Day < 1 {
			return fmt.Errorf("--day must be at least 1")
		}

		if prev := viper.GetString("generate.prev"); prev != "" {
			if day.Previous, err = loadTable(prev); err != nil {
				return err
			}
			if day.Day > 1 && len(day.Previous) == 0 {
				log.Warn("No previous symbols, generating a fresh table")
			}
		}

		res, err := gen.GenerateDay(&day)
		if err != nil {
			return err
		}
		gen.LogResult(res)

		log.Infof("Symbols saved to: %s", day.Output)
		return nil
	},
}
