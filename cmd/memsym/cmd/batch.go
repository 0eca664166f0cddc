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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/commands/gen"
	"github.com/blacktop/memsym/internal/db"
	"github.com/blacktop/memsym/internal/model"
	"github.com/blacktop/memsym/internal/utils"
	"github.com/blacktop/memsym/pkg/trend"
	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("project", "p", "", "Project folder to write the daily tables to")
	batchCmd.Flags().StringP("start", "s", "", "First date (YYYY-MM-DD)")
	batchCmd.Flags().StringP("end", "e", "", "Last date (YYYY-MM-DD, default: start)")
	batchCmd.Flags().IntP("count", "n", 0, "Symbols on the first day (default from config, 1000)")
	batchCmd.Flags().Int64("seed", 0, "Random seed (0 seeds from the clock)")
	batchCmd.Flags().StringP("regions", "r", "", "Region table YAML (overrides config)")
	batchCmd.Flags().Bool("summarize", false, "Write <project>/summary.csv when done")
	batchCmd.Flags().Bool("save", false, "Also store every day in the database")
	batchCmd.MarkFlagRequired("project")
	batchCmd.MarkFlagRequired("start")
	viper.BindPFlag("batch.project", batchCmd.Flags().Lookup("project"))
	viper.BindPFlag("batch.start", batchCmd.Flags().Lookup("start"))
	viper.BindPFlag("batch.end", batchCmd.Flags().Lookup("end"))
	viper.BindPFlag("batch.count", batchCmd.Flags().Lookup("count"))
	viper.BindPFlag("batch.seed", batchCmd.Flags().Lookup("seed"))
	viper.BindPFlag("batch.regions", batchCmd.Flags().Lookup("regions"))
	viper.BindPFlag("batch.summarize", batchCmd.Flags().Lookup("summarize"))
	viper.BindPFlag("batch.save", batchCmd.Flags().Lookup("save"))
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate one symbol table per day over a date range",
	Example: heredoc.Doc(`
		# Generate a month of tables into ./demo/<date>/symbols.csv
		❯ memsym batch -p demo -s 2025-01-01 -e 2025-01-31
		# 5000 symbols on the first day, reproducible, with a summary
		❯ memsym batch -p demo -s 2025-01-01 -e 2025-01-07 -n 5000 --seed 7 --summarize
		# Store every day in the configured database as well
		❯ memsym batch -p demo -s 2025-01-01 -e 2025-01-07 --save`),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}

		regions, err := regionTable(conf, viper.GetString("batch.regions"))
		if err != nil {
			return err
		}

		batch := gen.BatchConfig{
			Config: gen.Config{
				Regions:     regions,
				Seed:        conf.Generator.Seed,
				MaxBackfill: conf.Generator.MaxBackfill,
				Correlated:  conf.Generator.CorrelatedAccess,
			},
			Project: viper.GetString("batch.project"),
			Start:   viper.GetString("batch.start"),
			End:     viper.GetString("batch.end"),
			Count:   conf.Generator.Count,
		}
		if batch.End == "" {
			batch.End = batch.Start
		}
		if cmd.Flags().Changed("count") {
			batch.Count = viper.GetInt("batch.count")
		}
		if cmd.Flags().Changed("seed") {
			batch.Seed = viper.GetInt64("batch.seed")
		}

		dates, err := batch.Dates()
		if err != nil {
			return err
		}

		var store db.Database
		if viper.GetBool("batch.save") {
			if store, err = openDatabase(conf); err != nil {
				return err
			}
			defer store.Close()
		}

		log.WithFields(log.Fields{
			"project": batch.Project,
			"days":    len(dates),
			"count":   batch.Count,
		}).Info("Generating")

		p := mpb.New(mpb.WithWidth(80))
		name := "     "
		bar := p.New(int64(len(dates)),
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "✅ "),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("%d/%d"),
				decor.Name(" ] "),
			),
		)

		var progress batchProgress

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err = ctrlc.Default.Run(ctx, func() error {
			return gen.RunBatch(ctx, &batch, func(r gen.DayReport) {
				progress.record(r)
				if _, failed := progress.snapshot(); store != nil && failed == nil {
					d := model.NewDataset(filepath.Base(batch.Project), r.Date, r.Path, r.Result.Symbols)
					if err := store.Create(d); err != nil {
						progress.fail(fmt.Errorf("failed to store %s: %w", r.Date, err))
						cancel()
					}
				}
				bar.Increment()
			})
		})
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()

		// on Ctrl-C the batch goroutine may still be running a day
		last, saveErr := progress.snapshot()
		if saveErr != nil {
			return saveErr
		}
		if err != nil {
			if errors.As(err, &ctrlc.ErrorCtrlC{}) {
				log.Warn("Exiting...")
				return nil
			}
			return err
		}

		log.Infof("Last day %s:", last.Date)
		gen.LogUsage(last.Result.Usage)

		if viper.GetBool("batch.summarize") {
			days, err := trend.Summarize(batch.Project)
			if err != nil {
				return err
			}
			out := filepath.Join(batch.Project, "summary.csv")
			if err := trend.Save(out, days, regions.Names()); err != nil {
				return err
			}
			utils.Indent(log.Info, 2)(fmt.Sprintf("Summary saved to: %s", out))
		}
		return nil
	},
}

// batchProgress is the state shared between the batch goroutine and the command.
type batchProgress struct {
	mu   sync.Mutex
	last gen.DayReport
	err  error
}

func (b *batchProgress) record(r gen.DayReport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = r
}

// fail keeps the first error.
func (b *batchProgress) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

func (b *batchProgress) snapshot() (gen.DayReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.err
}
