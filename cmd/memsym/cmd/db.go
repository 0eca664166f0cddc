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
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/colors"
	"github.com/blacktop/memsym/internal/model"
	"github.com/blacktop/memsym/internal/utils"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/blacktop/memsym/pkg/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbImportCmd)
	dbImportCmd.Flags().StringP("project", "p", "", "Project name (default: the CSV's grandparent folder)")
	dbImportCmd.Flags().StringP("date", "d", "", "Date of the table (default: the CSV's parent folder)")
	viper.BindPFlag("db.import.project", dbImportCmd.Flags().Lookup("project"))
	viper.BindPFlag("db.import.date", dbImportCmd.Flags().Lookup("date"))

	dbCmd.AddCommand(dbListCmd)
	dbListCmd.Flags().StringP("project", "p", "", "Only list this project")
	viper.BindPFlag("db.ls.project", dbListCmd.Flags().Lookup("project"))

	dbCmd.AddCommand(dbExportCmd)
	dbExportCmd.Flags().StringP("output", "o", "symbols.csv", "Output CSV path")
	viper.BindPFlag("db.export.output", dbExportCmd.Flags().Lookup("output"))

	dbCmd.AddCommand(dbRemoveCmd)
}

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Store symbol tables in a database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// dbImportCmd represents the db import command
var dbImportCmd = &cobra.Command{
	Use:   "import <CSV>",
	Short: "Store a symbol table",
	Example: heredoc.Doc(`
		# Store a day of a batch project (project and date from the path)
		❯ memsym db import demo/2025-01-01/symbols.csv
		# Store a standalone table
		❯ memsym db import symbols.csv -p scratch -d 2025-02-01`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}

		symbols, err := loadTable(args[0])
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			return nil
		}

		dir := filepath.Dir(args[0])
		project := viper.GetString("db.import.project")
		if project == "" {
			project = filepath.Base(filepath.Dir(dir))
		}
		date := viper.GetString("db.import.date")
		if date == "" {
			date = filepath.Base(dir)
			if _, err := time.Parse(utils.DateLayout, date); err != nil {
				date = time.Now().Format(utils.DateLayout)
			}
		}

		store, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer store.Close()

		d := model.NewDataset(project, date, args[0], symbols)
		if err := store.Create(d); err != nil {
			return fmt.Errorf("failed to store %s: %w", args[0], err)
		}
		log.WithFields(log.Fields{
			"id":      d.ID,
			"project": d.Project,
			"date":    d.Date,
			"symbols": len(d.Symbols),
		}).Info("Stored")
		return nil
	},
}

// dbListCmd represents the db ls command
var dbListCmd = &cobra.Command{
	Use:           "ls",
	Short:         "List stored symbol tables",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}
		store, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer store.Close()

		datasets, err := store.List(viper.GetString("db.ls.project"))
		if err != nil {
			return err
		}
		if len(datasets) == 0 {
			log.Warn("No stored symbol tables")
			return nil
		}

		tbl := table.NewTable(colors.Enabled())
		tbl.SetHeaders("ID", "Project", "Date", "Source", "Stored")
		for _, d := range datasets {
			tbl.AppendRow(d.ID, d.Project, d.Date, d.Source, d.CreatedAt.Format(time.DateTime))
		}
		fmt.Println(tbl.Render())
		fmt.Println(colors.ItalicFaint().Sprintf("%d tables", len(datasets)))
		return nil
	},
}

// dbExportCmd represents the db export command
var dbExportCmd = &cobra.Command{
	Use:           "export <ID>",
	Short:         "Write a stored symbol table to CSV",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}
		store, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer store.Close()

		d, err := store.Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", args[0], err)
		}
		out := viper.GetString("db.export.output")
		if err := symtab.Save(out, d.Table()); err != nil {
			return err
		}
		log.Infof("Symbols saved to: %s", out)
		return nil
	},
}

// dbRemoveCmd represents the db rm command
var dbRemoveCmd = &cobra.Command{
	Use:           "rm <ID>",
	Short:         "Delete a stored symbol table",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		conf, err := setup()
		if err != nil {
			return err
		}
		store, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		log.Infof("Deleted %s", args[0])
		return nil
	},
}
