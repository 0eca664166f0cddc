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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/colors"
	"github.com/blacktop/memsym/internal/config"
	"github.com/blacktop/memsym/internal/db"
	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setup applies the global flags and loads the configuration.
func setup() (*config.Config, error) {
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	switch {
	case viper.GetBool("no-color"):
		off := false
		colors.Init(&off)
	case viper.GetBool("color"):
		on := true
		colors.Init(&on)
	default:
		colors.Init(nil)
	}

	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// regionTable returns the regions of the file given with --regions, falling back
// to the configured table.
func regionTable(conf *config.Config, path string) (memmap.Table, error) {
	if path == "" {
		return conf.Regions, nil
	}
	table, err := memmap.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region table: %w", err)
	}
	return table, nil
}

// loadTable loads a symbol table. A missing file is not an error: it is logged and
// yields an empty table.
func loadTable(path string) ([]*symtab.Symbol, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Warnf("%s does not exist, there is no data to process", path)
		return nil, nil
	}
	symbols, err := symtab.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":    path,
		"symbols": len(symbols),
	}).Debug("Loaded symbol table")
	return symbols, nil
}

// addFilterFlags adds the row filter flags, bound to <name>.<flag>.
func addFilterFlags(cmd *cobra.Command, name string) {
	cmd.Flags().StringSliceP("memory", "m", []string{}, "Only keep symbols in these regions")
	cmd.Flags().StringSlice("module", []string{}, "Only keep symbols of these modules")
	cmd.Flags().StringSlice("folder", []string{}, "Only keep symbols in these folders")
	cmd.Flags().StringSlice("section", []string{}, "Only keep these input sections (code, data, bss)")
	cmd.Flags().StringSlice("realtime", []string{}, "Only keep these realtime classes (High, Medium, Low)")
	for _, flag := range []string{"memory", "module", "folder", "section", "realtime"} {
		viper.BindPFlag(name+"."+flag, cmd.Flags().Lookup(flag))
	}
}

// readFilter builds the row filter from the flags bound by addFilterFlags.
func readFilter(name string) (symtab.Filter, error) {
	f := symtab.Filter{
		Memory: viper.GetStringSlice(name + ".memory"),
		Module: viper.GetStringSlice(name + ".module"),
		Folder: viper.GetStringSlice(name + ".folder"),
	}
	for _, s := range viper.GetStringSlice(name + ".section") {
		section := symtab.InputSection(strings.ToLower(s))
		if !section.Valid() {
			return f, fmt.Errorf("invalid --section %q (expected one of %v)", s, symtab.InputSections)
		}
		f.Section = append(f.Section, section)
	}
	for _, r := range viper.GetStringSlice(name + ".realtime") {
		class := symtab.Realtime(r)
		if r != "" {
			class = symtab.Realtime(strings.ToUpper(r[:1]) + strings.ToLower(r[1:]))
		}
		if !class.Valid() {
			return f, fmt.Errorf("invalid --realtime %q (expected one of %v)", r, symtab.RealtimeLevels)
		}
		f.Realtime = append(f.Realtime, class)
	}
	return f, nil
}

// openDatabase connects to the configured dataset store.
func openDatabase(conf *config.Config) (db.Database, error) {
	var (
		d   db.Database
		err error
	)
	if conf.Database.Driver != "postgres" {
		if err := os.MkdirAll(filepath.Dir(conf.Database.Path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database folder: %w", err)
		}
	}
	switch conf.Database.Driver {
	case "sqlite":
		d, err = db.NewSqlite(conf.Database.Path, conf.Database.BatchSize)
	case "postgres":
		d, err = db.NewPostgres(
			conf.Database.Host,
			conf.Database.Port,
			conf.Database.User,
			conf.Database.Password,
			conf.Database.Name,
			conf.Database.SSLMode,
			conf.Database.BatchSize,
		)
	case "memory":
		d, err = db.NewInMemory(conf.Database.Path)
	default:
		err = fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := d.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", conf.Database.Driver, err)
	}
	return d, nil
}

func bytesStr(n int64) string {
	if n < 0 {
		return humanize.Comma(n)
	}
	return humanize.IBytes(uint64(n))
}
