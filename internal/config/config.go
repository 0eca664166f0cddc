// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"

	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	defaultCount     = 1000
	defaultBatchSize = 1000
)

// Drivers are the supported database drivers.
var Drivers = []string{"sqlite", "postgres", "memory"}

// Generator holds the generation defaults.
type Generator struct {
	Count            int   `mapstructure:"count" json:"count"`
	Seed             int64 `mapstructure:"seed" json:"seed"`
	MaxBackfill      int   `mapstructure:"max-backfill" json:"max_backfill"`
	CorrelatedAccess bool  `mapstructure:"correlated-access" json:"correlated_access"`
}

// Database holds the dataset store settings.
type Database struct {
	Driver    string `mapstructure:"driver" json:"driver"`
	Path      string `mapstructure:"path" json:"path"`
	Name      string `mapstructure:"name" json:"database"`
	Host      string `mapstructure:"host" json:"host"`
	Port      string `mapstructure:"port" json:"port"`
	User      string `mapstructure:"user" json:"user"`
	Password  string `mapstructure:"password" json:"password"`
	SSLMode   string `mapstructure:"sslmode" json:"sslmode"`
	BatchSize int    `mapstructure:"batch-size" json:"batch_size"`
}

// Config is the configuration struct
type Config struct {
	Regions   memmap.Table `mapstructure:"regions" json:"regions"`
	Generator Generator    `mapstructure:"generator" json:"generator"`
	Database  Database     `mapstructure:"database" json:"database"`
}

// Dir returns the configuration folder, ~/.config/memsym.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %v", err)
	}
	return filepath.Join(home, ".config", "memsym"), nil
}

func (c *Config) verify() error {
	if len(c.Regions) == 0 {
		c.Regions = memmap.Default()
	}
	if err := c.Regions.Validate(); err != nil {
		return fmt.Errorf("config: %v", err)
	}

	if c.Generator.Count < 0 {
		return fmt.Errorf("config: generator count must not be negative")
	} else if c.Generator.Count == 0 {
		c.Generator.Count = defaultCount
	}
	if c.Generator.MaxBackfill < 0 {
		return fmt.Errorf("config: generator max-backfill must not be negative")
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if !slices.Contains(Drivers, c.Database.Driver) {
		return fmt.Errorf("config: unsupported database driver %q (expected one of %v)", c.Database.Driver, Drivers)
	}
	if c.Database.BatchSize <= 0 {
		c.Database.BatchSize = defaultBatchSize
	}
	switch c.Database.Driver {
	case "sqlite", "memory":
		if c.Database.Path == "" {
			dir, err := Dir()
			if err != nil {
				return err
			}
			name := "memsym.db"
			if c.Database.Driver == "memory" {
				name = "memsym.gob"
			}
			c.Database.Path = filepath.Join(dir, name)
		}
	case "postgres":
		if c.Database.Host == "" {
			c.Database.Host = "localhost"
		}
		if c.Database.Port == "" {
			c.Database.Port = "5432"
		}
		if c.Database.Name == "" {
			c.Database.Name = "memsym"
		}
	}

	return nil
}

// byteSizeHook decodes human readable sizes ("64KiB") and loose numbers into
// memmap.ByteSize.
func byteSizeHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(memmap.ByteSize(0))
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != target {
			return data, nil
		}
		if s, ok := data.(string); ok {
			return memmap.ParseByteSize(s)
		}
		n, err := cast.ToInt64E(data)
		if err != nil {
			return nil, fmt.Errorf("invalid byte size %v: %w", data, err)
		}
		return memmap.ByteSize(n), nil
	}
}

// Load decodes and verifies the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c *Config

	if err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		byteSizeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}
