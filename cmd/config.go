package cmd

import (
	"sp-depends/internal/schema"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the resolved configuration handed to the commands.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Output     OutputConfig     `mapstructure:"output"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DBConfig         `mapstructure:"database"`
	Databases  []DBConfig       `mapstructure:"databases"`
}

type RepositoryConfig struct {
	Path            string `mapstructure:"path"`
	DefaultDatabase string `mapstructure:"default_database"`
	DefaultSchema   string `mapstructure:"default_schema"`
}

type OutputConfig struct {
	File            string `mapstructure:"file"`
	Dir             string `mapstructure:"dir"`
	PlaceholderType string `mapstructure:"placeholder_type"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	NoColor bool   `mapstructure:"no_color"`
}

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// LoadConfig unmarshals flags, environment and config file into a Config.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if c.Repository.DefaultSchema == "" {
		c.Repository.DefaultSchema = schema.DefaultSchema
	}
	return &c, nil
}

// ActiveDatabase returns the live catalog to consult, or nil when none is
// configured. A --dsn flag wins over the databases list.
func (c *Config) ActiveDatabase() (*DBConfig, error) {
	if c.Database.DSN != "" {
		db := c.Database
		if db.Name == "" {
			db.Name = "CLI Wrapper"
		}
		return &db, nil
	}

	var activeConfig *DBConfig
	count := 0

	for i := range c.Databases {
		if c.Databases[i].Active {
			activeConfig = &c.Databases[i]
			count++
		}
	}

	if count > 1 {
		return nil, errors.New("multiple active databases found (only one can be active)")
	}
	if activeConfig != nil && activeConfig.DSN == "" {
		return nil, errors.Errorf("active database %q has no dsn", activeConfig.Name)
	}
	return activeConfig, nil
}
