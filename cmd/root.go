package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sp-depends/internal/logging"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// appFs backs every file read and write of the commands.
	appFs = afero.NewOsFs()
)

var RootCmd = &cobra.Command{
	Use:   "sp-depends",
	Short: "Stored procedure dependency scraper",
	Long: `
SP-DEPENDS - Stored Procedure Dependency Scraper

Scrapes the tables and columns a T-SQL stored procedure reads and emits
synthetic CREATE TABLE statements for them, typed from the table scripts
of a database repository laid out as
<repo>/<Database>/<Schema>/Tables/<Schema>.<Table>.sql.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup(os.Stderr, viper.GetString("log.level"), viper.GetBool("log.no_color"))
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./sp-depends.yaml)")
	flags.String("repo", "", "Top-level path of the database repository")
	flags.String("default-db", "", "Database assumed for one- and two-part table names")
	flags.String("default-schema", "", "Schema assumed for one-part table names (default dbo)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.String("dsn", "", "Database Source Name (DSN) of a live catalog for column types")
	flags.String("driver", "", "Driver of the live catalog (sqlserver, mysql, postgres, oracle)")

	// Bind flags to viper
	viper.BindPFlag("repository.path", flags.Lookup("repo"))
	viper.BindPFlag("repository.default_database", flags.Lookup("default-db"))
	viper.BindPFlag("repository.default_schema", flags.Lookup("default-schema"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.no_color", flags.Lookup("no-color"))
	viper.BindPFlag("database.dsn", flags.Lookup("dsn"))
	viper.BindPFlag("database.driver", flags.Lookup("driver"))

	// Set default for Viper (fallback if no config/flag)
	viper.SetDefault("repository.path", ".")
	viper.SetDefault("repository.default_schema", "dbo")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("database.driver", "sqlserver")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("sp-depends")
		viper.SetConfigType("yaml")
	}

	// SPDEPENDS_REPOSITORY_PATH overrides repository.path, etc.
	viper.SetEnvPrefix("spdepends")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
