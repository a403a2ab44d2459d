/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

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
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/internal/iofs"
	"github.com/gnames/marctable/internal/iologger"
	app "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "marctable",
		Short:   "Marctable converts MARC records into tables",
		Long: `Marctable converts MARC bibliographic records (ISO 2709 or MARCXML)
into tabular data: CSV, JSON Lines, Parquet or a SQLite table.

Every selected MARC field becomes a column named F<tag>, every selected
subfield a column named F<tag><code>. Fields are described by an Avram
schema; the built-in MARC21 bibliographic schema is used by default.
Repeatable fields and subfields produce lists.

Commands:
  - csv, jsonl, parquet: convert one input to one output
  - sqlite: load one input into a SQLite table
  - bulk: convert many files concurrently
  - schema: show fields and subfields of the schema

Configuration precedence (highest to lowest):
  1. CLI flags (--rule, --batch, etc.)
  2. Environment variables (MARCTABLE_*)
  3. Config file (~/.config/marctable/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (export.batch_size -> MARCTABLE_EXPORT_BATCH_SIZE).

  Examples:
    MARCTABLE_EXPORT_BATCH_SIZE     Rows per batch (Parquet row group)
    MARCTABLE_EXPORT_SCHEMA_FILE    Avram schema document
    MARCTABLE_INPUT_CHARSET         strict or replace
    MARCTABLE_PARQUET_COMPRESSION   snappy, zstd, gzip or none
    MARCTABLE_LOG_LEVEL             Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "marctable version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for marctable")

	rootCmd.AddCommand(
		getCSVCmd(),
		getJSONLCmd(),
		getParquetCmd(),
		getSQLiteCmd(),
		getBulkCmd(),
		getSchemaCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureSchemaFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("MARCTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Export configuration
	v.BindEnv("export.batch_size", "MARCTABLE_EXPORT_BATCH_SIZE")
	v.BindEnv("export.schema_file", "MARCTABLE_EXPORT_SCHEMA_FILE")

	// Input configuration
	v.BindEnv("input.format", "MARCTABLE_INPUT_FORMAT")
	v.BindEnv("input.charset", "MARCTABLE_INPUT_CHARSET")
	v.BindEnv("input.normalize", "MARCTABLE_INPUT_NORMALIZE")

	// Output configuration
	v.BindEnv("parquet.compression", "MARCTABLE_PARQUET_COMPRESSION")
	v.BindEnv("sqlite.table", "MARCTABLE_SQLITE_TABLE")

	// Log configuration
	v.BindEnv("log.level", "MARCTABLE_LOG_LEVEL")
	v.BindEnv("log.format", "MARCTABLE_LOG_FORMAT")
	v.BindEnv("log.destination", "MARCTABLE_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "MARCTABLE_JOBS_NUMBER")

	v.AutomaticEnv()
}
