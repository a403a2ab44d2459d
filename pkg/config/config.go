// Package config provides configuration management for marctable.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Export: batch_size, schema_file
//   - Input: format, charset, normalize
//   - Parquet: compression
//   - SQLite: table
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Export.Rules (per-command)
//   - WithProgress (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use MARCTABLE_ prefix with underscores for nesting:
//
//	MARCTABLE_EXPORT_BATCH_SIZE=5000
//	MARCTABLE_INPUT_CHARSET=replace
//	MARCTABLE_LOG_LEVEL=info
//	MARCTABLE_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete marctable configuration.
type Config struct {
	// Export contains settings shared by all export commands.
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	// Input contains settings for decoding MARC input.
	Input InputConfig `mapstructure:"input" yaml:"input"`

	// Parquet contains settings of the Parquet output.
	Parquet ParquetConfig `mapstructure:"parquet" yaml:"parquet"`

	// SQLite contains settings of the SQLite output.
	SQLite SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of files converted concurrently by
	// the bulk command.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// WithProgress shows a progress bar over the input file.
	WithProgress bool `mapstructure:"-" yaml:"-"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// ExportConfig contains settings of the record to row conversion.
type ExportConfig struct {
	// BatchSize is the number of rows handed to an output writer at once.
	// For Parquet every batch becomes a row group. Zero means the whole
	// input is collected into one batch.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// Rules select fields and subfields for export, for example
	// "245", "245a" or "260ac". Empty slice means all fields of the schema.
	Rules []string `mapstructure:"-" yaml:"-"`

	// SchemaFile is a path to an Avram schema document (JSON or YAML)
	// that replaces the built-in MARC21 bibliographic schema.
	SchemaFile string `mapstructure:"schema_file" yaml:"schema_file"`
}

// InputConfig contains settings for reading MARC records.
type InputConfig struct {
	// Format of the input: "marc" (ISO 2709), "xml" (MARCXML) or "auto",
	// which picks "xml" for files with .xml extension.
	Format string `mapstructure:"format" yaml:"format"`

	// Charset determines what happens to invalid UTF-8 in records that
	// declare Unicode encoding. "strict" skips such records, "replace"
	// repairs the invalid bytes.
	Charset string `mapstructure:"charset" yaml:"charset"`

	// Normalize applies Unicode NFC normalization to decoded values.
	Normalize bool `mapstructure:"normalize" yaml:"normalize"`
}

// ParquetConfig contains settings of the Parquet writer.
type ParquetConfig struct {
	// Compression codec: "snappy", "zstd", "gzip" or "none".
	Compression string `mapstructure:"compression" yaml:"compression"`
}

// SQLiteConfig contains settings of the SQLite writer.
type SQLiteConfig struct {
	// Table is the name of the table that receives the rows.
	Table string `mapstructure:"table" yaml:"table"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Export: ExportConfig{
			BatchSize: 1_000,
		},
		Input: InputConfig{
			Format:  "auto",
			Charset: "strict",
		},
		Parquet: ParquetConfig{
			Compression: "snappy",
		},
		SQLite: SQLiteConfig{
			Table: "records",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
