package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptExportBatchSize sets the number of rows per batch.
// Zero is accepted and means one batch for the whole input.
func OptExportBatchSize(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Export Batch Size", i) {
			c.Export.BatchSize = i
		}
	}
}

// OptExportRules sets field/subfield selection rules.
// Rules are trimmed, empty rules are dropped.
// Runtime-only field - not in ToOptions().
func OptExportRules(ss []string) Option {
	var rules []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			rules = append(rules, v)
		}
	}
	return func(c *Config) {
		c.Export.Rules = rules
	}
}

// OptExportSchemaFile sets the path to a custom Avram schema document.
func OptExportSchemaFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Export Schema File", s) {
			c.Export.SchemaFile = s
		}
	}
}

// OptInputFormat sets the format of MARC input.
// Valid values: "auto", "marc", "xml".
func OptInputFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Input.Format", s) {
			c.Input.Format = s
		}
	}
}

// OptInputCharset sets handling of invalid UTF-8 in the input.
// Valid values: "strict", "replace".
func OptInputCharset(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Input.Charset", s) {
			c.Input.Charset = s
		}
	}
}

// OptInputNormalize turns on Unicode NFC normalization of values.
func OptInputNormalize(b bool) Option {
	return func(c *Config) {
		c.Input.Normalize = b
	}
}

// OptParquetCompression sets the compression codec of Parquet output.
// Valid values: "snappy", "zstd", "gzip", "none".
func OptParquetCompression(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Parquet.Compression", s) {
			c.Parquet.Compression = s
		}
	}
}

// OptSQLiteTable sets the name of the SQLite table for exported rows.
func OptSQLiteTable(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdent("SQLite Table", s) {
			c.SQLite.Table = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of files converted concurrently.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptWithProgress turns the progress bar on or off.
// Runtime-only field - not in ToOptions().
func OptWithProgress(b bool) Option {
	return func(c *Config) {
		c.WithProgress = b
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
