package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/marctable/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "marctable"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "marctable"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "marctable", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "marctable", "config.yaml"),
		},
		{
			msg: "schema file",
			fn:  config.SchemaFilePath,
			res: filepath.Join(tempHome, ".config", "marctable", "marc.json"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, 1000, cfg.Export.BatchSize)
		assert.Nil(t, cfg.Export.Rules)
		assert.Equal(t, "", cfg.Export.SchemaFile)

		assert.Equal(t, "auto", cfg.Input.Format)
		assert.Equal(t, "strict", cfg.Input.Charset)
		assert.False(t, cfg.Input.Normalize)

		assert.Equal(t, "snappy", cfg.Parquet.Compression)
		assert.Equal(t, "records", cfg.SQLite.Table)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
		assert.False(t, cfg.WithProgress)
	})
}

func TestOptionExportBatchSize(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid batch size",
			input:    10000,
			expected: 10000,
		},
		{
			name:     "accepts zero as single batch",
			input:    0,
			expected: 0,
		},
		{
			name:     "ignores negative",
			input:    -1000,
			expected: 1000, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptExportBatchSize(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Export.BatchSize)
		})
	}
}

func TestOptionExportRules(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "sets rules",
			input:    []string{"245a", "260c"},
			expected: []string{"245a", "260c"},
		},
		{
			name:     "trims and drops empty rules",
			input:    []string{" 245 ", "", "  "},
			expected: []string{"245"},
		},
		{
			name:     "nil means all fields",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptExportRules(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Export.Rules)
		})
	}
}

func TestOptionInputFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets marc",
			input:    "marc",
			expected: "marc",
		},
		{
			name:     "sets xml",
			input:    "xml",
			expected: "xml",
		},
		{
			name:     "normalizes to lowercase",
			input:    " XML ",
			expected: "xml",
		},
		{
			name:     "ignores invalid value",
			input:    "mrk",
			expected: "auto", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptInputFormat(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Input.Format)
		})
	}
}

func TestOptionInputCharset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets replace",
			input:    "replace",
			expected: "replace",
		},
		{
			name:     "ignores invalid value",
			input:    "ignore",
			expected: "strict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptInputCharset(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Input.Charset)
		})
	}
}

func TestOptionParquetCompression(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets zstd",
			input:    "zstd",
			expected: "zstd",
		},
		{
			name:     "sets none",
			input:    "NONE",
			expected: "none",
		},
		{
			name:     "ignores invalid value",
			input:    "lzo",
			expected: "snappy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptParquetCompression(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Parquet.Compression)
		})
	}
}

func TestOptionSQLiteTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid table",
			input:    "bib_2024",
			expected: "bib_2024",
		},
		{
			name:     "ignores table with spaces",
			input:    "bib records",
			expected: "records",
		},
		{
			name:     "ignores injection attempt",
			input:    "x; DROP TABLE y",
			expected: "records",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptSQLiteTable(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.SQLite.Table)
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - warn",
			input:    "warn",
			expected: "warn",
		},
		{
			name:     "normalizes to lowercase",
			input:    "ERROR",
			expected: "error",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets stderr",
			input:    "stderr",
			expected: "stderr",
		},
		{
			name:     "sets stdout",
			input:    "stdout",
			expected: "stdout",
		},
		{
			name:     "ignores invalid value",
			input:    "syslog",
			expected: "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogDestination(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -5,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptExportBatchSize(500),
			config.OptExportRules([]string{"245a"}),
			config.OptInputFormat("xml"),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, 500, cfg.Export.BatchSize)
		assert.Equal(t, []string{"245a"}, cfg.Export.Rules)
		assert.Equal(t, "xml", cfg.Input.Format)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, "strict", cfg.Input.Charset)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptSQLiteTable("first"),
			config.OptSQLiteTable("second"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second", cfg.SQLite.Table)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		// Create config with custom values
		original := config.New()
		opts := []config.Option{
			config.OptExportBatchSize(250),
			config.OptExportSchemaFile("/tmp/schema.json"),
			config.OptInputFormat("marc"),
			config.OptInputCharset("replace"),
			config.OptInputNormalize(true),
			config.OptParquetCompression("zstd"),
			config.OptSQLiteTable("bib"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		// Convert to options and apply to new config
		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		// Verify persistent fields match
		assert.Equal(t, original.Export.BatchSize, newCfg.Export.BatchSize)
		assert.Equal(t, original.Export.SchemaFile, newCfg.Export.SchemaFile)
		assert.Equal(t, original.Input, newCfg.Input)
		assert.Equal(t, original.Parquet, newCfg.Parquet)
		assert.Equal(t, original.SQLite, newCfg.SQLite)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptExportRules([]string{"245", "650"}),
			config.OptWithProgress(true),
		})

		// These fields should not be in ToOptions() output
		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		// Runtime fields should remain at defaults in newCfg
		assert.Equal(t, "", newCfg.HomeDir)
		assert.Nil(t, newCfg.Export.Rules)
		assert.False(t, newCfg.WithProgress)
	})
}
