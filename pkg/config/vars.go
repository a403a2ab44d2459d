package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "marctable"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/marctable by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/marctable by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/marctable/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/marctable/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SchemaFilePath returns the path where the built-in schema document
// is written for inspection and editing.
// Returns ~/.config/marctable/marc.json by default.
func SchemaFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "marc.json")
}
