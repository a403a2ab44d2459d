// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"testing"

	"github.com/gnames/marctable/pkg/config"
)

// GetTestConfig returns a default configuration with HomeDir pointing
// to a temporary directory, so tests never touch ~/.config/marctable.
// Logs go to stderr. Additional options are applied on top.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.GetTestConfig(t, config.OptExportBatchSize(2))
//	    // ... use cfg
//	}
func GetTestConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptLogDestination("stderr"),
	})
	cfg.Update(opts)
	return cfg
}
