// Package main provides the marctable CLI application.
// marctable converts MARC records into CSV, JSONL, Parquet and SQLite.
package main

import "github.com/gnames/marctable/cmd"

func main() {
	cmd.Execute()
}
