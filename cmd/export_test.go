package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/marctable/internal/iotesting"
	marctable "github.com/gnames/marctable/pkg"
	"github.com/gnames/marctable/pkg/config"
	"github.com/gnames/marctable/pkg/rules"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func writeLeak(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var data []byte
	if strings.HasSuffix(name, ".xml") {
		data = iotesting.EncodeXML(iotesting.LeakTesting())
	} else {
		data = iotesting.Encode(iotesting.LeakTesting())
	}
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExportOptions(t *testing.T) {
	var flags exportFlags
	c := &cobra.Command{Use: "test"}
	addExportFlags(c, &flags)
	require.NoError(t, c.Flags().Set("rule", "245a"))
	require.NoError(t, c.Flags().Set("rule", "650"))
	require.NoError(t, c.Flags().Set("batch", "7"))
	require.NoError(t, c.Flags().Set("charset", "replace"))

	cfg = iotesting.GetTestConfig(t)
	cfg.Update(exportOptions(c, &flags))
	assert.Equal(t, []string{"245a", "650"}, cfg.Export.Rules)
	assert.Equal(t, 7, cfg.Export.BatchSize)
	assert.Equal(t, "replace", cfg.Input.Charset)
	assert.False(t, cfg.WithProgress)
	assert.Equal(t, config.New().Input.Format, cfg.Input.Format)
}

func TestRunStream(t *testing.T) {
	tests := []struct {
		msg    string
		input  string
		export streamFunc
		exp    string
	}{
		{
			"csv from marc", "leak.mrc", marctable.Exporter.ToCSV,
			"F001,F245a\n\"   00537390 \",Leak testing CD-ROM\n",
		},
		{
			"jsonl from xml", "leak.xml", marctable.Exporter.ToJSONL,
			`{"F001":"   00537390 ","F245a":"Leak testing CD-ROM"}` + "\n",
		},
	}

	for _, v := range tests {
		cfg = iotesting.GetTestConfig(t,
			config.OptExportRules([]string{"001", "245a"}),
		)
		input := writeLeak(t, v.input)
		output := filepath.Join(t.TempDir(), "out")

		stats, err := runStream(context.Background(), input, output, v.export)
		require.NoError(t, err, v.msg)
		assert.Equal(t, 1, stats.Records, v.msg)

		res, err := os.ReadFile(output)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.exp, string(res), v.msg)
	}
}

func TestRunStreamFormatByName(t *testing.T) {
	cfg = iotesting.GetTestConfig(t, config.OptExportRules([]string{"001"}))
	input := writeLeak(t, "leak.xml")
	output := filepath.Join(t.TempDir(), "out.jsonl")

	cfg.Update([]config.Option{config.OptInputFormat("auto")})
	stats, err := runStream(context.Background(), input, output, marctable.Exporter.ToJSONL)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, "auto", cfg.Input.Format)

	// the next input is resolved on its own
	stats, err = runStream(context.Background(), writeLeak(t, "leak.mrc"), output,
		marctable.Exporter.ToJSONL)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, "auto", cfg.Input.Format)
}

func TestRunStreamErrors(t *testing.T) {
	cfg = iotesting.GetTestConfig(t, config.OptExportRules([]string{"999"}))
	output := filepath.Join(t.TempDir(), "out.csv")
	_, err := runStream(context.Background(), writeLeak(t, "leak.mrc"), output,
		marctable.Exporter.ToCSV)
	require.Error(t, err)
	assert.True(t, rules.IsInvalidRule(err))
	assert.NoFileExists(t, output)

	cfg = iotesting.GetTestConfig(t)
	_, err = runStream(context.Background(),
		filepath.Join(t.TempDir(), "missing.mrc"), output,
		marctable.Exporter.ToCSV)
	assert.Error(t, err)

	cfg = iotesting.GetTestConfig(t,
		config.OptExportSchemaFile(filepath.Join(t.TempDir(), "none.json")),
	)
	_, err = runStream(context.Background(), writeLeak(t, "leak.mrc"), output,
		marctable.Exporter.ToCSV)
	assert.Error(t, err)
}

func TestRunStreamParquet(t *testing.T) {
	cfg = iotesting.GetTestConfig(t, config.OptExportRules([]string{"245", "650"}))
	output := filepath.Join(t.TempDir(), "out.parquet")
	stats, err := runStream(context.Background(), writeLeak(t, "leak.mrc"), output,
		marctable.Exporter.ToParquet)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Batches)

	res, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res, []byte("PAR1")))
}

func TestRunSQLite(t *testing.T) {
	cfg = iotesting.GetTestConfig(t,
		config.OptExportRules([]string{"001", "650"}),
		config.OptSQLiteTable("leak"),
	)
	dbPath := filepath.Join(t.TempDir(), "marc.db")
	stats, err := runSQLite(context.Background(), writeLeak(t, "leak.mrc"), dbPath)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var id, subjects string
	err = db.QueryRow(`SELECT "F001", "F650" FROM "leak"`).Scan(&id, &subjects)
	require.NoError(t, err)
	assert.Equal(t, "   00537390 ", id)
	assert.Equal(t, `["Leak detectors.","Gas leakage."]`, subjects)
}

func TestRunBulk(t *testing.T) {
	cfg = iotesting.GetTestConfig(t,
		config.OptExportRules([]string{"001"}),
		config.OptJobsNumber(2),
	)
	dir := t.TempDir()
	var inputs []string
	for _, v := range []string{"a.mrc", "b.mrc", "c.mrc"} {
		path := filepath.Join(dir, v)
		data := iotesting.EncodeAll(iotesting.Records(2)...)
		require.NoError(t, os.WriteFile(path, data, 0644))
		inputs = append(inputs, path)
	}

	outDir := filepath.Join(dir, "out", "jsonl")
	stats, err := runBulk(context.Background(), inputs, "jsonl", outDir)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	res, err := os.ReadFile(filepath.Join(outDir, "b.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "{\"F001\":\"rec-0\"}\n{\"F001\":\"rec-1\"}\n", string(res))

	_, err = runBulk(context.Background(), inputs, "xlsx", outDir)
	assert.Error(t, err)
}

func TestRunSchema(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)

	tests := []struct {
		msg, arg string
		lines    []string
	}{
		{"all fields", "", []string{
			"MARC21 bibliographic format (245 fields)",
			"245 Title Statement: NR : a,b,c,f,g,h,k,n,p,s,6,7,8",
		}},
		{"one field", "245", []string{
			"245 Title Statement: NR : a,b,c,f,g,h,k,n,p,s,6,7,8",
			"  a Title: NR",
		}},
		{"subfields", "260ac", []string{"260a", "260c"}},
	}

	for _, v := range tests {
		var buf bytes.Buffer
		require.NoError(t, runSchema(&buf, v.arg, ""), v.msg)
		for _, l := range v.lines {
			assert.Contains(t, buf.String(), l, v.msg)
		}
	}

	var buf bytes.Buffer
	assert.Error(t, runSchema(&buf, "999", ""))
	assert.Error(t, runSchema(&buf, "245z", ""))
	assert.Error(t, runSchema(&buf, "24", ""))
}

func TestRunSchemaSave(t *testing.T) {
	cfg = iotesting.GetTestConfig(t)
	path := filepath.Join(t.TempDir(), "schema.json")
	var buf bytes.Buffer
	require.NoError(t, runSchema(&buf, "", path))
	assert.Empty(t, buf.String())

	// the saved schema can be used for exports
	cfg = iotesting.GetTestConfig(t,
		config.OptExportSchemaFile(path),
		config.OptExportRules([]string{"245a"}),
	)
	output := filepath.Join(t.TempDir(), "out.csv")
	_, err := runStream(context.Background(), writeLeak(t, "leak.mrc"), output,
		marctable.Exporter.ToCSV)
	require.NoError(t, err)
	res, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "F245a\nLeak testing CD-ROM\n", string(res))
}

func TestOutputArg(t *testing.T) {
	assert.Equal(t, "-", outputArg([]string{"in.mrc"}))
	assert.Equal(t, "out.csv", outputArg([]string{"in.mrc", "out.csv"}))
}
