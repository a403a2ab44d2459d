package ioexport_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/marctable/internal/ioexport"
	"github.com/gnames/marctable/internal/iotesting"
	"github.com/gnames/marctable/pkg/avram"
	"github.com/gnames/marctable/pkg/config"
	"github.com/gnames/marctable/pkg/errcode"
	"github.com/gnames/marctable/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leakRules = []string{"245a", "260c", "650"}

func TestNewInvalidRule(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, config.OptExportRules([]string{"245a", "999"}))
	exp, err := ioexport.New(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, exp)
	assert.True(t, rules.IsInvalidRule(err))
}

func TestColumns(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, config.OptExportRules(leakRules))
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"F245a", "F260c", "F650"}, exp.Columns())

	cfg = iotesting.GetTestConfig(t)
	exp, err = ioexport.New(cfg, nil)
	require.NoError(t, err)
	cols := exp.Columns()
	assert.Len(t, cols, avram.Default().Len())
	assert.Equal(t, "F001", cols[0])
}

func TestToJSONL(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, config.OptExportRules(leakRules))
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	in := bytes.NewReader(iotesting.Encode(iotesting.LeakTesting()))
	var out bytes.Buffer
	stats, err := exp.ToJSONL(context.Background(), in, &out)
	require.NoError(t, err)

	exp1 := `{"F245a":"Leak testing CD-ROM","F260c":["c2000."],` +
		`"F650":["Leak detectors.","Gas leakage."]}` + "\n"
	assert.Equal(t, exp1, out.String())
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 1, stats.Batches)
}

func TestToCSVBatches(t *testing.T) {
	tests := []struct {
		msg             string
		batch, records  int
		batches, header int
	}{
		{"several batches", 2, 5, 3, 1},
		{"exact batches", 2, 4, 2, 1},
		{"one big batch", 0, 5, 1, 1},
		{"empty input", 2, 0, 0, 1},
	}

	for _, v := range tests {
		cfg := iotesting.GetTestConfig(t,
			config.OptExportRules([]string{"001", "245a"}),
			config.OptExportBatchSize(v.batch),
		)
		exp, err := ioexport.New(cfg, nil)
		require.NoError(t, err, v.msg)

		data := iotesting.EncodeAll(iotesting.Records(v.records)...)
		var out bytes.Buffer
		stats, err := exp.ToCSV(context.Background(), bytes.NewReader(data), &out)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.records, stats.Records, v.msg)
		assert.Equal(t, v.batches, stats.Batches, v.msg)

		recs, err := csv.NewReader(&out).ReadAll()
		require.NoError(t, err, v.msg)
		require.Len(t, recs, v.records+v.header, v.msg)
		assert.Equal(t, []string{"F001", "F245a"}, recs[0], v.msg)
		if v.records > 0 {
			assert.Equal(t, []string{"rec-0", "Title 0"}, recs[1], v.msg)
		}
	}
}

func TestSkipped(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, config.OptExportRules([]string{"001"}))
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	recs := iotesting.Records(3)
	bad := iotesting.Encode(recs[1])
	bad[1] = 'x'
	var data []byte
	data = append(data, iotesting.Encode(recs[0])...)
	data = append(data, bad...)
	data = append(data, iotesting.Encode(recs[2])...)

	var out bytes.Buffer
	stats, err := exp.ToJSONL(context.Background(), bytes.NewReader(data), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, "{\"F001\":\"rec-0\"}\n{\"F001\":\"rec-2\"}\n", out.String())
}

func TestXMLInput(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, config.OptExportRules(leakRules))
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	in := bytes.NewReader(iotesting.EncodeXML(iotesting.LeakTesting()))
	tbl, stats, err := exp.ToTable(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	require.Equal(t, 1, tbl.Len())
	s, ok := tbl.Rows[0].Get("F245a").Scalar()
	assert.True(t, ok)
	assert.Equal(t, "Leak testing CD-ROM", s)
}

func TestToTable(t *testing.T) {
	cfg := iotesting.GetTestConfig(t,
		config.OptExportRules([]string{"001", "650"}),
		config.OptExportBatchSize(1),
	)
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	data := iotesting.EncodeAll(iotesting.Records(4)...)
	tbl, stats, err := exp.ToTable(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Batches)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, []string{"F001", "F650"}, tbl.Columns)

	subj := tbl.Column("F650")
	require.Len(t, subj, 4)
	assert.True(t, subj[0].IsAbsent())
	assert.Equal(t, []string{"Subject 2.0", "Subject 2.1"}, subj[2].Strings())

	tbl, stats, err = exp.ToTable(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 0, stats.Batches)
}

func TestCanceled(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := iotesting.EncodeAll(iotesting.Records(3)...)
	var out bytes.Buffer
	_, err = exp.ToCSV(ctx, bytes.NewReader(data), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadInputFormat(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	cfg.Input.Format = "csv"
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	_, err = exp.ToCSV(context.Background(), strings.NewReader(""), &out)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.InputFormatError, gnErr.Code)
}

func TestSettingsCopied(t *testing.T) {
	cfg := iotesting.GetTestConfig(t,
		config.OptExportRules([]string{"001"}),
		config.OptInputFormat("marc"),
		config.OptExportBatchSize(2),
	)
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)

	cfg.Update([]config.Option{
		config.OptInputFormat("xml"),
		config.OptExportBatchSize(1),
	})

	in := bytes.NewReader(iotesting.EncodeAll(iotesting.Records(4)...))
	var out bytes.Buffer
	stats, err := exp.ToCSV(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 2, stats.Batches)
}

func TestJobs(t *testing.T) {
	jobs := ioexport.Jobs(
		[]string{"data/a.mrc", "b.xml", "c"}, "out", "sqlite",
	)
	assert.Equal(t, []ioexport.Job{
		{Input: "data/a.mrc", Output: filepath.Join("out", "a.db"), Format: "sqlite"},
		{Input: "b.xml", Output: filepath.Join("out", "b.db"), Format: "sqlite"},
		{Input: "c", Output: filepath.Join("out", "c.db"), Format: "sqlite"},
	}, jobs)
	assert.Equal(t, ".parquet", ioexport.Extension("parquet"))
}

func TestBulk(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping bulk export in short mode")
	}
	dir := t.TempDir()
	cfg := iotesting.GetTestConfig(t,
		config.OptExportRules([]string{"001", "650"}),
		config.OptJobsNumber(2),
	)

	var inputs []string
	for i := range 4 {
		path := filepath.Join(dir, "in"+string(rune('a'+i))+".mrc")
		data := iotesting.EncodeAll(iotesting.Records(i + 1)...)
		require.NoError(t, os.WriteFile(path, data, 0644))
		inputs = append(inputs, path)
	}
	// an XML file goes through the same jobs
	xmlPath := filepath.Join(dir, "leak.xml")
	require.NoError(t, os.WriteFile(xmlPath, iotesting.EncodeXML(iotesting.LeakTesting()), 0644))
	inputs = append(inputs, xmlPath)

	for _, format := range []string{"csv", "jsonl", "parquet", "sqlite"} {
		outDir := filepath.Join(dir, format)
		require.NoError(t, os.MkdirAll(outDir, 0755))
		jobs := ioexport.Jobs(inputs, outDir, format)
		stats, err := ioexport.Bulk(context.Background(), cfg, nil, jobs)
		require.NoError(t, err, format)
		require.Len(t, stats, 5, format)
		for i := range 4 {
			assert.Equal(t, i+1, stats[i].Records, format)
		}
		assert.Equal(t, 1, stats[4].Records, format)
		for _, j := range jobs {
			assert.FileExists(t, j.Output, format)
		}
	}

	csvOut, err := os.ReadFile(filepath.Join(dir, "csv", "inc.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"F001,F650\nrec-0,\nrec-1,\"[\"\"Subject 1.0\"\"]\"\nrec-2,\"[\"\"Subject 2.0\"\",\"\"Subject 2.1\"\"]\"\n",
		string(csvOut),
	)
}

func TestBulkErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := iotesting.GetTestConfig(t)

	jobs := []ioexport.Job{{
		Input:  filepath.Join(dir, "missing.mrc"),
		Output: filepath.Join(dir, "missing.csv"),
		Format: "csv",
	}}
	_, err := ioexport.Bulk(context.Background(), cfg, nil, jobs)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.BulkExportError, gnErr.Code)

	jobs[0].Format = "xlsx"
	_, err = ioexport.Bulk(context.Background(), cfg, nil, jobs)
	require.Error(t, err)
	gnErr = err.(*gn.Error)
	assert.Equal(t, errcode.ExportOutputError, gnErr.Code)

	cfg = iotesting.GetTestConfig(t, config.OptExportRules([]string{"24"}))
	_, err = ioexport.Bulk(context.Background(), cfg, nil, jobs)
	assert.True(t, rules.IsInvalidRule(err))
}

func TestWithProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leak.mrc")
	data := iotesting.Encode(iotesting.LeakTesting())
	require.NoError(t, os.WriteFile(path, data, 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, stop := ioexport.WithProgress(f, "leak.mrc ")
	assert.NotSame(t, f, r)
	cfg := iotesting.GetTestConfig(t, config.OptExportRules([]string{"001"}))
	exp, err := ioexport.New(cfg, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	stats, err := exp.ToJSONL(context.Background(), r, &out)
	stop()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
}

func TestWithProgressPipe(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	r, stop := ioexport.WithProgress(pr, "stdin ")
	defer stop()
	assert.Same(t, pr, r)
}
