package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Supplier", "Item", "Note"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"ACME", "bolts", "rush"}))
	require.NoError(t, f.SaveAs(path))
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunReplayAndLedger(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeWorkbook(t, filepath.Join(in, "book.xlsx"))
	ledgerPath := filepath.Join(root, "ledger.jsonl")

	// sheet 0, header row 0, vendor 0, item 1, split 2, save
	script := "0\n0\n0\n1\n2\ny\n"
	out, screen, err := execute(t, script,
		"-i", in, "-o", filepath.Join(root, "out"), "-m", ledgerPath,
		"--fields", "vendor,item", "--max-attempts", "2", "--json", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, screen, "Save? (y/n/s): ")
	require.True(t, gjson.Valid(out), out)
	require.Equal(t, 1, strings.Count(out, "\n"))
	report := gjson.Parse(out)
	assert.True(t, report.Get("success").Bool())
	assert.Equal(t, int64(1), report.Get("saved").Int())
	assert.NotEmpty(t, report.Get("run_id").String())

	c, err := ledger.Load(ledgerPath)
	require.NoError(t, err)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, report.Get("run_id").String(), c.Entries[0].RunID)

	out, _, err = execute(t, "", "replay", "-i", in, "-o", filepath.Join(root, "replay"), "-m", ledgerPath, "--fields", "vendor,item")
	require.NoError(t, err)
	assert.Equal(t, "All files processed successfully!\n", out)

	want, err := os.ReadFile(filepath.Join(root, "out", "book.xlsx"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(root, "replay", "book.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	out, _, err = execute(t, "", "ledger", "-m", ledgerPath, "--json")
	require.NoError(t, err)
	doc := gjson.Parse(out)
	assert.Equal(t, int64(0), doc.Get("malformed").Int())
	assert.Equal(t, "book.xlsx", doc.Get("entries.0.file_name").String())
	assert.Equal(t, "2", doc.Get("entries.0.split").String())
}

func TestRunRequiresDirectories(t *testing.T) {
	_, stderr, err := execute(t, "", "-i", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: output directory is required")
}

func TestReplayRequiresLedger(t *testing.T) {
	_, _, err := execute(t, "", "replay", "-i", t.TempDir(), "-o", t.TempDir())
	assert.Error(t, err)
}

func TestRunReportsFailedFiles(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("nope"), 0o644))

	out, _, err := execute(t, "", "-i", in, "-o", t.TempDir(), "--max-fault-retries", "0")
	assert.ErrorIs(t, err, errFilesFailed)
	assert.Contains(t, out, "Processed files: 0 saved, 0 skipped, 1 failed\n")
}

func TestWriteLedgerText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLedger(&buf, ledger.Contents{Malformed: 2}, false))
	assert.Equal(t, "0 entries, 2 malformed lines\n", buf.String())
}
