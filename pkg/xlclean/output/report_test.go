package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

func TestReport(t *testing.T) {
	r := NewReport("run-1", []models.ProcessedFile{
		{BookName: "a.xlsx", Status: models.StatusSaved, Attempts: 1},
		{BookName: "b.xlsx", Status: models.StatusSkipped, Attempts: 1},
		{BookName: "c.xlsx", Status: models.StatusFailed, Attempts: 3, Error: "corrupt"},
	})

	data, err := ToJSON(r, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(data, "saved").Int())
	assert.Equal(t, int64(1), gjson.GetBytes(data, "failed").Int())
	assert.Equal(t, "corrupt", gjson.GetBytes(data, "files.2.error").String())

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, r))
	assert.Equal(t, "Processed files: 1 saved, 1 skipped, 1 failed\n", buf.String())
}

func TestSummaryAllSaved(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, NewReport("", []models.ProcessedFile{
		{BookName: "a.xlsx", Status: models.StatusSaved},
	})))
	assert.Equal(t, "All files processed successfully!\n", buf.String())
}
