package xlclean

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

func TestReplayMatchesInteractiveOutput(t *testing.T) {
	fx := newFixture(t)
	_, _, err := fx.run(t, DefaultOptions(), fullScript)
	require.NoError(t, err)

	c, err := ledger.Load(fx.ledger)
	require.NoError(t, err)

	replayDir := filepath.Join(t.TempDir(), "replay")
	results, err := NewReplayer(DefaultOptions(), nil).Run(fx.in, replayDir, c)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusSaved, results[0].Status)
	assert.Equal(t, "Invoices", results[0].Sheet)

	want, err := os.ReadFile(filepath.Join(fx.out, "invoices.xlsx"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(replayDir, "invoices.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	after, err := ledger.Load(fx.ledger)
	require.NoError(t, err)
	assert.Len(t, after.Entries, 1)
}

func TestReplaySkipsUnrecordedFiles(t *testing.T) {
	fx := newFixture(t)

	results, err := NewReplayer(DefaultOptions(), nil).Run(fx.in, fx.out, ledger.Contents{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusSkipped, results[0].Status)
	assert.NoFileExists(t, filepath.Join(fx.out, "invoices.xlsx"))
}

func TestReplayLegacyEntryUsesFirstSheet(t *testing.T) {
	fx := newFixture(t)
	// The first sheet of the fixture is empty, so the legacy mapping no
	// longer fits and the file fails without stopping the batch.
	c, err := ledger.Read(strings.NewReader(`{"file_name":"invoices.xlsx","row_offset":"1","vendor":"0"}`))
	require.NoError(t, err)

	results, err := NewReplayer(DefaultOptions(), nil).Run(fx.in, fx.out, c)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Summary", results[0].Sheet)
	assert.Equal(t, models.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, "resolve")
}

func TestReplayStaleMapping(t *testing.T) {
	fx := newFixture(t)
	entry := ledger.NewEntry("invoices.xlsx", "Invoices", models.ResolvedMapping{
		HeaderRow: 10,
		Fields:    []models.FieldOffset{{Name: "vendor", Offset: models.Column(0)}},
	})

	results, err := NewReplayer(DefaultOptions(), nil).Run(fx.in, fx.out, ledger.Contents{Entries: []ledger.Entry{entry}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, models.ErrInvalidMapping.Error())
}
