package extractor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"vsib-scorecard/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
	<a href="/vsib/Content/sus/SupplierInformation.aspx?SupplierId=9">98765, Nordic Castings</a>
	<div id="IndexAuditPanel">
		SMA / Criticality 1 Index Approved 74% (2017-03-17)
		Software Index Approved 81% (2016-12-01)
		EE Index Approved 69% (2017-03-29)
	</div>
	<div id="SEMPanelFollowup">Approved 80% (2022-01-01)</div>
</body></html>`

func TestRunBatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:extractor")
	defer cleanup()

	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "suppliers")

	err := os.WriteFile(filepath.Join(inputDir, "98765.html"), []byte(samplePage), 0644)
	require.NoError(t, err)
	// non-html files are ignored
	err = os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("junk"), 0644)
	require.NoError(t, err)

	result, err := RunBatch(context.Background(), inputDir, outputDir)
	require.NoError(t, err)
	require.Equal(t, 1, result.Processed)
	require.Equal(t, 0, result.Failed)

	contents, err := os.ReadFile(filepath.Join(outputDir, "supplier_98765.json"))
	require.NoError(t, err)
	var rec SupplierRecord
	require.NoError(t, json.Unmarshal(contents, &rec))
	require.Equal(t, "98765", rec.ID)
	require.Equal(t, "Nordic Castings", rec.Name)
	require.Len(t, rec.Audits, 6)

	indexContents, err := os.ReadFile(result.IndexFile)
	require.NoError(t, err)
	var index []SupplierSummary
	require.NoError(t, json.Unmarshal(indexContents, &index))
	require.Equal(t, []SupplierSummary{
		{ID: "98765", ParmaID: "98765", Name: "Nordic Castings"},
	}, index)
}

func TestRunBatchEmptyDirectory(t *testing.T) {
	_, err := RunBatch(context.Background(), t.TempDir(), t.TempDir())
	require.ErrorIs(t, err, ErrNoInputFiles)
}

func TestRecordJSONCarriesLegacyKey(t *testing.T) {
	contents, err := json.Marshal(newRecord())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(contents, &raw))
	metrics, ok := raw["metrics"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "N/A", metrics["sw Date"])
	require.Equal(t, "N/A", metrics["swDate"])
}
