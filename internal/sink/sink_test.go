package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-feature-engine/internal/model"
)

func sampleBatch() ([]model.ClientRow, []model.ClientResult, []string) {
	appDate := time.Date(2024, time.February, 10, 14, 30, 0, 0, time.UTC)
	rows := []model.ClientRow{
		{ID: 1, ApplicationDate: &appDate, RawContracts: `[{"claim_id": "A"}]`},
		{ID: 2},
	}
	results := []model.ClientResult{
		{ClientID: 1, Features: map[string]model.FeatureValue{"exposure": 1750.5, "claims": 2}},
		{ClientID: 2, Features: map[string]model.FeatureValue{"exposure": model.NoData, "claims": model.NoData}},
	}
	return rows, results, []string{"exposure", "claims"}
}

func TestWriteCSV(t *testing.T) {
	rows, results, names := sampleBatch()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, results, names))

	want := "id,application_date,contracts,exposure,claims\n" +
		"1,2024-02-10 14:30:00,\"[{\"\"claim_id\"\": \"\"A\"\"}]\",1750.5,2\n" +
		"2,,,-3,-3\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVKeepsFractionalSeconds(t *testing.T) {
	appDate := time.Date(2024, time.February, 10, 14, 30, 0, 123000000, time.UTC)
	rows := []model.ClientRow{{ID: 9, ApplicationDate: &appDate}}
	results := []model.ClientResult{{ClientID: 9, Features: map[string]model.FeatureValue{"claims": 1}}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, results, []string{"claims"}))

	assert.Equal(t, "id,application_date,contracts,claims\n9,2024-02-10 14:30:00.123,,1\n", buf.String())
}

func TestWriteCSVRejectsMismatchedResults(t *testing.T) {
	rows, results, names := sampleBatch()

	err := WriteCSV(&bytes.Buffer{}, rows, results[:1], names)
	assert.Error(t, err)
}

func TestCSVSinkWritesFile(t *testing.T) {
	rows, results, names := sampleBatch()
	path := filepath.Join(t.TempDir(), "features.csv")

	s := NewCSV(path)
	require.NoError(t, s.Write(context.Background(), rows, results, names))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2,,,-3,-3")
}

func TestFeatureRows(t *testing.T) {
	_, results, names := sampleBatch()
	at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	got := featureRows(results, append(names, "missing"), at)
	require.Len(t, got, 4)
	assert.Equal(t, featureRow{ClientID: 1, Feature: "exposure", Value: 1750.5, CalculatedAt: at}, got[0])
	assert.Equal(t, featureRow{ClientID: 2, Feature: "claims", Value: -3, CalculatedAt: at}, got[3])
}
