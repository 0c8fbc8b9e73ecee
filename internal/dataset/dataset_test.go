package dataset

import (
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-feature-engine/internal/logger"
	"loan-feature-engine/internal/model"
)

func TestConvertContractsBlankIsAbsent(t *testing.T) {
	for _, s := range []string{"", "   ", "null"} {
		h, err := ConvertContracts(s)
		require.NoError(t, err)
		assert.Nil(t, h)
	}
}

func TestConvertContractsEmptyListIsPresent(t *testing.T) {
	h, err := ConvertContracts("[]")
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Len(t, h, 0)
}

func TestConvertContractsWrapsSingleObject(t *testing.T) {
	h, err := ConvertContracts(`{"claim_id": "A", "claim_date": "01.02.2023"}`)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "A", *h[0].ClaimID)
}

func TestConvertContractsInvalidJSON(t *testing.T) {
	h, err := ConvertContracts(`[{"claim_id": }`)
	assert.Error(t, err)
	assert.Nil(t, h)

	_, err = ConvertContracts(`42`)
	assert.Error(t, err)
}

func TestConvertContractsJSONAcceptsEncodedString(t *testing.T) {
	encoded, err := json.Marshal(`[{"claim_id": "A"}, {"claim_id": "B"}]`)
	require.NoError(t, err)

	h, err := ConvertContractsJSON(encoded)
	require.NoError(t, err)
	assert.Len(t, h, 2)

	h, err = ConvertContractsJSON(json.RawMessage(`[{"claim_id": "A"}]`))
	require.NoError(t, err)
	assert.Len(t, h, 1)

	h, err = ConvertContractsJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestConvertApplicationDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-02-10T14:30:00+02:00": time.Date(2024, time.February, 10, 14, 30, 0, 0, time.FixedZone("", 2*60*60)),
		"2024-02-10T14:30:00.123":   time.Date(2024, time.February, 10, 14, 30, 0, 123000000, time.UTC),
		"2024-02-10 14:30:00":       time.Date(2024, time.February, 10, 14, 30, 0, 0, time.UTC),
		"2024-02-10":                time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ConvertApplicationDate(in)
		require.NoError(t, err, in)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), in)
	}

	got, err := ConvertApplicationDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ConvertApplicationDate("10/02/2024")
	assert.Error(t, err)
}

func TestReadDataset(t *testing.T) {
	input := `id,application_date,contracts
1,2024-02-10T14:30:00,"[{""claim_id"": ""A"", ""claim_date"": ""01.02.2024"", ""summa"": 100}]"
2,,
3,not-a-date,"{""bank"": ""XYZ""}"
4,2024-02-10,[broken
`
	rows, err := Read(strings.NewReader(input), logger.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, int64(1), rows[0].ID)
	require.NotNil(t, rows[0].ApplicationDate)
	require.Len(t, rows[0].Contracts, 1)
	assert.Equal(t, "100", *rows[0].Contracts[0].Summa)

	assert.Nil(t, rows[1].ApplicationDate)
	assert.Nil(t, rows[1].Contracts)

	assert.Nil(t, rows[2].ApplicationDate)
	assert.Len(t, rows[2].Contracts, 1)

	assert.Nil(t, rows[3].Contracts)
	assert.Equal(t, "[broken", rows[3].RawContracts)
}

func TestReadDatasetRejectsBadInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), logger.Nop())
	assert.Error(t, err)

	_, err = Read(strings.NewReader("id,contracts\n1,[]\n"), logger.Nop())
	assert.ErrorContains(t, err, "application_date")

	_, err = Read(strings.NewReader("id,application_date,contracts\nx,,\n"), logger.Nop())
	assert.ErrorContains(t, err, "parse id")
}

func TestReadDatasetKeepsHistoryShape(t *testing.T) {
	rows, err := Read(strings.NewReader("id,application_date,contracts\n5,2024-01-01,[]\n"), logger.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.History{}, rows[0].Contracts)
}
