package export

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	sheet := Sheet{
		Name:   "Checkins",
		Header: []string{"Event Name", "Team Index"},
		Rows: [][]interface{}{
			{"Hackathon", 1},
			{"Hackathon", 2},
		},
	}

	encoded, err := Base64Workbook(sheet)
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Checkins"}, f.GetSheetList())

	rows, err := f.GetRows("Checkins")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Event Name", "Team Index"},
		{"Hackathon", "1"},
		{"Hackathon", "2"},
	}, rows)
}

func TestWorkbookHeaderOnly(t *testing.T) {
	data, err := Workbook(Sheet{Name: "Registrations", Header: []string{"A", "B"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Registrations")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}}, rows)
}

func TestWorkbookFreezesHeaderRow(t *testing.T) {
	encoded, err := Base64Workbook(Sheet{
		Name:   "Registrations",
		Header: []string{"Event Name", "Registrant Name"},
		Rows:   [][]interface{}{{"Hackathon", "Asha Rao"}},
	})
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	panes, err := f.GetPanes("Registrations")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
	assert.Equal(t, "A2", panes.TopLeftCell)

	rows, err := f.GetRows("Registrations")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Event Name", "Registrant Name"}, {"Hackathon", "Asha Rao"}}, rows)
}
