package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balcao/backend/reports"
)

func TestWriteXLSX(t *testing.T) {
	table := reports.Table{
		Columns: []string{"Date", "Product", "Qty", "Line revenue"},
		Rows: [][]any{
			{time.Date(2031, 3, 15, 10, 30, 0, 0, time.UTC), "Arroz", 2, 20.0},
			{time.Date(2031, 3, 16, 9, 0, 0, 0, time.UTC), "Feijao", 1, 30.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Sales", table, []any{"Total", 2, 0.0, 50.5}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sales"}, f.GetSheetList())
	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Date", "Product", "Qty", "Line revenue"}, rows[0])
	assert.Equal(t, "Arroz", rows[1][1])
	assert.Equal(t, "2", rows[1][2])
	assert.Equal(t, "30.5", rows[2][3])
	assert.Contains(t, rows[1][0], "2031")
	assert.Empty(t, rows[3])
	assert.Equal(t, "Total", rows[4][0])
	assert.Equal(t, "50.5", rows[4][3])
}

func TestWriteXLSX_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Reservations", reports.Table{Columns: []string{"Date"}}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
