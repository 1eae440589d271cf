package handler

import (
	"testing"
	"time"

	"moneybook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleEntries() []models.CashbookEntry {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return []models.CashbookEntry{
		{ID: 1, Name: "salary", TransactionType: models.TxCashIn, CashIn: 1200, Status: models.StatusReceived, Date: day},
		{ID: 2, Name: "rent", TransactionType: models.TxCashOut, CashOut: 450.5, Status: models.StatusPending, Note: "march", Date: day},
	}
}

func TestBuildWorkbook(t *testing.T) {
	f, err := buildWorkbook(sampleEntries())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"salary", models.TxCashIn, "1200", "0", models.StatusReceived, "", "2024-03-09"}, rows[1])

	v, err := f.GetCellValue(exportSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "450.5", v)
}

func TestBuildWorkbook_Empty(t *testing.T) {
	f, err := buildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportRow(t *testing.T) {
	e := sampleEntries()[1]
	assert.Equal(t, []string{"rent", models.TxCashOut, "0.00", "450.50", models.StatusPending, "march", "2024-03-09"}, exportRow(&e))
}

func TestViewEntry(t *testing.T) {
	e := sampleEntries()[0]

	full := viewEntry(&e, "")
	assert.Contains(t, full, "cash_in")
	assert.Contains(t, full, "cash_out")

	received := viewEntry(&e, "cash_out")
	assert.NotContains(t, received, "cash_out")
	assert.Equal(t, 1200.0, received["cash_in"])
	assert.Equal(t, "salary", received["name"])
}
