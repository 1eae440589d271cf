package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the caller's cashbook as CSV or XLSX.
type ExportHandler struct {
	Store *store.Cashbook
}

func NewExportHandler(s *store.Cashbook) *ExportHandler {
	return &ExportHandler{Store: s}
}

var exportHeaders = []string{"Name", "Type", "Cash In", "Cash Out", "Status", "Note", "Date"}

func exportRow(e *models.CashbookEntry) []string {
	return []string{
		e.Name,
		e.TransactionType,
		strconv.FormatFloat(e.CashIn, 'f', 2, 64),
		strconv.FormatFloat(e.CashOut, 'f', 2, 64),
		e.Status,
		e.Note,
		e.Date.Format("2006-01-02"),
	}
}

func exportName(ext string) string {
	return fmt.Sprintf("attachment; filename=\"cashbook_%s.%s\"", time.Now().Format("20060102"), ext)
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", exportName("csv"))

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeaders)
	for i := range entries {
		writer.Write(exportRow(&entries[i]))
	}
	writer.Flush()
}

const exportSheet = "Cashbook"

// buildWorkbook lays entries out one per row under a header row, with
// amounts stored as numbers.
func buildWorkbook(entries []models.CashbookEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{e.Name, e.TransactionType, e.CashIn, e.CashOut, e.Status, e.Note, e.Date.Format("2006-01-02")}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(exportSheet, "A", "A", 24)
	f.SetColWidth(exportSheet, "B", "B", 10)
	f.SetColWidth(exportSheet, "C", "D", 12)
	f.SetColWidth(exportSheet, "E", "E", 10)
	f.SetColWidth(exportSheet, "F", "F", 30)
	f.SetColWidth(exportSheet, "G", "G", 12)
	return f, nil
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	entries, err := h.Store.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	f, err := buildWorkbook(entries)
	if err != nil {
		util.Fail(c, fmt.Errorf("build workbook: %w", err))
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", exportName("xlsx"))
	if err := f.Write(c.Writer); err != nil {
		util.Fail(c, fmt.Errorf("write workbook: %w", err))
	}
}
