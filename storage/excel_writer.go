package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"rental-analyzer/models"
)

const resultSheet = "Results"

// XLSXWriter writes analysis results to an Excel workbook. Rows accumulate
// in memory and the workbook is saved on Close.
type XLSXWriter struct {
	path string
	file *excelize.File
	row  int
}

// NewXLSXWriter prepares a workbook with a single Results sheet and the
// header row. Nothing touches disk until Close.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(resultSheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx: drop default sheet: %w", err)
	}

	w := &XLSXWriter{path: path, file: f, row: 1}
	for col, name := range resultHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			return nil, fmt.Errorf("xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(resultSheet, cell, name); err != nil {
			return nil, fmt.Errorf("xlsx: write header: %w", err)
		}
	}
	return w, nil
}

// Write appends the given results to the sheet. Numeric fields stay numeric
// so the workbook sorts and aggregates without casting.
func (w *XLSXWriter) Write(results []models.Result) error {
	for _, r := range results {
		w.row++
		values := []any{
			r.Address, r.Price, r.Bedrooms, r.Rent, r.Mortgage,
			r.CashFlow, r.CoCReturn, r.PropertyType, r.Link, r.Sample,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, w.row)
			if err != nil {
				return fmt.Errorf("xlsx: row cell: %w", err)
			}
			if err := w.file.SetCellValue(resultSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: write row: %w", err)
			}
		}
	}
	return nil
}

// Close saves the workbook to its path and releases the in-memory file.
func (w *XLSXWriter) Close() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", w.path, err)
	}
	return w.file.Close()
}
