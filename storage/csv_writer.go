package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"rental-analyzer/models"
)

// resultHeader is the stable column order shared by every export backend.
var resultHeader = []string{
	"address", "price", "bedrooms", "rent", "mortgage",
	"cash_flow", "coc_return", "property_type", "link", "sample",
}

// resultRow renders one analysis result in the shared column order.
func resultRow(r models.Result) []string {
	sample := ""
	if r.Sample {
		sample = "yes"
	}
	return []string{
		r.Address,
		strconv.FormatFloat(r.Price, 'f', 0, 64),
		strconv.Itoa(r.Bedrooms),
		strconv.FormatFloat(r.Rent, 'f', 2, 64),
		strconv.FormatFloat(r.Mortgage, 'f', 2, 64),
		strconv.FormatFloat(r.CashFlow, 'f', 2, 64),
		strconv.FormatFloat(r.CoCReturn, 'f', 2, 64),
		r.PropertyType,
		r.Link,
		sample,
	}
}

// EncodeCSV writes the header and all results to w. Used by the HTTP
// surface to stream a report without touching the filesystem.
func EncodeCSV(w io.Writer, results []models.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(resultRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVWriter writes analysis results to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the given results to the file.
func (c *CSVWriter) Write(results []models.Result) error {
	for _, r := range results {
		if err := c.writer.Write(resultRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
