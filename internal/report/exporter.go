// Package report renders audit outcomes as downloadable spreadsheets.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

const sheetName = "Audit Report"

var headerRow = []string{
	"ID", "Filename", "Type", "Status", "Score", "Violations", "Summary", "Uploaded",
}

// Exporter builds xlsx audit reports from stored documents.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a report exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export renders one row per document and returns the workbook bytes.
// Documents whose stored audit result no longer parses get an empty
// status rather than failing the whole report.
func (e *Exporter) Export(documents []models.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	for col, title := range headerRow {
		e.setCell(f, cellName(col, 1), title)
	}

	for i, doc := range documents {
		row := i + 2

		var result models.AuditResult
		if doc.AuditResult != "" {
			if err := json.Unmarshal([]byte(doc.AuditResult), &result); err != nil {
				e.logger.Warn("Stored audit result is not valid JSON",
					zap.Int64("document_id", doc.ID),
					zap.Error(err))
			}
		}

		e.setCell(f, cellName(0, row), doc.ID)
		e.setCell(f, cellName(1, row), doc.OriginalFilename)
		e.setCell(f, cellName(2, row), doc.FileType)
		e.setCell(f, cellName(3, row), result.ApprovalStatus)
		e.setCell(f, cellName(4, row), result.ComplianceScore)
		e.setCell(f, cellName(5, row), result.TotalViolations)
		e.setCell(f, cellName(6, row), result.Summary)
		e.setCell(f, cellName(7, row), doc.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Audit report generated",
		zap.Int("documents", len(documents)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (e *Exporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// cellName maps a zero-based column and one-based row to an A1 address.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
