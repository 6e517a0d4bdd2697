package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

func TestExportRendersDocumentRows(t *testing.T) {
	exporter := NewExporter(zap.NewNop())

	docs := []models.Document{
		{
			ID:               1,
			OriginalFilename: "lunch.pdf",
			FileType:         models.FileTypeText,
			AuditResult:      `{"is_compliant":true,"total_violations":0,"compliance_score":100,"summary":"All items approved - No policy violations found","approval_status":"approved"}`,
			CreatedAt:        time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:               2,
			OriginalFilename: "bar-tab.png",
			FileType:         models.FileTypeImage,
			AuditResult:      `{"is_compliant":false,"total_violations":1,"compliance_score":0,"summary":"Cannot approve - 1 restricted items found","approval_status":"rejected"}`,
			CreatedAt:        time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
		},
	}

	data, err := exporter.Export(docs)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "ID", get("A1"))
	assert.Equal(t, "Status", get("D1"))

	assert.Equal(t, "lunch.pdf", get("B2"))
	assert.Equal(t, "approved", get("D2"))
	assert.Equal(t, "100", get("E2"))

	assert.Equal(t, "bar-tab.png", get("B3"))
	assert.Equal(t, "rejected", get("D3"))
	assert.Equal(t, "1", get("F3"))
	assert.Equal(t, "2026-08-21 09:00:00", get("H3"))
}

func TestExportEmptyListStillHasHeader(t *testing.T) {
	exporter := NewExporter(zap.NewNop())

	data, err := exporter.Export(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", v)
}

func TestExportToleratesCorruptAuditResult(t *testing.T) {
	exporter := NewExporter(zap.NewNop())

	docs := []models.Document{
		{ID: 1, OriginalFilename: "broken.pdf", FileType: models.FileTypeText, AuditResult: "not json"},
	}

	data, err := exporter.Export(docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	status, err := f.GetCellValue(sheetName, "D2")
	require.NoError(t, err)
	assert.Empty(t, status)
}
