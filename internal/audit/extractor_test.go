package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFieldsInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"invoice number label", "Invoice Number: INV-2024-001", "INV-2024-001"},
		{"invoice hash", "Invoice # ABC123", "ABC123"},
		{"invoice no with dot", "invoice no. 98765", "98765"},
		{"inv prefix", "INV #: X-500", "X-500"},
		{"bill prefix", "Bill No: B-77", "B-77"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractFields(tt.text)
			assert.Equal(t, tt.expected, fields[FieldInvoiceNumber])
		})
	}
}

func TestExtractFieldsAmount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"total label", "Total: $1,234.56", "1234.56"},
		{"amount label", "Amount 500", "500"},
		{"bare dollar sign", "Paid $42.50 in cash", "42.5"},
		{"trailing currency word", "1,000 dollars", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractFields(tt.text)
			assert.Equal(t, tt.expected, fields[FieldAmount])
		})
	}
}

func TestExtractFieldsDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"labeled date", "Date: 12/31/2024", "12/31/2024"},
		{"bare date", "Issued on 1-15-24", "1-15-24"},
		{"long form", "January 15, 2024", "January 15, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractFields(tt.text)
			assert.Equal(t, tt.expected, fields[FieldDate])
		})
	}
}

func TestExtractFieldsVendorName(t *testing.T) {
	fields := ExtractFields("Vendor: Acme Supplies\nTotal: $50")
	assert.Equal(t, "Acme Supplies", fields[FieldVendorName])
}

func TestExtractFieldsVendorTooShortRejected(t *testing.T) {
	// A one-letter capture is rejected; with no business indicator in
	// the text the field stays absent.
	fields := ExtractFields("from: A\nnothing else here")
	_, ok := fields[FieldVendorName]
	assert.False(t, ok)
}

func TestExtractFieldsVendorSentinelFallback(t *testing.T) {
	// No labeled vendor, but business wording is present.
	fields := ExtractFields("Purchased at the hardware store downtown, total $30")
	assert.Equal(t, "Business entity detected", fields[FieldVendorName])
}

func TestExtractFieldsFirstMatchWins(t *testing.T) {
	// Both a labeled total and a bare dollar figure are present; the
	// labeled pattern comes first in the table.
	fields := ExtractFields("Subtotal $10.00\nTotal: $99.00")
	assert.Equal(t, "10", fields[FieldAmount])
}

func TestExtractFieldsEmptyText(t *testing.T) {
	fields := ExtractFields("")
	assert.Empty(t, fields)
}

func TestExtractFieldsNeverFails(t *testing.T) {
	// Arbitrary unstructured text only under-populates.
	fields := ExtractFields("the quick brown fox jumps over the lazy dog")
	assert.NotContains(t, fields, FieldInvoiceNumber)
	assert.NotContains(t, fields, FieldAmount)
	assert.NotContains(t, fields, FieldDate)
}
