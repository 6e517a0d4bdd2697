// Package audit implements the invoice audit engine: regex field
// extraction, field-policy evaluation, category auditing, and the
// orchestrator that picks between the structured and keyword-fallback
// paths. The engine is pure and stateless across calls; callers may use
// one Engine from many goroutines as long as the rule snapshots they
// pass in are not mutated concurrently.
package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invoicehub/invoice-audit/internal/models"
	"go.uber.org/zap"
)

// EngineConfig carries the keyword tables used by the fallback path.
// They are explicit configuration rather than hidden package state so
// tests can swap them out.
type EngineConfig struct {
	InvoiceKeywords []string
	AlcoholKeywords []string
}

// DefaultEngineConfig returns the standard keyword tables.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		InvoiceKeywords: DefaultInvoiceKeywords,
		AlcoholKeywords: DefaultAlcoholKeywords,
	}
}

// Engine is the audit decision engine.
type Engine struct {
	cfg    EngineConfig
	logger *zap.Logger
}

// NewEngine creates an audit engine.
func NewEngine(cfg EngineConfig, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger,
	}
}

// structuredInvoice is the shape the upstream model is asked to produce.
// It is untrusted text and must never be assumed well-formed.
type structuredInvoice struct {
	Items       []models.LineItem `json:"items"`
	TotalAmount models.FlexFloat  `json:"total_amount"`
}

// Perform is the primary audit entry point. It tries the structured
// path first: if structuredJSON parses into an item list, the category
// auditor decides. On parse failure (the realistic case for
// image-sourced extraction) it falls back to keyword-scanning rawText.
// Perform never panics out; any unexpected failure degrades into a
// processing_error result so the pipeline always receives a decision.
func (e *Engine) Perform(rawText, structuredJSON string, rules map[string]models.CategoryRule) (result models.AuditResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Audit processing failed", zap.Any("panic", r))
			result = newProcessingErrorResult(fmt.Errorf("%v", r))
		}
	}()

	var invoice structuredInvoice
	if err := json.Unmarshal([]byte(structuredJSON), &invoice); err != nil {
		e.logger.Info("Structured extraction unusable, using keyword fallback",
			zap.Error(err))
		return e.auditFallback(rawText)
	}

	result = e.AuditByCategory(invoice.Items, rules)

	e.logger.Info("Structured audit completed",
		zap.Int("items", len(invoice.Items)),
		zap.Float64("total_amount", float64(invoice.TotalAmount)),
		zap.String("approval_status", result.ApprovalStatus),
		zap.Int("violations", result.TotalViolations))

	return result
}

// IsInvoice reports whether the text reads like an invoice or bill.
// The upload pipeline uses this to skip auditing unrelated documents.
func (e *Engine) IsInvoice(text string) bool {
	return containsAny(strings.ToLower(text), e.cfg.InvoiceKeywords)
}

// auditFallback renders a conservative decision from the raw model text
// when no structured data is available: non-invoices are approved
// without audit, invoices are rejected on any alcohol signal.
func (e *Engine) auditFallback(rawText string) models.AuditResult {
	content := strings.ToLower(rawText)

	if !containsAny(content, e.cfg.InvoiceKeywords) {
		return models.AuditResult{
			IsCompliant:     true,
			TotalViolations: 0,
			Violations:      []models.Violation{},
			ComplianceScore: 100,
			Summary:         "Document processed - Not an invoice, no audit required",
			ApprovalStatus:  models.StatusApproved,
			StatusColor:     models.ColorGreen,
		}
	}

	var found []string
	for _, kw := range e.cfg.AlcoholKeywords {
		if strings.Contains(content, kw) {
			found = append(found, kw)
		}
	}

	if len(found) > 0 {
		return models.AuditResult{
			IsCompliant:     false,
			TotalViolations: 1,
			Violations: []models.Violation{{
				RuleName:      "Alcohol - Restricted Category",
				FieldName:     "content",
				ViolationType: models.ViolationRestrictedItem,
				Severity:      models.SeverityHigh,
				Message:       fmt.Sprintf("Document contains alcohol-related items: %s", strings.Join(found, ", ")),
				FlaggedItems:  found,
			}},
			ComplianceScore: 0,
			Summary:         "Cannot approve - Alcohol items detected",
			ApprovalStatus:  models.StatusRejected,
			StatusColor:     models.ColorRed,
		}
	}

	return models.AuditResult{
		IsCompliant:     true,
		TotalViolations: 0,
		Violations:      []models.Violation{},
		ComplianceScore: 100,
		Summary:         "Document approved - No restricted items detected",
		ApprovalStatus:  models.StatusApproved,
		StatusColor:     models.ColorGreen,
	}
}

// newProcessingErrorResult builds the degraded result returned when the
// audit itself fails. No approval status is set; the caller decides how
// to treat an unaudited document.
func newProcessingErrorResult(err error) models.AuditResult {
	return models.AuditResult{
		IsCompliant:     false,
		TotalViolations: 1,
		Violations: []models.Violation{{
			RuleName:      "Audit Processing Error",
			FieldName:     "system",
			ViolationType: models.ViolationProcessingError,
			Severity:      models.SeverityHigh,
			Message:       fmt.Sprintf("Error processing audit: %v", err),
		}},
		ComplianceScore: 0,
		Summary:         "Audit processing failed",
	}
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
