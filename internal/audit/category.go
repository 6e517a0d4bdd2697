package audit

import (
	"fmt"

	"github.com/invoicehub/invoice-audit/internal/models"
	"go.uber.org/zap"
)

// AuditByCategory evaluates structured line items against category rules
// and derives the ternary approval decision.
//
// Rule resolution: exact category match, then the Others catch-all; an
// item that resolves to no rule at all is skipped. A restricted category
// always takes precedence over the amount check for that item.
func (e *Engine) AuditByCategory(items []models.LineItem, rules map[string]models.CategoryRule) models.AuditResult {
	var violations []models.Violation
	var restrictedItems []string
	var amountViolations []string

	for _, item := range items {
		category := item.Category
		if category == "" {
			category = models.CategoryOthers
		}

		rule, ok := rules[category]
		if !ok {
			rule, ok = rules[models.CategoryOthers]
		}
		if !ok {
			e.logger.Warn("No rule resolves for item, skipping",
				zap.String("item", item.Name),
				zap.String("category", category))
			continue
		}

		amount := float64(item.Amount)

		switch {
		case rule.IsRestricted:
			restrictedItems = append(restrictedItems, item.Name)
			violations = append(violations, models.Violation{
				RuleName:      fmt.Sprintf("%s - Restricted Category", category),
				FieldName:     "category",
				ViolationType: models.ViolationRestrictedItem,
				Severity:      models.SeverityHigh,
				Message:       fmt.Sprintf("%s (%s) is strictly prohibited", item.Name, category),
				FlaggedItems:  []string{item.Name},
			})
		case amount > rule.MaxLimit:
			amountViolations = append(amountViolations, item.Name)
			violations = append(violations, models.Violation{
				RuleName:      fmt.Sprintf("%s - Amount Limit Exceeded", category),
				FieldName:     "amount",
				ViolationType: models.ViolationAmountExceeded,
				Severity:      models.SeverityMedium,
				Message:       fmt.Sprintf("%s amount Rs.%.2f exceeds %s limit of Rs.%.2f", item.Name, amount, category, rule.MaxLimit),
				FlaggedItems:  []string{item.Name},
			})
		}
	}

	var approvalStatus, statusColor, summary string
	var complianceScore float64

	switch {
	case len(restrictedItems) > 0:
		approvalStatus = models.StatusRejected
		statusColor = models.ColorRed
		complianceScore = 0
		summary = fmt.Sprintf("Cannot approve - %d restricted items found", len(restrictedItems))
	case len(amountViolations) > 0:
		approvalStatus = models.StatusWarning
		statusColor = models.ColorYellow
		complianceScore = 50
		summary = fmt.Sprintf("Warning - %d items exceed category limits", len(amountViolations))
	default:
		approvalStatus = models.StatusApproved
		statusColor = models.ColorGreen
		complianceScore = 100
		summary = "All items approved - No policy violations found"
	}

	return models.AuditResult{
		IsCompliant:     approvalStatus == models.StatusApproved,
		TotalViolations: len(violations),
		Violations:      violations,
		ComplianceScore: complianceScore,
		Summary:         summary,
		ApprovalStatus:  approvalStatus,
		StatusColor:     statusColor,
	}
}
