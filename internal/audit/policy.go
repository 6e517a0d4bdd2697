package audit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/invoicehub/invoice-audit/internal/models"
	"go.uber.org/zap"
)

// EvaluatePolicies checks extracted fields against the active field
// policies. rawText is the original model output; content_warning
// policies scan it directly rather than any extracted field, so keyword
// policies still fire when extraction came up empty.
//
// Numeric and pattern parse failures inside a policy skip that policy
// rather than failing the evaluation. The result carries no approval
// status: that belongs to the category path.
func (e *Engine) EvaluatePolicies(fields ExtractedFields, rawText string, policies []models.FieldPolicy) models.AuditResult {
	var violations []models.Violation
	totalActive := 0

	for _, policy := range policies {
		if !policy.IsActive {
			continue
		}
		totalActive++

		if v := evaluatePolicy(policy, fields, rawText); v != nil {
			violations = append(violations, *v)
		}
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		if v.Severity == models.SeverityWarning {
			warnings++
		} else {
			errors++
		}
	}

	complianceScore := 100.0
	if totalActive > 0 {
		complianceScore = math.Max(0, float64(totalActive-errors)/float64(totalActive)*100)
		complianceScore = math.Round(complianceScore*100) / 100
	}

	var summary string
	if len(violations) == 0 {
		summary = "Invoice is fully compliant with all audit policies"
	} else {
		warningText := ""
		if warnings > 0 {
			warningText = fmt.Sprintf(", %d warnings", warnings)
		}
		summary = fmt.Sprintf("Invoice has %d policy violations%s out of %d rules checked", errors, warningText, totalActive)
	}

	e.logger.Debug("Policy evaluation completed",
		zap.Int("active_policies", totalActive),
		zap.Int("violations", len(violations)),
		zap.Float64("compliance_score", complianceScore))

	return models.AuditResult{
		IsCompliant:     len(violations) == 0,
		TotalViolations: len(violations),
		Violations:      violations,
		ComplianceScore: complianceScore,
		Summary:         summary,
	}
}

// evaluatePolicy dispatches on the policy rule type and returns the
// violation, or nil when the policy is satisfied or not applicable.
func evaluatePolicy(policy models.FieldPolicy, fields ExtractedFields, rawText string) *models.Violation {
	fieldValue, hasField := fields[policy.FieldName]

	switch policy.RuleType {
	case models.RuleTypeRequiredField:
		if policy.Condition == models.ConditionExists && (!hasField || fieldValue == "") {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationMissingField,
				Severity:      policy.EffectiveSeverity(),
				Message:       fmt.Sprintf("%s is required but missing", titleCase(policy.FieldName)),
			}
		}

	case models.RuleTypeAmountLimit:
		if !hasField || fieldValue == "" {
			return nil
		}
		amount, err := strconv.ParseFloat(fieldValue, 64)
		if err != nil {
			return nil
		}
		limit, err := strconv.ParseFloat(policy.ExpectedValue, 64)
		if err != nil {
			return nil
		}
		if policy.Condition == models.ConditionMaxValue && amount > limit {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationAmountExceeded,
				Severity:      policy.EffectiveSeverity(),
				Message:       fmt.Sprintf("Amount $%.2f exceeds maximum limit of $%.2f", amount, limit),
			}
		}
		if policy.Condition == models.ConditionMinValue && amount < limit {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationAmountBelowMin,
				Severity:      policy.EffectiveSeverity(),
				Message:       fmt.Sprintf("Amount $%.2f is below minimum limit of $%.2f", amount, limit),
			}
		}

	case models.RuleTypeContentWarning:
		if policy.Condition != models.ConditionContainsKeywords {
			return nil
		}
		content := strings.ToLower(rawText)
		var found []string
		for _, kw := range strings.Split(policy.ExpectedValue, ",") {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(content, kw) {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationContentWarning,
				Severity:      policy.EffectiveSeverity(),
				Message:       fmt.Sprintf("Content contains flagged items: %s", strings.Join(found, ", ")),
				FlaggedItems:  found,
			}
		}

	case models.RuleTypeFormatCheck:
		if !hasField || fieldValue == "" || policy.Condition != models.ConditionFormatMatch {
			return nil
		}
		re, err := regexp.Compile(policy.ExpectedValue)
		if err != nil {
			return nil
		}
		// Anchored at the start of the value only.
		loc := re.FindStringIndex(fieldValue)
		if loc == nil || loc[0] != 0 {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationFormatMismatch,
				Severity:      policy.EffectiveSeverity(),
				Message:       fmt.Sprintf("%s format is invalid", titleCase(policy.FieldName)),
			}
		}

	case models.RuleTypeDateRange:
		if !hasField || fieldValue == "" || policy.Condition != models.ConditionWithinDays {
			return nil
		}
		if _, err := strconv.Atoi(policy.ExpectedValue); err != nil {
			return nil
		}
		// TODO: parse the actual invoice date and compare it against the
		// configured day window; the substring check only catches values
		// the extractor already labeled as stale.
		lower := strings.ToLower(fieldValue)
		if strings.Contains(lower, "old") || strings.Contains(lower, "expired") {
			return &models.Violation{
				RuleName:      policy.RuleName,
				FieldName:     policy.FieldName,
				ViolationType: models.ViolationDateOutOfRange,
				Severity:      policy.EffectiveSeverity(),
				Message:       "Invoice date appears to be outside acceptable range",
			}
		}
	}

	return nil
}

// titleCase turns a snake_case field name into a display name, e.g.
// "invoice_number" -> "Invoice Number".
func titleCase(fieldName string) string {
	words := strings.Split(strings.ReplaceAll(fieldName, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
