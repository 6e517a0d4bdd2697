package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicehub/invoice-audit/internal/models"
)

func TestEvaluatePoliciesRequiredField(t *testing.T) {
	engine := newTestEngine()

	policies := []models.FieldPolicy{
		{RuleName: "Invoice Number Required", RuleType: models.RuleTypeRequiredField, FieldName: "invoice_number", Condition: models.ConditionExists, IsActive: true},
		{RuleName: "Amount Required", RuleType: models.RuleTypeRequiredField, FieldName: "amount", Condition: models.ConditionExists, IsActive: true},
	}
	fields := ExtractedFields{"amount": "100"}

	result := engine.EvaluatePolicies(fields, "", policies)

	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, models.ViolationMissingField, v.ViolationType)
	assert.Equal(t, "invoice_number", v.FieldName)
	assert.Equal(t, models.SeverityMedium, v.Severity)
	assert.Equal(t, "Invoice Number is required but missing", v.Message)
	assert.False(t, result.IsCompliant)
}

func TestEvaluatePoliciesAmountLimits(t *testing.T) {
	engine := newTestEngine()

	maxPolicy := models.FieldPolicy{RuleName: "Maximum Amount Limit", RuleType: models.RuleTypeAmountLimit, FieldName: "amount", Condition: models.ConditionMaxValue, ExpectedValue: "10000", IsActive: true}
	minPolicy := models.FieldPolicy{RuleName: "Minimum Amount Limit", RuleType: models.RuleTypeAmountLimit, FieldName: "amount", Condition: models.ConditionMinValue, ExpectedValue: "1", IsActive: true}

	tests := []struct {
		name          string
		amount        string
		expectedTypes []string
	}{
		{"within bounds", "500", nil},
		{"over maximum", "15000", []string{models.ViolationAmountExceeded}},
		{"below minimum", "0.5", []string{models.ViolationAmountBelowMin}},
		{"non-numeric skipped", "not-a-number", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractedFields{"amount": tt.amount}
			result := engine.EvaluatePolicies(fields, "", []models.FieldPolicy{maxPolicy, minPolicy})

			var got []string
			for _, v := range result.Violations {
				got = append(got, v.ViolationType)
			}
			assert.Equal(t, tt.expectedTypes, got)
		})
	}
}

func TestEvaluatePoliciesAmountLimitAbsentFieldSkipped(t *testing.T) {
	engine := newTestEngine()

	policies := []models.FieldPolicy{
		{RuleName: "Maximum Amount Limit", RuleType: models.RuleTypeAmountLimit, FieldName: "amount", Condition: models.ConditionMaxValue, ExpectedValue: "10000", IsActive: true},
	}

	result := engine.EvaluatePolicies(ExtractedFields{}, "", policies)

	assert.Empty(t, result.Violations)
	assert.True(t, result.IsCompliant)
}

func TestEvaluatePoliciesFormatCheck(t *testing.T) {
	engine := newTestEngine()

	policy := models.FieldPolicy{RuleName: "Invoice Number Format", RuleType: models.RuleTypeFormatCheck, FieldName: "invoice_number", Condition: models.ConditionFormatMatch, ExpectedValue: "^[A-Z0-9-]+$", IsActive: true}

	tests := []struct {
		name      string
		value     string
		violation bool
	}{
		{"valid format", "INV-2024-001", false},
		{"lowercase rejected", "inv-2024-001", true},
		{"spaces rejected", "INV 2024", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractedFields{"invoice_number": tt.value}
			result := engine.EvaluatePolicies(fields, "", []models.FieldPolicy{policy})

			if tt.violation {
				require.Len(t, result.Violations, 1)
				assert.Equal(t, models.ViolationFormatMismatch, result.Violations[0].ViolationType)
			} else {
				assert.Empty(t, result.Violations)
			}
		})
	}
}

func TestEvaluatePoliciesFormatCheckInvalidPatternSkipped(t *testing.T) {
	engine := newTestEngine()

	policy := models.FieldPolicy{RuleName: "Broken Format", RuleType: models.RuleTypeFormatCheck, FieldName: "invoice_number", Condition: models.ConditionFormatMatch, ExpectedValue: "([unclosed", IsActive: true}
	fields := ExtractedFields{"invoice_number": "anything"}

	result := engine.EvaluatePolicies(fields, "", []models.FieldPolicy{policy})

	assert.Empty(t, result.Violations)
}

func TestEvaluatePoliciesDateRange(t *testing.T) {
	engine := newTestEngine()

	policy := models.FieldPolicy{RuleName: "Date Range Check", RuleType: models.RuleTypeDateRange, FieldName: "date", Condition: models.ConditionWithinDays, ExpectedValue: "365", IsActive: true}

	tests := []struct {
		name      string
		date      string
		violation bool
	}{
		{"plain date passes", "01/15/2024", false},
		{"old flagged", "OLD receipt date", true},
		{"expired flagged", "Expired 2020", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ExtractedFields{"date": tt.date}
			result := engine.EvaluatePolicies(fields, "", []models.FieldPolicy{policy})

			if tt.violation {
				require.Len(t, result.Violations, 1)
				assert.Equal(t, models.ViolationDateOutOfRange, result.Violations[0].ViolationType)
			} else {
				assert.Empty(t, result.Violations)
			}
		})
	}
}

func TestEvaluatePoliciesContentWarningScansRawText(t *testing.T) {
	engine := newTestEngine()

	policy := models.FieldPolicy{
		RuleName:      "Alcohol Content Warning",
		RuleType:      models.RuleTypeContentWarning,
		FieldName:     "content",
		Condition:     models.ConditionContainsKeywords,
		ExpectedValue: "alcohol,beer",
		IsActive:      true,
	}

	// The extracted fields carry no "content" key; the match must run
	// against the raw source text, case-insensitively.
	rawText := "Receipt from pub: two pints of BEER and snacks"
	result := engine.EvaluatePolicies(ExtractedFields{}, rawText, []models.FieldPolicy{policy})

	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, models.ViolationContentWarning, v.ViolationType)
	assert.Equal(t, models.SeverityWarning, v.Severity)
	assert.Equal(t, []string{"beer"}, v.FlaggedItems)
}

func TestEvaluatePoliciesInactiveSkipped(t *testing.T) {
	engine := newTestEngine()

	policies := []models.FieldPolicy{
		{RuleName: "Disabled", RuleType: models.RuleTypeRequiredField, FieldName: "invoice_number", Condition: models.ConditionExists, IsActive: false},
	}

	result := engine.EvaluatePolicies(ExtractedFields{}, "", policies)

	assert.Empty(t, result.Violations)
	assert.Equal(t, 100.0, result.ComplianceScore)
	assert.True(t, result.IsCompliant)
}

func TestEvaluatePoliciesComplianceScore(t *testing.T) {
	engine := newTestEngine()

	// Three active policies, one medium violation and one warning: only
	// the medium one counts against the score.
	policies := []models.FieldPolicy{
		{RuleName: "Invoice Number Required", RuleType: models.RuleTypeRequiredField, FieldName: "invoice_number", Condition: models.ConditionExists, IsActive: true},
		{RuleName: "Amount Required", RuleType: models.RuleTypeRequiredField, FieldName: "amount", Condition: models.ConditionExists, IsActive: true},
		{RuleName: "Alcohol Content Warning", RuleType: models.RuleTypeContentWarning, FieldName: "content", Condition: models.ConditionContainsKeywords, ExpectedValue: "wine", IsActive: true},
	}
	fields := ExtractedFields{"amount": "100"}

	result := engine.EvaluatePolicies(fields, "a bottle of wine", policies)

	require.Len(t, result.Violations, 2)
	assert.Equal(t, 2, result.TotalViolations)
	assert.InDelta(t, 66.67, result.ComplianceScore, 0.001)
	assert.Equal(t, "Invoice has 1 policy violations, 1 warnings out of 3 rules checked", result.Summary)
	assert.Empty(t, result.ApprovalStatus)
	assert.Empty(t, result.StatusColor)
}

func TestEvaluatePoliciesNoActivePolicies(t *testing.T) {
	engine := newTestEngine()

	result := engine.EvaluatePolicies(ExtractedFields{}, "", nil)

	assert.Equal(t, 100.0, result.ComplianceScore)
	assert.True(t, result.IsCompliant)
	assert.Equal(t, "Invoice is fully compliant with all audit policies", result.Summary)
}

func TestEffectiveSeverityDefaults(t *testing.T) {
	assert.Equal(t, models.SeverityMedium, models.FieldPolicy{RuleType: models.RuleTypeRequiredField}.EffectiveSeverity())
	assert.Equal(t, models.SeverityWarning, models.FieldPolicy{RuleType: models.RuleTypeContentWarning}.EffectiveSeverity())
	assert.Equal(t, models.SeverityHigh, models.FieldPolicy{RuleType: models.RuleTypeContentWarning, Severity: models.SeverityHigh}.EffectiveSeverity())
}
