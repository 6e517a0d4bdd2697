package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Category used when an item carries no recognized category. A rule for
// it must always exist in the rule store.
const CategoryOthers = "Others"

// Field policy rule types.
const (
	RuleTypeRequiredField  = "required_field"
	RuleTypeAmountLimit    = "amount_limit"
	RuleTypeFormatCheck    = "format_check"
	RuleTypeDateRange      = "date_range"
	RuleTypeContentWarning = "content_warning"
)

// Field policy conditions. Their meaning is fixed per rule type.
const (
	ConditionExists           = "exists"
	ConditionMaxValue         = "max_value"
	ConditionMinValue         = "min_value"
	ConditionFormatMatch      = "format_match"
	ConditionWithinDays       = "within_days"
	ConditionContainsKeywords = "contains_keywords"
)

// CategoryRule is a per-category spending rule. A restricted category
// disallows any spend outright, regardless of amount.
type CategoryRule struct {
	ID           int64   `json:"id"`
	Category     string  `json:"category"`
	MaxLimit     float64 `json:"max_limit"`
	IsRestricted bool    `json:"is_restricted"`
	Description  string  `json:"description"`
}

// FieldPolicy is a generic validation rule over a named extracted field.
type FieldPolicy struct {
	ID            int64  `json:"id"`
	RuleName      string `json:"rule_name"`
	RuleType      string `json:"rule_type"`
	FieldName     string `json:"field_name"`
	Condition     string `json:"condition"`
	ExpectedValue string `json:"expected_value"`
	Severity      string `json:"severity"`
	IsActive      bool   `json:"is_active"`
}

// EffectiveSeverity resolves the policy severity, applying the documented
// default when the record carries none: warning for content warnings,
// medium for everything else.
func (p FieldPolicy) EffectiveSeverity() string {
	if p.Severity != "" {
		return p.Severity
	}
	if p.RuleType == RuleTypeContentWarning {
		return SeverityWarning
	}
	return SeverityMedium
}

// LineItem is one entry of the structured extraction output. Category
// resolution falls back to Others and the amount tolerates the malformed
// values the upstream model produces.
type LineItem struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Amount   FlexFloat `json:"amount"`
}

// FlexFloat decodes a JSON number, a numeric string (thousands
// separators stripped), or falls back to zero. It never fails the
// surrounding unmarshal: the upstream extractor is untrusted and a bad
// amount must not knock the whole document into the fallback path.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexFloat(v)
			return nil
		}
	}

	*f = 0
	return nil
}
