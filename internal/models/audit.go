package models

// Approval status values derived by the category auditor.
const (
	StatusApproved = "approved"
	StatusWarning  = "warning"
	StatusRejected = "rejected"
)

// Status colors matching the approval status for UI gating.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Violation severities, ordered from least to most severe.
const (
	SeverityWarning = "warning"
	SeverityMedium  = "medium"
	SeverityHigh    = "high"
)

// Violation types emitted by the audit engine.
const (
	ViolationMissingField       = "missing_field"
	ViolationAmountExceeded     = "amount_exceeded"
	ViolationAmountBelowMin     = "amount_below_minimum"
	ViolationFormatMismatch     = "format_mismatch"
	ViolationDateOutOfRange     = "date_out_of_range"
	ViolationContentWarning     = "content_warning"
	ViolationRestrictedItem     = "restricted_item"
	ViolationProcessingError    = "processing_error"
)

// Violation records a single rule breach found during an audit.
type Violation struct {
	RuleName      string   `json:"rule_name"`
	FieldName     string   `json:"field_name"`
	ViolationType string   `json:"violation_type"`
	Severity      string   `json:"severity"`
	Message       string   `json:"message"`
	FlaggedItems  []string `json:"flagged_items,omitempty"`
}

// AuditResult is the normalized outcome of every audit path.
// TotalViolations always equals len(Violations); when ApprovalStatus is
// set, IsCompliant is true exactly when the status is approved.
type AuditResult struct {
	IsCompliant     bool        `json:"is_compliant"`
	TotalViolations int         `json:"total_violations"`
	Violations      []Violation `json:"violations"`
	ComplianceScore float64     `json:"compliance_score"`
	Summary         string      `json:"summary"`
	ApprovalStatus  string      `json:"approval_status,omitempty"`
	StatusColor     string      `json:"status_color,omitempty"`
}
