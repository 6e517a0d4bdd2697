package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

// PolicyRepository handles field policy storage.
type PolicyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db *sql.DB, logger *zap.Logger) *PolicyRepository {
	return &PolicyRepository{db: db, logger: logger}
}

// List returns all field policies, active or not.
func (r *PolicyRepository) List() ([]models.FieldPolicy, error) {
	return r.query(`
		SELECT id, rule_name, rule_type, field_name, condition, expected_value, severity, is_active
		FROM audit_policies
		ORDER BY id
	`)
}

// ListActive returns only the policies the evaluator should apply.
func (r *PolicyRepository) ListActive() ([]models.FieldPolicy, error) {
	return r.query(`
		SELECT id, rule_name, rule_type, field_name, condition, expected_value, severity, is_active
		FROM audit_policies
		WHERE is_active = 1
		ORDER BY id
	`)
}

func (r *PolicyRepository) query(q string) ([]models.FieldPolicy, error) {
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to list field policies: %w", err)
	}
	defer rows.Close()

	var policies []models.FieldPolicy
	for rows.Next() {
		var p models.FieldPolicy
		if err := rows.Scan(&p.ID, &p.RuleName, &p.RuleType, &p.FieldName, &p.Condition, &p.ExpectedValue, &p.Severity, &p.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan field policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// Seed inserts the default policies when the table is empty.
func (r *PolicyRepository) Seed(defaults []models.FieldPolicy) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audit_policies").Scan(&count); err != nil {
		return fmt.Errorf("failed to count field policies: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range defaults {
		_, err := r.db.Exec(`
			INSERT INTO audit_policies (rule_name, rule_type, field_name, condition, expected_value, severity, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.RuleName, p.RuleType, p.FieldName, p.Condition, p.ExpectedValue, p.Severity, p.IsActive)
		if err != nil {
			return fmt.Errorf("failed to seed field policy %q: %w", p.RuleName, err)
		}
	}

	r.logger.Info("Seeded default field policies", zap.Int("count", len(defaults)))
	return nil
}
