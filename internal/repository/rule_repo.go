// Package repository provides SQLite-backed access to documents,
// category rules, and field policies.
package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

// RuleRepository handles category rule storage.
type RuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sql.DB, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{db: db, logger: logger}
}

// List returns all category rules.
func (r *RuleRepository) List() ([]models.CategoryRule, error) {
	rows, err := r.db.Query(`
		SELECT id, category, max_limit, is_restricted, description
		FROM audit_rules
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rules: %w", err)
	}
	defer rows.Close()

	var rules []models.CategoryRule
	for rows.Next() {
		var rule models.CategoryRule
		if err := rows.Scan(&rule.ID, &rule.Category, &rule.MaxLimit, &rule.IsRestricted, &rule.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Snapshot returns the rules keyed by category, the shape the audit
// engine consumes.
func (r *RuleRepository) Snapshot() (map[string]models.CategoryRule, error) {
	rules, err := r.List()
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]models.CategoryRule, len(rules))
	for _, rule := range rules {
		snapshot[rule.Category] = rule
	}
	return snapshot, nil
}

// Seed inserts the default rules when the table is empty. Idempotent
// across restarts.
func (r *RuleRepository) Seed(defaults []models.CategoryRule) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM audit_rules").Scan(&count); err != nil {
		return fmt.Errorf("failed to count category rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, rule := range defaults {
		_, err := r.db.Exec(`
			INSERT INTO audit_rules (category, max_limit, is_restricted, description)
			VALUES (?, ?, ?, ?)
		`, rule.Category, rule.MaxLimit, rule.IsRestricted, rule.Description)
		if err != nil {
			return fmt.Errorf("failed to seed category rule %q: %w", rule.Category, err)
		}
	}

	r.logger.Info("Seeded default category rules", zap.Int("count", len(defaults)))
	return nil
}
