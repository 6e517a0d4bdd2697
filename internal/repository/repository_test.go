package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/audit"
	"github.com/invoicehub/invoice-audit/internal/models"
	"github.com/invoicehub/invoice-audit/pkg/database"
)

// newTestDB opens an in-memory database with the full schema applied.
// A single connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run())
	return db
}

func TestRuleRepositorySeedAndSnapshot(t *testing.T) {
	db := newTestDB(t)
	repo := NewRuleRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.Seed(audit.DefaultCategoryRules()))

	snapshot, err := repo.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snapshot, 8)

	others, ok := snapshot[models.CategoryOthers]
	require.True(t, ok, "the Others catch-all must always be seeded")
	assert.Equal(t, 1000.0, others.MaxLimit)
	assert.False(t, others.IsRestricted)

	alcohol := snapshot["Alcohol"]
	assert.True(t, alcohol.IsRestricted)
	assert.Equal(t, 0.0, alcohol.MaxLimit)
}

func TestRuleRepositorySeedIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRuleRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.Seed(audit.DefaultCategoryRules()))
	require.NoError(t, repo.Seed(audit.DefaultCategoryRules()))

	rules, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, rules, 8)
}

func TestPolicyRepositorySeedAndListActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.Seed(audit.DefaultFieldPolicies()))

	active, err := repo.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 12)

	// Deactivate one and confirm the active view shrinks.
	_, err = db.Exec("UPDATE audit_policies SET is_active = 0 WHERE rule_name = ?", "Luxury Items Warning")
	require.NoError(t, err)

	active, err = repo.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 11)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestPolicyRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db.DB, zap.NewNop())
	require.NoError(t, repo.Seed(audit.DefaultFieldPolicies()))

	policies, err := repo.ListActive()
	require.NoError(t, err)

	byName := make(map[string]models.FieldPolicy)
	for _, p := range policies {
		byName[p.RuleName] = p
	}

	highRisk := byName["High-Risk Vendor Warning"]
	assert.Equal(t, models.RuleTypeContentWarning, highRisk.RuleType)
	assert.Equal(t, models.SeverityHigh, highRisk.Severity)
	assert.Contains(t, highRisk.ExpectedValue, "cash only")

	format := byName["Invoice Number Format"]
	assert.Equal(t, models.ConditionFormatMatch, format.Condition)
	assert.Equal(t, "^[A-Z0-9-]+$", format.ExpectedValue)
}

func TestDocumentRepositoryCreateAndFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db.DB, zap.NewNop())

	doc := &models.Document{
		FileHash:         "abc123",
		FileType:         models.FileTypeText,
		OriginalFilename: "invoice.pdf",
		StoragePath:      "uploads/invoice.pdf",
		ModelResponse:    "Invoice for business expenses",
		AuditResult:      `{"is_compliant":true}`,
	}
	require.NoError(t, repo.Create(doc))
	assert.NotZero(t, doc.ID)

	byHash, err := repo.GetByHash("abc123")
	require.NoError(t, err)
	require.NotNil(t, byHash)
	assert.Equal(t, doc.ID, byHash.ID)
	assert.Equal(t, "invoice.pdf", byHash.OriginalFilename)

	missing, err := repo.GetByHash("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byID, err := repo.GetByID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", byID.FileHash)
}

func TestDocumentRepositoryDuplicateHashRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db.DB, zap.NewNop())

	first := &models.Document{FileHash: "same", FileType: models.FileTypeText, OriginalFilename: "a.pdf"}
	require.NoError(t, repo.Create(first))

	dup := &models.Document{FileHash: "same", FileType: models.FileTypeText, OriginalFilename: "b.pdf"}
	assert.Error(t, repo.Create(dup))
}

func TestDocumentRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db.DB, zap.NewNop())

	for _, h := range []string{"h1", "h2", "h3"} {
		require.NoError(t, repo.Create(&models.Document{
			FileHash: h, FileType: models.FileTypeImage, OriginalFilename: h + ".png",
		}))
	}

	docs, err := repo.List()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	// Newest first; equal timestamps fall back to descending ID.
	assert.Equal(t, "h3", docs[0].FileHash)
}
