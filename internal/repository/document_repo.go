package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

// DocumentRepository handles stored document records.
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// Create inserts a document record and sets its ID.
func (r *DocumentRepository) Create(doc *models.Document) error {
	result, err := r.db.Exec(`
		INSERT INTO documents (file_hash, file_type, original_filename, storage_path, model_response, audit_result)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.FileHash, doc.FileType, doc.OriginalFilename, doc.StoragePath, doc.ModelResponse, doc.AuditResult)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	doc.ID = id
	return nil
}

// GetByHash returns the document with the given content hash, or nil
// when none exists.
func (r *DocumentRepository) GetByHash(fileHash string) (*models.Document, error) {
	doc, err := r.scanOne(`
		SELECT id, file_hash, file_type, original_filename, storage_path, model_response, audit_result, created_at
		FROM documents
		WHERE file_hash = ?
		LIMIT 1
	`, fileHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// GetByID returns the document with the given ID.
func (r *DocumentRepository) GetByID(id int64) (*models.Document, error) {
	doc, err := r.scanOne(`
		SELECT id, file_hash, file_type, original_filename, storage_path, model_response, audit_result, created_at
		FROM documents
		WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %d not found", id)
	}
	return doc, err
}

// List returns all documents, newest first.
func (r *DocumentRepository) List() ([]models.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, file_hash, file_type, original_filename, storage_path, model_response, audit_result, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.FileHash, &doc.FileType, &doc.OriginalFilename,
			&doc.StoragePath, &doc.ModelResponse, &doc.AuditResult, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) scanOne(query string, args ...interface{}) (*models.Document, error) {
	var doc models.Document
	err := r.db.QueryRow(query, args...).Scan(
		&doc.ID, &doc.FileHash, &doc.FileType, &doc.OriginalFilename,
		&doc.StoragePath, &doc.ModelResponse, &doc.AuditResult, &doc.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			r.logger.Error("Failed to query document", zap.Error(err))
		}
		return nil, err
	}
	return &doc, nil
}
