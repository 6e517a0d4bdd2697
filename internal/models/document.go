package models

import "time"

// Document file types as detected at upload time.
const (
	FileTypeImage = "image"
	FileTypeText  = "text"
)

// Document is a stored upload together with its processing outputs and
// the serialized audit result.
type Document struct {
	ID               int64     `json:"id"`
	FileHash         string    `json:"file_hash"`
	FileType         string    `json:"file_type"`
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	ModelResponse    string    `json:"model_response"`
	AuditResult      string    `json:"audit_result"` // JSON-encoded AuditResult
	CreatedAt        time.Time `json:"created_at"`
}
