package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/audit"
	"github.com/invoicehub/invoice-audit/internal/document"
	"github.com/invoicehub/invoice-audit/internal/models"
	"github.com/invoicehub/invoice-audit/internal/report"
	"github.com/invoicehub/invoice-audit/internal/repository"
	"github.com/invoicehub/invoice-audit/internal/storage"
)

// DocumentProcessor produces the description and structured JSON for an
// upload. Satisfied by document.Processor; an interface so tests can
// stub the model calls.
type DocumentProcessor interface {
	Process(ctx context.Context, content []byte, fileType string) (description, structured string, err error)
}

// UploadConfig holds upload acceptance limits.
type UploadConfig struct {
	MaxFileSize       int64
	AllowedExtensions []string
	SecretKey         string
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine    *audit.Engine
	processor DocumentProcessor
	rules     *repository.RuleRepository
	policies  *repository.PolicyRepository
	documents *repository.DocumentRepository
	store     storage.UploadStore
	exporter  *report.Exporter
	upload    UploadConfig
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	engine *audit.Engine,
	processor DocumentProcessor,
	rules *repository.RuleRepository,
	policies *repository.PolicyRepository,
	documents *repository.DocumentRepository,
	store storage.UploadStore,
	exporter *report.Exporter,
	upload UploadConfig,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		engine:    engine,
		processor: processor,
		rules:     rules,
		policies:  policies,
		documents: documents,
		store:     store,
		exporter:  exporter,
		upload:    upload,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// UploadResponse carries the outcome of a processed upload.
type UploadResponse struct {
	DocumentID  int64              `json:"document_id"`
	FileType    string             `json:"file_type"`
	Description string             `json:"description"`
	AuditResult models.AuditResult `json:"audit_result"`
}

// PreviewRequest feeds the audit engine directly, without any file
// handling or persistence. Mode "category" (the default) runs the
// orchestrator; mode "policy" runs field extraction plus the
// field-policy evaluator over the active policies.
type PreviewRequest struct {
	RawText        string `json:"raw_text" binding:"required"`
	StructuredJSON string `json:"structured_json"`
	Mode           string `json:"mode"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// Upload handles POST /api/upload. The pipeline: validate the file,
// reject duplicates by content hash, run model processing, gate on
// invoice keywords, audit, and persist accepted documents.
func (h *Handlers) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file is required"})
		return
	}

	if fileHeader.Size > h.upload.MaxFileSize {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file exceeds maximum allowed size"})
		return
	}

	if !h.extensionAllowed(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file extension not allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to read file"})
		return
	}

	fileHash := document.Fingerprint(content, h.upload.SecretKey)
	existing, err := h.documents.GetByHash(fileHash)
	if err != nil {
		h.logger.Error("Duplicate lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to check for duplicates"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "this file has already been uploaded"})
		return
	}

	fileType, ok := document.DetectFileType(content, fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unsupported file content"})
		return
	}

	description, structured, err := h.processor.Process(c.Request.Context(), content, fileType)
	if err != nil {
		h.logger.Error("Document processing failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "document processing failed"})
		return
	}

	if !h.engine.IsInvoice(description) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "uploaded document is not an invoice"})
		return
	}

	rules, err := h.rules.Snapshot()
	if err != nil {
		h.logger.Error("Failed to load category rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load audit rules"})
		return
	}

	result := h.engine.Perform(description, structured, rules)
	if result.ApprovalStatus == models.StatusRejected {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invoice rejected by audit",
			Data:    result,
		})
		return
	}

	storagePath, err := h.store.Save(fileHash, fileHeader.Filename, content)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store file"})
		return
	}

	auditJSON, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("Failed to serialize audit result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record audit result"})
		return
	}

	doc := &models.Document{
		FileHash:         fileHash,
		FileType:         fileType,
		OriginalFilename: fileHeader.Filename,
		StoragePath:      storagePath,
		ModelResponse:    description,
		AuditResult:      string(auditJSON),
	}
	if err := h.documents.Create(doc); err != nil {
		h.logger.Error("Failed to record document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record document"})
		return
	}

	h.logger.Info("Document accepted",
		zap.Int64("document_id", doc.ID),
		zap.String("file_type", fileType),
		zap.String("approval_status", result.ApprovalStatus))

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: UploadResponse{
			DocumentID:  doc.ID,
			FileType:    fileType,
			Description: description,
			AuditResult: result,
		},
	})
}

// ListDocuments handles GET /api/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List()
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve documents"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: docs})
}

// GetDocument handles GET /api/documents/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid document ID"})
		return
	}

	doc, err := h.documents.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "document not found"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

// ListRules handles GET /api/audit/rules
func (h *Handlers) ListRules(c *gin.Context) {
	rules, err := h.rules.List()
	if err != nil {
		h.logger.Error("Failed to list rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve rules"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rules})
}

// ListPolicies handles GET /api/audit/policies
func (h *Handlers) ListPolicies(c *gin.Context) {
	policies, err := h.policies.List()
	if err != nil {
		h.logger.Error("Failed to list policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve policies"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: policies})
}

// PreviewAudit handles POST /api/audit/preview. It runs the engine on
// caller-supplied text without touching storage, for rule testing.
func (h *Handlers) PreviewAudit(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "raw_text is required"})
		return
	}

	if req.Mode == "policy" {
		policies, err := h.policies.ListActive()
		if err != nil {
			h.logger.Error("Failed to load field policies", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load audit policies"})
			return
		}

		fields := audit.ExtractFields(req.RawText)
		result := h.engine.EvaluatePolicies(fields, req.RawText, policies)
		c.JSON(http.StatusOK, Response{Success: true, Data: result})
		return
	}

	rules, err := h.rules.Snapshot()
	if err != nil {
		h.logger.Error("Failed to load category rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load audit rules"})
		return
	}

	result := h.engine.Perform(req.RawText, req.StructuredJSON, rules)
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// AuditReport handles GET /api/reports/audit and streams an xlsx
// workbook with one row per stored document.
func (h *Handlers) AuditReport(c *gin.Context) {
	docs, err := h.documents.List()
	if err != nil {
		h.logger.Error("Failed to list documents for report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve documents"})
		return
	}

	data, err := h.exporter.Export(docs)
	if err != nil {
		h.logger.Error("Report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to generate report"})
		return
	}

	filename := "audit-report-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handlers) extensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range h.upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
