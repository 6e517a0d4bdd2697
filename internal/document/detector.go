// Package document handles uploaded files: type detection, content
// fingerprinting, PDF text extraction, and model processing.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"

	"github.com/invoicehub/invoice-audit/internal/models"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// Fingerprint derives the deduplication hash for an upload. The secret
// is mixed in so hashes are not portable across deployments.
func Fingerprint(content []byte, secret string) string {
	sum := sha256.Sum256(append(append([]byte{}, content...), []byte(secret)...))
	return hex.EncodeToString(sum[:])
}

// DetectFileType classifies an upload as image or text and reports
// whether it can be processed at all. A PDF with selectable text is a
// text document; a scanned PDF goes down the image path.
func DetectFileType(content []byte, filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if imageExtensions[ext] {
		return models.FileTypeImage, true
	}

	doc, err := fitz.NewFromMemory(content)
	if err == nil {
		defer doc.Close()

		hasText := false
		for page := 0; page < doc.NumPage(); page++ {
			text, err := doc.Text(page)
			if err != nil {
				continue
			}
			if strings.TrimSpace(text) != "" {
				hasText = true
				break
			}
		}

		if hasText {
			return models.FileTypeText, true
		}
		// No text layer: treat as scanned pages.
		return models.FileTypeImage, true
	}

	// Not a PDF. Plain text is processable as-is.
	if utf8.Valid(content) {
		return models.FileTypeText, true
	}
	return models.FileTypeText, false
}

// ExtractText pulls the text layer out of a PDF, falling back to the
// raw bytes for plain-text content.
func ExtractText(content []byte) string {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return string(content)
	}
	defer doc.Close()

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	if sb.Len() == 0 {
		return string(content)
	}
	return sb.String()
}
