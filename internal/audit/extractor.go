package audit

import (
	"regexp"
	"strconv"
	"strings"
)

// Extracted field keys.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldAmount        = "amount"
	FieldDate          = "date"
	FieldVendorName    = "vendor_name"
)

// ExtractedFields maps field keys to their best-effort extracted values.
// Any key may be absent; amounts are stored in canonical decimal form.
type ExtractedFields map[string]string

// fieldPattern is one entry of the ordered extraction table. Patterns
// for the same field are tried in order and the first accepted match
// wins. The post-processor canonicalizes the captured value and may
// reject it, in which case the next pattern for that field is tried.
type fieldPattern struct {
	field string
	re    *regexp.Regexp
	post  func(raw string) (string, bool)
}

var extractionPatterns = []fieldPattern{
	{FieldInvoiceNumber, regexp.MustCompile(`(?i)invoice\s*(?:number|#|no\.?)\s*:?\s*([A-Z0-9-]+)`), nil},
	{FieldInvoiceNumber, regexp.MustCompile(`(?i)inv\s*(?:number|#|no\.?)\s*:?\s*([A-Z0-9-]+)`), nil},
	{FieldInvoiceNumber, regexp.MustCompile(`(?i)bill\s*(?:number|#|no\.?)\s*:?\s*([A-Z0-9-]+)`), nil},

	{FieldAmount, regexp.MustCompile(`(?i)(?:total|amount|sum)\s*:?\s*\$?([0-9,]+\.?[0-9]*)`), parseAmount},
	{FieldAmount, regexp.MustCompile(`\$([0-9,]+\.?[0-9]*)`), parseAmount},
	{FieldAmount, regexp.MustCompile(`(?i)([0-9,]+\.?[0-9]*)\s*(?:dollars?|usd|\$)`), parseAmount},

	{FieldDate, regexp.MustCompile(`(?i)date\s*:?\s*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})`), nil},
	{FieldDate, regexp.MustCompile(`([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})`), nil},
	{FieldDate, regexp.MustCompile(`([A-Za-z]+ [0-9]{1,2},? [0-9]{4})`), nil},

	{FieldVendorName, regexp.MustCompile(`(?i)(?:from|vendor|company|business)\s*:?\s*([A-Za-z\s&.,]+?)(?:\n|[0-9]|$)`), parseVendor},
	{FieldVendorName, regexp.MustCompile(`(?i)bill\s+from\s+([A-Za-z\s&.,]+?)(?:\n|[0-9]|$)`), parseVendor},
	{FieldVendorName, regexp.MustCompile(`(?i)invoice\s+from\s+([A-Za-z\s&.,]+?)(?:\n|[0-9]|$)`), parseVendor},
}

// parseAmount strips thousands separators and requires a valid decimal.
func parseAmount(raw string) (string, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', -1, 64), true
}

// parseVendor trims the captured name and rejects fragments too short to
// be a real vendor.
func parseVendor(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if len(name) <= 2 {
		return "", false
	}
	return name, true
}

// ExtractFields pulls invoice fields out of free-form model output.
// Extraction is best effort: it never fails, it only under-populates.
func ExtractFields(text string) ExtractedFields {
	fields := make(ExtractedFields)

	for _, fp := range extractionPatterns {
		if _, done := fields[fp.field]; done {
			continue
		}
		matches := fp.re.FindStringSubmatch(text)
		if len(matches) < 2 {
			continue
		}
		value := matches[1]
		if fp.post != nil {
			var ok bool
			if value, ok = fp.post(matches[1]); !ok {
				continue
			}
		}
		fields[fp.field] = value
	}

	// No labeled vendor found: fall back to a sentinel when the text
	// still reads like it came from a business.
	if _, ok := fields[FieldVendorName]; !ok {
		lower := strings.ToLower(text)
		for _, indicator := range businessIndicators {
			if strings.Contains(lower, indicator) {
				fields[FieldVendorName] = vendorSentinel
				break
			}
		}
	}

	return fields
}
