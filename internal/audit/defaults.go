package audit

import "github.com/invoicehub/invoice-audit/internal/models"

// DefaultInvoiceKeywords gate the fallback path: a document whose text
// contains none of them is treated as not an invoice and skips auditing.
var DefaultInvoiceKeywords = []string{
	"invoice", "bill", "receipt", "total", "amount", "price", "cost", "payment",
}

// DefaultAlcoholKeywords are scanned by the fallback path when the
// structured extraction is unusable. Any hit rejects the document.
var DefaultAlcoholKeywords = []string{
	"whiskey", "scotch", "beer", "wine", "vodka", "rum", "gin",
	"alcohol", "liquor", "champagne", "cocktail",
}

// businessIndicators mark text as originating from a business entity.
// Used by the vendor-name extraction fallback.
var businessIndicators = []string{
	"company", "corp", "inc", "ltd", "llc", "store", "shop", "restaurant",
	"cafe", "hotel", "market", "business", "enterprise", "services", "solutions",
}

// vendorSentinel is recorded when no labeled vendor name matched but the
// text carries business indicators.
const vendorSentinel = "Business entity detected"

// DefaultCategoryRules seed the rule store on first run. The Others rule
// is the mandatory catch-all.
func DefaultCategoryRules() []models.CategoryRule {
	return []models.CategoryRule{
		{Category: "Food", MaxLimit: 1500.0, IsRestricted: false, Description: "Per meal allowance for employees."},
		{Category: "Travel", MaxLimit: 10000.0, IsRestricted: false, Description: "Inter-city travel and hotel stays."},
		{Category: "Utility", MaxLimit: 5000.0, IsRestricted: false, Description: "Internet, electricity, and phone bills."},
		{Category: "Office Supplies", MaxLimit: 3000.0, IsRestricted: false, Description: "Stationery and small equipment."},
		{Category: "Alcohol", MaxLimit: 0.0, IsRestricted: true, Description: "Strictly prohibited for reimbursement."},
		{Category: "Entertainment", MaxLimit: 0.0, IsRestricted: true, Description: "Personal movies, spas, or leisure activities."},
		{Category: "Jewelry", MaxLimit: 0.0, IsRestricted: true, Description: "High-risk personal luxury items."},
		{Category: models.CategoryOthers, MaxLimit: 1000.0, IsRestricted: false, Description: "General catch-all category for small items."},
	}
}

// DefaultFieldPolicies seed the policy store on first run.
func DefaultFieldPolicies() []models.FieldPolicy {
	return []models.FieldPolicy{
		{RuleName: "Invoice Number Required", RuleType: models.RuleTypeRequiredField, FieldName: "invoice_number", Condition: models.ConditionExists, Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Amount Required", RuleType: models.RuleTypeRequiredField, FieldName: "amount", Condition: models.ConditionExists, Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Date Required", RuleType: models.RuleTypeRequiredField, FieldName: "date", Condition: models.ConditionExists, Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Vendor Name Required", RuleType: models.RuleTypeRequiredField, FieldName: "vendor_name", Condition: models.ConditionExists, Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Maximum Amount Limit", RuleType: models.RuleTypeAmountLimit, FieldName: "amount", Condition: models.ConditionMaxValue, ExpectedValue: "10000", Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Minimum Amount Limit", RuleType: models.RuleTypeAmountLimit, FieldName: "amount", Condition: models.ConditionMinValue, ExpectedValue: "1", Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Invoice Number Format", RuleType: models.RuleTypeFormatCheck, FieldName: "invoice_number", Condition: models.ConditionFormatMatch, ExpectedValue: "^[A-Z0-9-]+$", Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Date Range Check", RuleType: models.RuleTypeDateRange, FieldName: "date", Condition: models.ConditionWithinDays, ExpectedValue: "365", Severity: models.SeverityMedium, IsActive: true},
		{RuleName: "Alcohol Content Warning", RuleType: models.RuleTypeContentWarning, FieldName: "content", Condition: models.ConditionContainsKeywords, ExpectedValue: "alcohol,beer,wine,liquor,vodka,whiskey,rum,gin,champagne,cocktail,bar,pub,brewery,distillery", Severity: models.SeverityWarning, IsActive: true},
		{RuleName: "Entertainment Content Warning", RuleType: models.RuleTypeContentWarning, FieldName: "content", Condition: models.ConditionContainsKeywords, ExpectedValue: "party,entertainment,club,nightclub,casino,gambling,strip club,adult entertainment,massage,spa", Severity: models.SeverityWarning, IsActive: true},
		{RuleName: "High-Risk Vendor Warning", RuleType: models.RuleTypeContentWarning, FieldName: "content", Condition: models.ConditionContainsKeywords, ExpectedValue: "cash only,no receipt,under table,off books,personal expense,gift,donation", Severity: models.SeverityHigh, IsActive: true},
		{RuleName: "Luxury Items Warning", RuleType: models.RuleTypeContentWarning, FieldName: "content", Condition: models.ConditionContainsKeywords, ExpectedValue: "jewelry,luxury,designer,rolex,gucci,louis vuitton,expensive watch,diamond,gold", Severity: models.SeverityWarning, IsActive: true},
	}
}
