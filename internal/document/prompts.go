package document

// describeImagePrompt asks the vision model for the human-readable
// rendition of an invoice image.
const describeImagePrompt = `Extract invoice data in this format:

ITEMS:
Item | Qty | Rate | Amount
[item name] | [quantity] | [unit price] | [total]

TOTAL: $[amount]

Provide clear tabular format for all line items.`

// describeTextPrompt asks the text model to summarize document content.
const describeTextPrompt = `Analyze and summarize this document content:

%s`

// structuredPrompt asks for the JSON shape the audit engine consumes.
// The category list matches the seeded category rules; the model is
// untrusted and its output is parse-checked downstream.
const structuredPrompt = `Extract items and amounts from this document as JSON. Categorize items accurately:

{"items": [{"name": "item_name", "category": "Food/Travel/Utility/Office Supplies/Alcohol/Entertainment/Jewelry/Others", "amount": 0.0}], "total_amount": 0.0}

IMPORTANT: If you see any alcoholic beverages (wine, beer, whiskey, vodka, etc.), categorize as 'Alcohol'. If you see entertainment items (spa, massage, casino, etc.), categorize as 'Entertainment'. If you see luxury items (jewelry, designer brands, etc.), categorize as 'Jewelry'.`

// structuredTextPrompt appends the document text to the structured
// extraction instructions.
const structuredTextPrompt = structuredPrompt + `

Document: %s`
