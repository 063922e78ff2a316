package invoice

import "strings"

const systemPrompt = `You are an expert at reading invoices. You receive text recovered from an
invoice by OCR or PDF extraction and return the invoice as a single JSON object.
Never invent values: use null for anything that is not in the text.
Respond with JSON only, without markdown fences or commentary.`

const responseTemplate = `{
  "invoice_metadata": {
    "invoice_number": "string or null",
    "invoice_date": "YYYY-MM-DD or null",
    "due_date": "YYYY-MM-DD or null",
    "po_number": "string or null",
    "currency": "ISO 4217 code, e.g. USD, EUR, INR",
    "language": "ISO 639-1 code"
  },
  "vendor_details": {
    "name": "string or null",
    "address": {"street": null, "city": null, "state": null, "postal_code": null, "country": null},
    "contact": {"phone": null, "email": null, "website": null},
    "tax_id": "string or null"
  },
  "customer_details": {
    "name": "string or null",
    "address": {"street": null, "city": null, "state": null, "postal_code": null, "country": null},
    "contact": {"phone": null, "email": null, "website": null},
    "customer_id": "string or null"
  },
  "line_items": [
    {
      "item_id": "string or null",
      "description": "string",
      "quantity": 1,
      "unit_price": 0.0,
      "unit_type": "string or null",
      "subtotal": 0.0,
      "tax_rate": 0.0,
      "tax_amount": 0.0,
      "total": 0.0,
      "category": "product | service | tax | discount | other"
    }
  ],
  "summary": {
    "subtotal": 0.0,
    "tax_breakdown": [{"tax_type": "string", "rate": 0.0, "amount": 0.0, "description": null}],
    "total_tax": 0.0,
    "discounts": 0.0,
    "shipping": 0.0,
    "grand_total": 0.0
  },
  "payment_terms": {
    "terms": "string or null",
    "payment_methods": [],
    "bank_details": {"account_name": null, "account_number": null, "routing_number": null, "iban": null, "swift_code": null}
  },
  "additional_info": {
    "notes": "string or null",
    "terms_conditions": "string or null",
    "reference_numbers": []
  }
}`

// buildPrompt assembles the user prompt for text.
func buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract the invoice below into JSON with exactly this structure:\n\n")
	b.WriteString(responseTemplate)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- tax_rate is a fraction between 0 and 1 (18% is 0.18).\n")
	b.WriteString("- Numbers are plain JSON numbers without currency symbols or thousands separators.\n")
	b.WriteString("- Tax lines such as GST, VAT, CGST or SGST use category \"tax\".\n")
	b.WriteString("- Dates use YYYY-MM-DD.\n")
	b.WriteString("\nInvoice text:\n")
	b.WriteString(text)
	return b.String()
}
