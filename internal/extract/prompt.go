// Package extract drives the AI extraction backends. Provider packages
// register themselves with the factory; callers only see the
// port.FieldExtractor interface.
package extract

// BuildInvoicePrompt returns the fixed extraction prompt. Vision and text
// backends share the same seven-field contract so their output parses into
// one schema.
func BuildInvoicePrompt() string {
	return `You are an invoice data extraction assistant. Extract the invoice data from the provided input.

Return ONLY a single valid JSON object with no markdown formatting, no code fences, and no explanation, using exactly these keys:
{
  "invoice_number": "",
  "vendor_name": "",
  "invoice_date": "",
  "pre_tax_amount": 0,
  "tax_amount": 0,
  "total_amount": 0,
  "payment_status": ""
}

RULES:
- Numeric fields must be bare JSON numbers: no currency symbols, no thousands separators, no quotes.
- If a text field is not present in the input, use the string "Unknown".
- If a numeric field is not present in the input, use null.
- payment_status must be one of: Paid, Unpaid, Due, Overdue, Unknown.
- Never invent values that are not present in the input.`
}

// TextPrompt appends one row's field listing to the shared contract prompt.
func TextPrompt(rowText string) string {
	return BuildInvoicePrompt() + "\n\nInvoice row data:\n" + rowText
}
