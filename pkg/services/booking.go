package services

import (
	"time"

	"invoicekit/pkg/models"
)

// BookingService turns extracted invoices into accounting entries
type BookingService interface {
	// Book creates one entry per line item of data, with category summaries and totals.
	Book(data *models.StructuredInvoiceData) (*EntryBatch, error)
}

// AccountingEntry is the booking of a single line item
type AccountingEntry struct {
	Type        models.Category `json:"type"`
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   *float64        `json:"unit_price"`
	Amount      float64         `json:"amount"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	TaxCode     *string         `json:"tax_code"` // only for tax items
}

// CategoryTotal counts the entries of one category
type CategoryTotal struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// Totals aggregates all entries of a batch
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TaxTotal      float64 `json:"tax_total"`
	DiscountTotal float64 `json:"discount_total"`
	GrandTotal    float64 `json:"grand_total"`
}

// EntryBatch holds the entries generated for one invoice
type EntryBatch struct {
	EntryID       string                            `json:"entry_id"` // ACC_ followed by 8 hex digits
	InvoiceNumber string                            `json:"invoice_number"`
	InvoiceDate   string                            `json:"invoice_date"`
	Vendor        string                            `json:"vendor"`
	Currency      string                            `json:"currency"`
	Entries       []AccountingEntry                 `json:"accounting_entries"`
	Categories    map[models.Category]CategoryTotal `json:"categories"`
	Totals        Totals                            `json:"totals"`
	GeneratedAt   time.Time                         `json:"generated_at"`
}
