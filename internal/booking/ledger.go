// Package booking maps extracted line items to a simple revenue chart of
// accounts.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoicekit/internal/logger"
	"invoicekit/pkg/models"
	"invoicekit/pkg/services"
)

// Account is a ledger account.
type Account struct {
	Code string
	Name string
}

var (
	accountsByCategory = map[models.Category]Account{
		models.CategoryProduct:  {"4000", "Sales Revenue"},
		models.CategoryService:  {"4100", "Service Revenue"},
		models.CategoryTax:      {"2200", "Tax Payable"},
		models.CategoryDiscount: {"4900", "Discounts Given"},
	}
	miscAccount = Account{"4999", "Miscellaneous Revenue"}
)

// Tax codes for tax line items.
const (
	TaxCodeGST   = "GST"
	TaxCodeSales = "ST"
	TaxCodeOther = "TAX"
)

// AccountFor returns the account a category books to.
func AccountFor(c models.Category) Account {
	if a, ok := accountsByCategory[c]; ok {
		return a
	}
	return miscAccount
}

// TaxCodeFor classifies a tax line by its description.
func TaxCodeFor(description string) string {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "gst"), strings.Contains(d, "vat"):
		return TaxCodeGST
	case strings.Contains(d, "sales tax"):
		return TaxCodeSales
	}
	return TaxCodeOther
}

// Ledger implements services.BookingService.
type Ledger struct {
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// NewLedger creates a ledger.
func NewLedger() *Ledger {
	return &Ledger{
		now:   time.Now,
		newID: newEntryID,
		log:   logger.WithComponent("booking"),
	}
}

var _ services.BookingService = (*Ledger)(nil)

func newEntryID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ACC_" + strings.ToUpper(hex[:8])
}

// Book creates one entry per line item. The booked amount of an item is its
// total; discounts are counted by absolute value in DiscountTotal.
func (l *Ledger) Book(data *models.StructuredInvoiceData) (*services.EntryBatch, error) {
	const op = "Book"

	if data == nil {
		return nil, fmt.Errorf("%s: no invoice data", op)
	}

	batch := &services.EntryBatch{
		EntryID:       l.newID(),
		InvoiceNumber: data.InvoiceMetadata.InvoiceNumber,
		InvoiceDate:   data.InvoiceMetadata.InvoiceDate,
		Vendor:        data.VendorDetails.Name,
		Currency:      data.InvoiceMetadata.Currency,
		Entries:       make([]services.AccountingEntry, 0, len(data.LineItems)),
		Categories:    make(map[models.Category]services.CategoryTotal),
		GeneratedAt:   l.now(),
	}

	var (
		subtotal  = decimal.Zero
		tax       = decimal.Zero
		discounts = decimal.Zero
		grand     = decimal.Zero
		perCat    = make(map[models.Category]decimal.Decimal)
	)

	for _, item := range data.LineItems {
		category := item.Category
		if category == "" {
			category = models.CategoryOther
		}
		account := AccountFor(category)
		amount := decimal.NewFromFloat(item.Total)

		entry := services.AccountingEntry{
			Type:        category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Total,
			AccountCode: account.Code,
			AccountName: account.Name,
		}
		if category == models.CategoryTax {
			code := TaxCodeFor(item.Description)
			entry.TaxCode = &code
		}
		batch.Entries = append(batch.Entries, entry)

		ct := batch.Categories[category]
		ct.Count++
		batch.Categories[category] = ct
		perCat[category] = perCat[category].Add(amount)

		switch {
		case category == models.CategoryProduct || category == models.CategoryService:
			subtotal = subtotal.Add(decimal.NewFromFloat(item.Subtotal))
		case category == models.CategoryDiscount || item.Total < 0:
			discounts = discounts.Add(amount.Abs())
		}
		tax = tax.Add(decimal.NewFromFloat(item.TaxAmount))
		grand = grand.Add(amount)
	}

	for category, total := range perCat {
		ct := batch.Categories[category]
		ct.TotalAmount = total.Round(2).InexactFloat64()
		batch.Categories[category] = ct
	}

	batch.Totals = services.Totals{
		Subtotal:      subtotal.Round(2).InexactFloat64(),
		TaxTotal:      tax.Round(2).InexactFloat64(),
		DiscountTotal: discounts.Round(2).InexactFloat64(),
		GrandTotal:    grand.Round(2).InexactFloat64(),
	}

	l.log.Info().
		Str("entry_id", batch.EntryID).
		Str("invoice_number", batch.InvoiceNumber).
		Int("entries", len(batch.Entries)).
		Float64("grand_total", batch.Totals.GrandTotal).
		Msg("Accounting entries generated")

	return batch, nil
}
