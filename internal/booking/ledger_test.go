package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicekit/pkg/models"
)

func fixedLedger() *Ledger {
	l := NewLedger()
	l.now = func() time.Time { return time.Date(2024, 8, 13, 10, 0, 0, 0, time.UTC) }
	l.newID = func() string { return "ACC_0000BEEF" }
	return l
}

func price(v float64) *float64 { return &v }

func TestAccountFor(t *testing.T) {
	assert.Equal(t, Account{"4000", "Sales Revenue"}, AccountFor(models.CategoryProduct))
	assert.Equal(t, Account{"4100", "Service Revenue"}, AccountFor(models.CategoryService))
	assert.Equal(t, Account{"2200", "Tax Payable"}, AccountFor(models.CategoryTax))
	assert.Equal(t, Account{"4900", "Discounts Given"}, AccountFor(models.CategoryDiscount))
	assert.Equal(t, Account{"4999", "Miscellaneous Revenue"}, AccountFor(models.CategoryOther))
	assert.Equal(t, Account{"4999", "Miscellaneous Revenue"}, AccountFor("shipping"))
}

func TestTaxCodeFor(t *testing.T) {
	assert.Equal(t, TaxCodeGST, TaxCodeFor("GST 18%"))
	assert.Equal(t, TaxCodeGST, TaxCodeFor("VAT (19%)"))
	assert.Equal(t, TaxCodeSales, TaxCodeFor("State Sales Tax"))
	assert.Equal(t, TaxCodeOther, TaxCodeFor("Levy"))
}

func TestBook(t *testing.T) {
	data := models.NewStructuredInvoiceData()
	data.InvoiceMetadata.InvoiceNumber = "INV-7"
	data.InvoiceMetadata.InvoiceDate = "2024-08-13"
	data.InvoiceMetadata.Currency = "USD"
	data.VendorDetails.Name = "ACME Corp"
	data.LineItems = []models.LineItem{
		{Description: "Widget", Quantity: 2, UnitPrice: price(10), Subtotal: 20, Total: 20, Category: models.CategoryProduct},
		{Description: "Consulting", Quantity: 1, UnitPrice: price(22), Subtotal: 22, Total: 22, Category: models.CategoryService},
		{Description: "Sales Tax", TaxAmount: 8, Total: 8, Category: models.CategoryTax},
		{Description: "Loyalty discount", Subtotal: -5, Total: -5, Category: models.CategoryDiscount},
		{Description: "Misc", Subtotal: 0.1, Total: 0.1},
	}

	batch, err := fixedLedger().Book(data)
	require.NoError(t, err)

	assert.Equal(t, "ACC_0000BEEF", batch.EntryID)
	assert.Equal(t, "INV-7", batch.InvoiceNumber)
	assert.Equal(t, "ACME Corp", batch.Vendor)
	assert.Equal(t, "USD", batch.Currency)
	require.Len(t, batch.Entries, 5)

	tax := batch.Entries[2]
	assert.Equal(t, "2200", tax.AccountCode)
	require.NotNil(t, tax.TaxCode)
	assert.Equal(t, TaxCodeSales, *tax.TaxCode)
	assert.Nil(t, batch.Entries[0].TaxCode)

	assert.Equal(t, models.CategoryOther, batch.Entries[4].Type)
	assert.Equal(t, "4999", batch.Entries[4].AccountCode)
	assert.Equal(t, -5.0, batch.Entries[3].Amount)

	assert.Equal(t, 1, batch.Categories[models.CategoryProduct].Count)
	assert.Equal(t, 20.0, batch.Categories[models.CategoryProduct].TotalAmount)
	assert.Equal(t, -5.0, batch.Categories[models.CategoryDiscount].TotalAmount)

	assert.Equal(t, 42.0, batch.Totals.Subtotal)
	assert.Equal(t, 8.0, batch.Totals.TaxTotal)
	assert.Equal(t, 5.0, batch.Totals.DiscountTotal)
	assert.Equal(t, 45.1, batch.Totals.GrandTotal)
}

func TestBookEmptyInvoice(t *testing.T) {
	batch, err := fixedLedger().Book(models.NewStructuredInvoiceData())
	require.NoError(t, err)
	assert.Empty(t, batch.Entries)
	assert.Zero(t, batch.Totals.GrandTotal)
}

func TestBookNil(t *testing.T) {
	_, err := fixedLedger().Book(nil)
	assert.Error(t, err)
}

func TestNewEntryID(t *testing.T) {
	id := newEntryID()
	assert.Regexp(t, `^ACC_[0-9A-F]{8}$`, id)
}
