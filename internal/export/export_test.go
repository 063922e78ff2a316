package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicekit/pkg/models"
	"invoicekit/pkg/services"
)

func sampleInvoice() *models.StructuredInvoiceData {
	price := 10.0
	data := models.NewStructuredInvoiceData()
	data.InvoiceMetadata.InvoiceNumber = "INV-1"
	data.InvoiceMetadata.InvoiceDate = "2024-08-13"
	data.InvoiceMetadata.Currency = "USD"
	data.VendorDetails.Name = "ACME Corp"
	data.LineItems = []models.LineItem{
		{ItemID: "W1", Description: "Widget", Quantity: 2, UnitPrice: &price, Subtotal: 20, Total: 20, Category: models.CategoryProduct},
		{Description: "Sales Tax", TaxAmount: 2, Total: 2, Category: models.CategoryTax},
	}
	return data
}

func TestLineItemTable(t *testing.T) {
	tbl := LineItemTable(sampleInvoice(), nil)

	assert.Equal(t, 12, tbl.Width())
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []any{"INV-1", "2024-08-13", "ACME Corp", "W1", "Widget", "product", 2.0, 10.0, 20.0, 0.0, 20.0, "USD"}, tbl.Rows[0])
	assert.Equal(t, "", tbl.Rows[1][7])
}

func TestEntryTable(t *testing.T) {
	code := "ST"
	batch := &services.EntryBatch{
		EntryID:       "ACC_12345678",
		InvoiceNumber: "INV-1",
		Currency:      "USD",
		Entries: []services.AccountingEntry{
			{Type: models.CategoryTax, Description: "Sales Tax", Amount: 2, AccountCode: "2200", AccountName: "Tax Payable", TaxCode: &code},
			{Type: models.CategoryProduct, Description: "Widget", Amount: 20, AccountCode: "4000", AccountName: "Sales Revenue"},
		},
	}

	tbl := EntryTable(batch)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "ACC_12345678", tbl.Rows[0][0])
	assert.Equal(t, "ST", tbl.Rows[0][11])
	assert.Equal(t, "", tbl.Rows[1][11])
	assert.Len(t, tbl.Rows[1], tbl.Width())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "", LineItemTable(sampleInvoice())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())

	header, err := f.GetCellValue(DefaultSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number", header)

	desc, err := f.GetCellValue(DefaultSheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "Sales Tax", desc)

	total, err := f.GetCellValue(DefaultSheet, "K2")
	require.NoError(t, err)
	assert.Equal(t, "20", total)
}
