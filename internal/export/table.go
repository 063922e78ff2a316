// Package export turns extracted invoices and accounting entries into
// spreadsheet tables.
package export

import (
	"invoicekit/pkg/models"
	"invoicekit/pkg/services"
)

// Table is a header row plus data rows, ready for a spreadsheet.
type Table struct {
	Header []string
	Rows   [][]any
}

// Width is the number of columns.
func (t Table) Width() int {
	return len(t.Header)
}

var lineItemHeader = []string{
	"Invoice Number", "Invoice Date", "Vendor", "Item ID", "Description",
	"Category", "Quantity", "Unit Price", "Subtotal", "Tax Amount", "Total", "Currency",
}

var entryHeader = []string{
	"Entry ID", "Invoice Number", "Invoice Date", "Vendor", "Type", "Description",
	"Quantity", "Unit Price", "Amount", "Account Code", "Account Name", "Tax Code", "Currency",
}

// LineItemTable lists the line items of one or more invoices.
func LineItemTable(invoices ...*models.StructuredInvoiceData) Table {
	t := Table{Header: lineItemHeader}
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		meta := inv.InvoiceMetadata
		for _, li := range inv.LineItems {
			t.Rows = append(t.Rows, []any{
				meta.InvoiceNumber,
				meta.InvoiceDate,
				inv.VendorDetails.Name,
				li.ItemID,
				li.Description,
				string(li.Category),
				li.Quantity,
				optional(li.UnitPrice),
				li.Subtotal,
				li.TaxAmount,
				li.Total,
				meta.Currency,
			})
		}
	}
	return t
}

// EntryTable lists accounting entries.
func EntryTable(batches ...*services.EntryBatch) Table {
	t := Table{Header: entryHeader}
	for _, b := range batches {
		if b == nil {
			continue
		}
		for _, e := range b.Entries {
			taxCode := ""
			if e.TaxCode != nil {
				taxCode = *e.TaxCode
			}
			t.Rows = append(t.Rows, []any{
				b.EntryID,
				b.InvoiceNumber,
				b.InvoiceDate,
				b.Vendor,
				string(e.Type),
				e.Description,
				e.Quantity,
				optional(e.UnitPrice),
				e.Amount,
				e.AccountCode,
				e.AccountName,
				taxCode,
				b.Currency,
			})
		}
	}
	return t
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
