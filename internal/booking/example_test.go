package booking_test

import (
	"fmt"

	"invoicekit/internal/booking"
	"invoicekit/pkg/models"
)

// Example books a two line invoice.
func Example() {
	data := models.NewStructuredInvoiceData()
	data.InvoiceMetadata.InvoiceNumber = "INV-42"
	data.LineItems = []models.LineItem{
		{Description: "Consulting", Quantity: 1, Subtotal: 100, Total: 100, Category: models.CategoryService},
		{Description: "GST 18%", TaxAmount: 18, Total: 18, Category: models.CategoryTax},
	}

	batch, err := booking.NewLedger().Book(data)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, e := range batch.Entries {
		taxCode := "-"
		if e.TaxCode != nil {
			taxCode = *e.TaxCode
		}
		fmt.Printf("%s %s %.2f %s\n", e.AccountCode, e.AccountName, e.Amount, taxCode)
	}
	fmt.Printf("grand total %.2f\n", batch.Totals.GrandTotal)
	// Output:
	// 4100 Service Revenue 100.00 -
	// 2200 Tax Payable 18.00 GST
	// grand total 118.00
}
