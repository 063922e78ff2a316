package invoice_test

import (
	"context"
	"fmt"

	"invoicekit/internal/config"
	"invoicekit/internal/invoice"
)

// Example extracts an invoice with the pattern path only.
func Example() {
	cfg := config.DefaultAIConfig()
	cfg.Enabled = false

	orchestrator := invoice.NewOrchestrator(cfg, nil)

	text := "Invoice #INV-2024-001\nDate: 2024-08-13\nACME Corp Inc.\nWeb Development Services 1 2500.00\nTotal: 2500.00"
	data, method := orchestrator.Extract(context.Background(), text)

	fmt.Println(method)
	fmt.Println(data.InvoiceMetadata.InvoiceNumber, data.InvoiceMetadata.InvoiceDate)
	fmt.Println(data.VendorDetails.Name)
	fmt.Printf("%d item(s), grand total %.2f, confidence %.1f\n",
		len(data.LineItems), data.Summary.GrandTotal, data.Confidence())
	// Output:
	// regex_fallback
	// INV-2024-001 2024-08-13
	// ACME Corp Inc.
	// 1 item(s), grand total 2500.00, confidence 0.6
}

// ExampleOrchestrator_Extract_empty shows the result for a document without text.
func ExampleOrchestrator_Extract_empty() {
	orchestrator := invoice.NewOrchestrator(config.DefaultAIConfig(), nil)

	data, method := orchestrator.Extract(context.Background(), "")
	fmt.Println(data == nil, method)
	// Output: true extraction_failed
}
