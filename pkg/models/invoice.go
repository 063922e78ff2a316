package models

import "time"

// Category classifies a line item.
type Category string

const (
	CategoryProduct  Category = "product"
	CategoryService  Category = "service"
	CategoryTax      Category = "tax"
	CategoryDiscount Category = "discount"
	CategoryOther    Category = "other"
)

// Extraction method tags reported in ExtractionMetadata.Method.
const (
	MethodUnknown          = "unknown"
	MethodGemini           = "gemini_ai"
	MethodOpenAI           = "openai_chat"
	MethodRegexFallback    = "regex_fallback"
	MethodExtractionFailed = "extraction_failed"
)

const (
	DefaultCurrency = "USD"
	DefaultLanguage = "en"
)

// Address holds a postal address. All parts are optional.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Complete reports whether street and city are both present.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != ""
}

// Contact holds phone, email and website details.
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// InvoiceMetadata identifies the document. Dates use YYYY-MM-DD.
type InvoiceMetadata struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`
	PONumber      string `json:"po_number"`
	Currency      string `json:"currency"`
	Language      string `json:"language"`
}

// VendorDetails describes the issuing party.
type VendorDetails struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
	Contact Contact `json:"contact"`
	TaxID   string  `json:"tax_id"`
}

// CustomerDetails describes the billed party.
type CustomerDetails struct {
	Name       string  `json:"name"`
	Address    Address `json:"address"`
	Contact    Contact `json:"contact"`
	CustomerID string  `json:"customer_id"`
}

// LineItem is one priced entry on the invoice.
//
// After DeriveTotals: Subtotal = Quantity*UnitPrice when UnitPrice is set,
// TaxAmount = Subtotal*TaxRate when TaxRate > 0, and Total = Subtotal+TaxAmount
// (or Subtotal alone when no tax applies).
type LineItem struct {
	ItemID      string   `json:"item_id"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	UnitType    string   `json:"unit_type"`
	Subtotal    float64  `json:"subtotal"`
	TaxRate     float64  `json:"tax_rate"`
	TaxAmount   float64  `json:"tax_amount"`
	Total       float64  `json:"total"`
	Category    Category `json:"category"`
}

// TaxBreakdown is informational and not used for total derivation.
type TaxBreakdown struct {
	TaxType     string  `json:"tax_type"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Summary carries the document level figures.
type Summary struct {
	Subtotal     float64        `json:"subtotal"`
	TaxBreakdown []TaxBreakdown `json:"tax_breakdown"`
	TotalTax     float64        `json:"total_tax"`
	Discounts    float64        `json:"discounts"`
	Shipping     float64        `json:"shipping"`
	GrandTotal   float64        `json:"grand_total"`
}

type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	IBAN          string `json:"iban"`
	SwiftCode     string `json:"swift_code"`
}

type PaymentTerms struct {
	Terms          string      `json:"terms"`
	PaymentMethods []string    `json:"payment_methods"`
	BankDetails    BankDetails `json:"bank_details"`
}

type AdditionalInfo struct {
	Notes            string   `json:"notes"`
	TermsConditions  string   `json:"terms_conditions"`
	ReferenceNumbers []string `json:"reference_numbers"`
}

// ExtractionMetadata records how a single extraction attempt went.
type ExtractionMetadata struct {
	Method          string   `json:"method"`
	Model           string   `json:"model"`
	ConfidenceScore *float64 `json:"confidence_score"`
	ProcessingTime  *float64 `json:"processing_time"`
	FallbackUsed    bool     `json:"fallback_used"`
	ExtractedAt     string   `json:"extracted_at"`
	Errors          []string `json:"errors"`
}

// StructuredInvoiceData is the canonical extraction result. It owns all of
// its sub-records; use Clone to obtain an independent copy.
type StructuredInvoiceData struct {
	ExtractionMetadata ExtractionMetadata `json:"extraction_metadata"`
	InvoiceMetadata    InvoiceMetadata    `json:"invoice_metadata"`
	VendorDetails      VendorDetails      `json:"vendor_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	LineItems          []LineItem         `json:"line_items"`
	Summary            Summary            `json:"summary"`
	PaymentTerms       PaymentTerms       `json:"payment_terms"`
	AdditionalInfo     AdditionalInfo     `json:"additional_info"`
}

// NewStructuredInvoiceData returns an empty record with defaults applied.
func NewStructuredInvoiceData() *StructuredInvoiceData {
	return &StructuredInvoiceData{
		ExtractionMetadata: ExtractionMetadata{
			Method:      MethodUnknown,
			ExtractedAt: time.Now().Format(time.RFC3339),
			Errors:      []string{},
		},
		InvoiceMetadata: InvoiceMetadata{
			Currency: DefaultCurrency,
			Language: DefaultLanguage,
		},
		LineItems: []LineItem{},
		Summary: Summary{
			TaxBreakdown: []TaxBreakdown{},
		},
		PaymentTerms: PaymentTerms{
			PaymentMethods: []string{},
		},
		AdditionalInfo: AdditionalInfo{
			ReferenceNumbers: []string{},
		},
	}
}

// Clone returns a deep copy.
func (d *StructuredInvoiceData) Clone() *StructuredInvoiceData {
	if d == nil {
		return nil
	}
	c := *d
	c.ExtractionMetadata.ConfidenceScore = copyFloat(d.ExtractionMetadata.ConfidenceScore)
	c.ExtractionMetadata.ProcessingTime = copyFloat(d.ExtractionMetadata.ProcessingTime)
	c.ExtractionMetadata.Errors = copySlice(d.ExtractionMetadata.Errors)
	c.LineItems = nil
	if d.LineItems != nil {
		c.LineItems = make([]LineItem, len(d.LineItems))
	}
	for i, item := range d.LineItems {
		item.UnitPrice = copyFloat(item.UnitPrice)
		c.LineItems[i] = item
	}
	c.Summary.TaxBreakdown = copySlice(d.Summary.TaxBreakdown)
	c.PaymentTerms.PaymentMethods = copySlice(d.PaymentTerms.PaymentMethods)
	c.AdditionalInfo.ReferenceNumbers = copySlice(d.AdditionalInfo.ReferenceNumbers)
	return &c
}

// SetConfidence stores score in the extraction metadata.
func (d *StructuredInvoiceData) SetConfidence(score float64) {
	d.ExtractionMetadata.ConfidenceScore = &score
}

// Confidence returns the stored score, or 0 when none was recorded.
func (d *StructuredInvoiceData) Confidence() float64 {
	if d == nil || d.ExtractionMetadata.ConfidenceScore == nil {
		return 0
	}
	return *d.ExtractionMetadata.ConfidenceScore
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// copySlice keeps nil as nil and empty as empty, so JSON output is unchanged.
func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}
