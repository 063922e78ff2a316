package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = nonNumeric.ReplaceAllString(raw, "")
	} else {
		raw = string(b)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// unparseable values fall back to the field default
		return nil
	}
	f.value, f.set = v, true
	return nil
}

func (f flexFloat) or(def float64) float64 {
	if !f.set {
		return def
	}
	return f.value
}

func (f flexFloat) ptr() *float64 {
	if !f.set {
		return nil
	}
	return Float(f.value)
}

// flexString accepts a JSON string, number, bool or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*s = flexString(b)
	return nil
}

type wireAddress struct {
	Street     flexString `json:"street"`
	City       flexString `json:"city"`
	State      flexString `json:"state"`
	PostalCode flexString `json:"postal_code"`
	Country    flexString `json:"country"`
}

type wireContact struct {
	Phone   flexString `json:"phone"`
	Email   flexString `json:"email"`
	Website flexString `json:"website"`
}

type wireParty struct {
	Name       flexString  `json:"name"`
	Address    wireAddress `json:"address"`
	Contact    wireContact `json:"contact"`
	TaxID      flexString  `json:"tax_id"`
	CustomerID flexString  `json:"customer_id"`
}

type wireLineItem struct {
	ItemID      flexString `json:"item_id"`
	Description flexString `json:"description"`
	Quantity    flexFloat  `json:"quantity"`
	UnitPrice   flexFloat  `json:"unit_price"`
	UnitType    flexString `json:"unit_type"`
	Subtotal    flexFloat  `json:"subtotal"`
	TaxRate     flexFloat  `json:"tax_rate"`
	TaxAmount   flexFloat  `json:"tax_amount"`
	Total       flexFloat  `json:"total"`
	Category    flexString `json:"category"`
}

type wireTaxBreakdown struct {
	TaxType     flexString `json:"tax_type"`
	Rate        flexFloat  `json:"rate"`
	Amount      flexFloat  `json:"amount"`
	Description flexString `json:"description"`
}

type wireInvoice struct {
	InvoiceMetadata struct {
		InvoiceNumber flexString `json:"invoice_number"`
		InvoiceDate   flexString `json:"invoice_date"`
		DueDate       flexString `json:"due_date"`
		PONumber      flexString `json:"po_number"`
		Currency      flexString `json:"currency"`
		Language      flexString `json:"language"`
	} `json:"invoice_metadata"`
	VendorDetails   wireParty      `json:"vendor_details"`
	CustomerDetails wireParty      `json:"customer_details"`
	LineItems       []wireLineItem `json:"line_items"`
	Summary         struct {
		Subtotal     flexFloat          `json:"subtotal"`
		TaxBreakdown []wireTaxBreakdown `json:"tax_breakdown"`
		TotalTax     flexFloat          `json:"total_tax"`
		Discounts    flexFloat          `json:"discounts"`
		Shipping     flexFloat          `json:"shipping"`
		GrandTotal   flexFloat          `json:"grand_total"`
	} `json:"summary"`
	PaymentTerms struct {
		Terms          flexString   `json:"terms"`
		PaymentMethods []flexString `json:"payment_methods"`
		BankDetails    struct {
			AccountName   flexString `json:"account_name"`
			AccountNumber flexString `json:"account_number"`
			RoutingNumber flexString `json:"routing_number"`
			IBAN          flexString `json:"iban"`
			SwiftCode     flexString `json:"swift_code"`
		} `json:"bank_details"`
	} `json:"payment_terms"`
	AdditionalInfo struct {
		Notes            flexString   `json:"notes"`
		TermsConditions  flexString   `json:"terms_conditions"`
		ReferenceNumbers []flexString `json:"reference_numbers"`
	} `json:"additional_info"`
}

// FromJSON maps an externally produced JSON document onto a new record.
// Absent keys keep their defaults; numeric fields accept numbers or numeric
// strings. The result is not validated.
func FromJSON(data []byte) (*StructuredInvoiceData, error) {
	var w wireInvoice
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode invoice json: %w", err)
	}

	d := NewStructuredInvoiceData()

	m := w.InvoiceMetadata
	d.InvoiceMetadata = InvoiceMetadata{
		InvoiceNumber: string(m.InvoiceNumber),
		InvoiceDate:   string(m.InvoiceDate),
		DueDate:       string(m.DueDate),
		PONumber:      string(m.PONumber),
		Currency:      strings.ToUpper(orDefault(string(m.Currency), DefaultCurrency)),
		Language:      orDefault(string(m.Language), DefaultLanguage),
	}

	d.VendorDetails = VendorDetails{
		Name:    string(w.VendorDetails.Name),
		Address: w.VendorDetails.Address.toModel(),
		Contact: w.VendorDetails.Contact.toModel(),
		TaxID:   string(w.VendorDetails.TaxID),
	}
	d.CustomerDetails = CustomerDetails{
		Name:       string(w.CustomerDetails.Name),
		Address:    w.CustomerDetails.Address.toModel(),
		Contact:    w.CustomerDetails.Contact.toModel(),
		CustomerID: string(w.CustomerDetails.CustomerID),
	}

	for _, li := range w.LineItems {
		d.LineItems = append(d.LineItems, LineItem{
			ItemID:      string(li.ItemID),
			Description: string(li.Description),
			Quantity:    li.Quantity.or(1),
			UnitPrice:   li.UnitPrice.ptr(),
			UnitType:    string(li.UnitType),
			Subtotal:    li.Subtotal.or(0),
			TaxRate:     li.TaxRate.or(0),
			TaxAmount:   li.TaxAmount.or(0),
			Total:       li.Total.or(0),
			Category:    ParseCategory(string(li.Category)),
		})
	}

	s := w.Summary
	d.Summary.Subtotal = s.Subtotal.or(0)
	d.Summary.TotalTax = s.TotalTax.or(0)
	d.Summary.Discounts = s.Discounts.or(0)
	d.Summary.Shipping = s.Shipping.or(0)
	d.Summary.GrandTotal = s.GrandTotal.or(0)
	for _, tb := range s.TaxBreakdown {
		d.Summary.TaxBreakdown = append(d.Summary.TaxBreakdown, TaxBreakdown{
			TaxType:     string(tb.TaxType),
			Rate:        tb.Rate.or(0),
			Amount:      tb.Amount.or(0),
			Description: string(tb.Description),
		})
	}

	p := w.PaymentTerms
	d.PaymentTerms.Terms = string(p.Terms)
	d.PaymentTerms.PaymentMethods = strs(p.PaymentMethods)
	d.PaymentTerms.BankDetails = BankDetails{
		AccountName:   string(p.BankDetails.AccountName),
		AccountNumber: string(p.BankDetails.AccountNumber),
		RoutingNumber: string(p.BankDetails.RoutingNumber),
		IBAN:          string(p.BankDetails.IBAN),
		SwiftCode:     string(p.BankDetails.SwiftCode),
	}

	a := w.AdditionalInfo
	d.AdditionalInfo.Notes = string(a.Notes)
	d.AdditionalInfo.TermsConditions = string(a.TermsConditions)
	d.AdditionalInfo.ReferenceNumbers = strs(a.ReferenceNumbers)

	return d, nil
}

// ParseCategory normalizes s, returning CategoryOther for unknown values.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryProduct, CategoryService, CategoryTax, CategoryDiscount:
		return c
	default:
		return CategoryOther
	}
}

func (a wireAddress) toModel() Address {
	return Address{
		Street:     string(a.Street),
		City:       string(a.City),
		State:      string(a.State),
		PostalCode: string(a.PostalCode),
		Country:    string(a.Country),
	}
}

func (c wireContact) toModel() Contact {
	return Contact{
		Phone:   string(c.Phone),
		Email:   string(c.Email),
		Website: string(c.Website),
	}
}

func strs(in []flexString) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, string(s))
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
