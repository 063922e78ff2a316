package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONLenientFields(t *testing.T) {
	payload := []byte(`{
		"invoice_metadata": {"invoice_number": 12345, "invoice_date": "2024-08-13", "currency": "eur"},
		"vendor_details": {"name": "ACME Corp", "address": {"street": "1 Main St", "city": null}},
		"line_items": [
			{"description": "Widget", "quantity": "2", "unit_price": "€12.50", "category": "PRODUCT"},
			{"description": "Mystery", "total": 4, "category": "gadget"}
		],
		"summary": {"grand_total": "25.00", "shipping": null},
		"payment_terms": {"payment_methods": ["card", null, "wire"]}
	}`)

	d, err := FromJSON(payload)
	require.NoError(t, err)

	assert.Equal(t, "12345", d.InvoiceMetadata.InvoiceNumber)
	assert.Equal(t, "EUR", d.InvoiceMetadata.Currency)
	assert.Equal(t, "en", d.InvoiceMetadata.Language)
	assert.Equal(t, "ACME Corp", d.VendorDetails.Name)
	assert.Equal(t, "", d.VendorDetails.Address.City)

	require.Len(t, d.LineItems, 2)
	assert.Equal(t, 2.0, d.LineItems[0].Quantity)
	require.NotNil(t, d.LineItems[0].UnitPrice)
	assert.Equal(t, 12.5, *d.LineItems[0].UnitPrice)
	assert.Equal(t, CategoryProduct, d.LineItems[0].Category)

	assert.Equal(t, 1.0, d.LineItems[1].Quantity)
	assert.Nil(t, d.LineItems[1].UnitPrice)
	assert.Equal(t, CategoryOther, d.LineItems[1].Category)

	assert.Equal(t, 25.0, d.Summary.GrandTotal)
	assert.Equal(t, []string{"card", "wire"}, d.PaymentTerms.PaymentMethods)
}

func TestFromJSONEmptyObject(t *testing.T) {
	d, err := FromJSON([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "USD", d.InvoiceMetadata.Currency)
	assert.Empty(t, d.LineItems)
	assert.Empty(t, d.Validate())
}

func TestFromJSONMalformed(t *testing.T) {
	_, err := FromJSON([]byte(`{"invoice_metadata": `))
	assert.Error(t, err)
}
