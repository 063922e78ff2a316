package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = "Invoice #INV-2024-001\nDate: 2024-08-13\nACME Corp Inc.\nWeb Development Services 1 2500.00\nTotal: 2500.00"

func TestExtractSampleInvoice(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		field Field
		want  string
	}{
		{InvoiceNumber, "INV-2024-001"},
		{Date, "2024-08-13"},
		{Total, "2500.00"},
		{Vendor, "ACME Corp Inc."},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, ok := e.Extract(sampleInvoice, tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAbsentField(t *testing.T) {
	e := NewExtractor()

	_, ok := e.Extract("nothing useful here", VendorEmail)
	assert.False(t, ok)

	_, ok = e.Extract(sampleInvoice, Field("unknown"))
	assert.False(t, ok)
}

func TestExtractFirstPatternWins(t *testing.T) {
	e := NewExtractor()
	text := "Amount Due: 80.00\nTotal: 100.00"

	got, ok := e.Extract(text, Total)
	require.True(t, ok)
	assert.Equal(t, "100.00", got, "labelled total outranks amount due regardless of position")
}

func TestExtractCurrencyGlyph(t *testing.T) {
	got, ok := NewExtractor().Extract("Grand Total: ₹1,180.50", Total)
	require.True(t, ok)
	assert.Equal(t, "1,180.50", got)
}

func TestExtractContactFields(t *testing.T) {
	text := "Globex Ltd\n42 Baker Street, London\nPhone: +44 20 7946 0958\nSales@Globex.example.com\nBill To: Initech LLC"
	e := NewExtractor()

	email, ok := e.Extract(text, VendorEmail)
	require.True(t, ok)
	assert.Equal(t, "sales@globex.example.com", email)

	phone, ok := e.Extract(text, VendorPhone)
	require.True(t, ok)
	assert.Equal(t, "+44 20 7946 0958", phone)

	address, ok := e.Extract(text, VendorAddress)
	require.True(t, ok)
	assert.Equal(t, "42 Baker Street", address)

	customer, ok := e.Extract(text, Customer)
	require.True(t, ok)
	assert.Equal(t, "Initech LLC", customer)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := NewExtractor()
	for _, f := range []Field{InvoiceNumber, Date, Total, Vendor, VendorAddress, VendorPhone, VendorEmail, Customer} {
		first, ok1 := e.Extract(sampleInvoice, f)
		second, ok2 := e.Extract(sampleInvoice, f)
		assert.Equal(t, ok1, ok2, f)
		assert.Equal(t, first, second, f)
	}
}

func TestPatternsOrder(t *testing.T) {
	e := NewExtractor()

	invoice := e.Patterns(InvoiceNumber)
	require.Len(t, invoice, 6)
	assert.Contains(t, invoice[0], `invoice\s*#?`)
	assert.Contains(t, invoice[4], `#\s*(`)

	total := e.Patterns(Total)
	require.Len(t, total, 5)
	assert.Contains(t, total[0], "total")
	assert.Contains(t, total[1], `amount\s*due`)
	assert.Contains(t, total[4], `balance\s*due`)

	assert.Len(t, e.Patterns(Vendor), 4)
	assert.Empty(t, e.Patterns(Field("unknown")))
}

func TestVendorHeaderScan(t *testing.T) {
	var r VendorResolver

	got, ok := r.Resolve("TAX INVOICE\nPage 1\n\nBright Ideas Co.\n123 Main St")
	require.True(t, ok)
	assert.Equal(t, "Bright Ideas Co.", got)

	got, ok = r.Resolve("Invoice 7\nNorthwind Traders (HQ)!\n")
	require.True(t, ok)
	assert.Equal(t, "Northwind Traders HQ", got)

	got, ok = r.Resolve("Invoice 9\n1234\ntelco supplies\n")
	require.True(t, ok)
	assert.Equal(t, "telco supplies", got)
}

func TestVendorPatternFallback(t *testing.T) {
	var r VendorResolver

	header := strings.Repeat("123 tax\n", 10)
	got, ok := r.Resolve(header + "42 supplier: Umbrella Corp")
	require.True(t, ok)
	assert.Equal(t, "Umbrella Corp", got)

	_, ok = r.Resolve("123\n456\n")
	assert.False(t, ok)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2024-08-13", "2024-08-13", true},
		{"08/13/2024", "2024-08-13", true},
		{"13/08/2024", "2024-08-13", true},
		{"13.08.24", "2024-08-13", true},
		{"1-2-2024", "2024-01-02", true},
		{"99/99/2024", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
