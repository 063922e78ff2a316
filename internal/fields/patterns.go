package fields

import "regexp"

// Field names a value the Extractor knows how to find.
type Field string

const (
	InvoiceNumber Field = "invoice_number"
	Date          Field = "date"
	Total         Field = "total"
	Vendor        Field = "vendor"
	VendorAddress Field = "vendor_address"
	VendorPhone   Field = "vendor_phone"
	VendorEmail   Field = "vendor_email"
	Customer      Field = "customer"
)

// cascade is an ordered list of patterns for one field. lower selects
// matching against the lower-cased text.
type cascade struct {
	lower    bool
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?im)` + e)
	}
	return out
}

const amountCapture = `\s*:?\s*₹?\$?€?£?([0-9,]+\.?\d{0,2})`

// Priority is list order. Codes and names keep their case, so those
// cascades run against the original text.
var cascades = map[Field]cascade{
	InvoiceNumber: {
		patterns: compile(
			`invoice\s*#?\s*:?\s*([A-Z0-9\-/]+)`,
			`inv\s*#?\s*:?\s*([A-Z0-9\-/]+)`,
			`bill\s*#?\s*:?\s*([A-Z0-9\-/]+)`,
			`receipt\s*#?\s*:?\s*([A-Z0-9\-/]+)`,
			`#\s*([A-Z0-9\-/]+)`,
			`invoice\s*no\.?\s*:?\s*([A-Z0-9\-/]+)`,
		),
	},
	Date: {
		lower: true,
		patterns: compile(
			`date\s*:?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
			`invoice\s*date\s*:?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
			`bill\s*date\s*:?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
			`(\d{4}-\d{2}-\d{2})`,
			`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
		),
	},
	Total: {
		lower: true,
		patterns: compile(
			`total`+amountCapture,
			`amount\s*due`+amountCapture,
			`grand\s*total`+amountCapture,
			`net\s*amount`+amountCapture,
			`balance\s*due`+amountCapture,
		),
	},
	VendorAddress: {
		patterns: compile(
			`(\d+\s+[A-Za-z\s.\-,]+(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Boulevard|Blvd))`,
			`(P\.?O\.?\s*Box\s+\d+)`,
			`([A-Z][A-Za-z\s.\-,]+,\s*[A-Z][A-Za-z\s]+,\s*\d{5,6})`,
		),
	},
	VendorPhone: {
		lower: true,
		patterns: compile(
			`(?:phone|tel|mobile|contact)\s*:?\s*([+]?[\d\s\-()]{10,15})`,
			`([+]?[\d\s\-()]{10,15})`,
		),
	},
	VendorEmail: {
		lower: true,
		patterns: compile(
			`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
		),
	},
	Customer: {
		patterns: compile(
			`(?:bill\s*to|customer|client)\s*:?\s*([A-Z][A-Za-z\s&.\-,]+)`,
			`(?:ship\s*to|deliver\s*to)\s*:?\s*([A-Z][A-Za-z\s&.\-,]+)`,
		),
	},
}

// vendorPatterns run after the header scan finds nothing.
var vendorPatterns = compile(
	`^([A-Z][A-Za-z\s&.\-,]+(?:Inc|LLC|Corp|Ltd|Co|Company|Corporation|Limited|Pvt|Private|LLP|Partnership)\.?)`,
	`^([A-Z][A-Za-z\s&.\-,]{5,50})`,
	`(?:from|bill\s*from)\s*:?\s*([A-Z][A-Za-z\s&.\-,]+)`,
	`(?:vendor|supplier)\s*:?\s*([A-Z][A-Za-z\s&.\-,]+)`,
)
