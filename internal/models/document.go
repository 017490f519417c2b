package models

// InvoiceKind classifies the document being built
type InvoiceKind string

const (
	InvoiceKindSales       InvoiceKind = "SalesInvoice"
	InvoiceKindSalesOrder  InvoiceKind = "SalesOrder"
	InvoiceKindReturn      InvoiceKind = "ReturnInvoice"
	InvoiceKindReturnOrder InvoiceKind = "ReturnOrder"
)

// IsReturn reports whether the kind drives refund-line building
func (k InvoiceKind) IsReturn() bool {
	return k == InvoiceKindReturn || k == InvoiceKindReturnOrder
}

// Reserved address codes. Warehouse codes must not collide with these;
// the warehouse mirror rejects them at write time.
const (
	AddressCodeOrigin      = "Orig"
	AddressCodeDestination = "Dest"
)

// Line number suffixes
const (
	LineSuffixItem      = "LI"  // line item
	LineSuffixFreight   = "FR"  // shipment/freight
	LineSuffixRefund    = "RA"  // generic refund adjustment
	LineSuffixGuarantee = "TOG" // guarantee-claim credit
)

// Default tax codes applied when the source data carries no tax category
const (
	DefaultItemTaxCode    = "P0000000"
	DefaultFreightTaxCode = "FR000000"
	DefaultRefundTaxCode  = "PC040100"
)

// AddressRecord is one entry of the address array consumed by the tax
// engine. Field names and casing are part of the downstream contract.
type AddressRecord struct {
	AddressCode string `json:"AddressCode"`
	Line1       string `json:"Line1"`
	Line2       string `json:"Line2,omitempty"`
	City        string `json:"City"`
	Region      string `json:"Region,omitempty"`
	PostalCode  string `json:"PostalCode"`
	Country     string `json:"Country"`
}

// TaxLine is one taxable line of the transaction document. Amount is
// positive for sale lines and negative for any credit/refund line.
type TaxLine struct {
	LineNo            string  `json:"LineNo"`
	Description       string  `json:"Description"`
	TaxCode           string  `json:"TaxCode"`
	ItemCode          string  `json:"ItemCode"`
	Qty               int     `json:"Qty"`
	Amount            float64 `json:"Amount"`
	OriginCode        string  `json:"OriginCode"`
	DestinationCode   string  `json:"DestinationCode"`
	CustomerUsageType string  `json:"CustomerUsageType"`
	Discounted        *bool   `json:"Discounted,omitempty"`
}
