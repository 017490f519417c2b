package models

// BuildDocumentRequest represents a request to build a transaction document.
// The invoice kind is an input contract: return kinds drive refund-line
// building and require Refund to be set.
type BuildDocumentRequest struct {
	InvoiceKind InvoiceKind   `json:"invoiceKind" binding:"required"`
	DocCode     string        `json:"docCode"`
	Order       OrderSnapshot `json:"order" binding:"required"`
	Refund      *Refund       `json:"refund"`
}

// BuildDocumentResponse carries the ordered address and line arrays
type BuildDocumentResponse struct {
	DocCode     string          `json:"docCode"`
	InvoiceKind InvoiceKind     `json:"invoiceKind"`
	Addresses   []AddressRecord `json:"addresses"`
	Lines       []TaxLine       `json:"lines"`
}

// ValidateAddressRequest represents a request to validate an order's
// shipping address
type ValidateAddressRequest struct {
	Order OrderSnapshot `json:"order" binding:"required"`
}

// ValidationStatus is the typed outcome of an address validation attempt
type ValidationStatus string

const (
	ValidationDisabled  ValidationStatus = "disabled"   // flag off or country not enabled; no call made
	ValidationNoAddress ValidationStatus = "no_address" // order has no ship address
	ValidationConfirmed ValidationStatus = "confirmed"  // service agreed with the input
	ValidationMismatch  ValidationStatus = "mismatch"   // service suggested a different address
	ValidationFailed    ValidationStatus = "failed"     // transport or parse failure
)

// SuggestedAddress is the normalized address returned by the validation
// service. Field casing follows the upstream wire format.
type SuggestedAddress struct {
	Line1      string `json:"Line1"`
	Line2      string `json:"Line2"`
	City       string `json:"City"`
	Region     string `json:"Region"`
	PostalCode string `json:"PostalCode"`
	Country    string `json:"Country"`
}

// ValidationMessage is a human-readable note attached to a validation result
type ValidationMessage struct {
	Summary string `json:"Summary"`
}

// AddressValidationResult is the reconciled verdict returned to callers
type AddressValidationResult struct {
	Status     ValidationStatus    `json:"status"`
	ResultCode string              `json:"resultCode,omitempty"`
	Address    *SuggestedAddress   `json:"address,omitempty"`
	Messages   []ValidationMessage `json:"messages,omitempty"`
}
