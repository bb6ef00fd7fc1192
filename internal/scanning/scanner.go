package scanning

// ReceiptFields contains the raw extraction from a receipt image, before any
// defaulting is applied.
type ReceiptFields struct {
	Merchant string  `json:"merchant"`
	Date     string  `json:"date"` // ISO 8601 format
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	TaxID    string  `json:"taxId"`
	Address  string  `json:"address"`
	Note     string  `json:"note"`
}

// Scanner defines the interface for receipt analysis providers
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts its fields
	ScanReceipt(imageData []byte, contentType string) (*ReceiptFields, error)
	// Close closes the scanner and releases resources
	Close() error
}
