package scanning

import (
	"time"
)

// mockScanDelay approximates how long a real model call takes, so the demo
// mode feels like the real thing.
const mockScanDelay = 2500 * time.Millisecond

// Mock implements the Scanner interface without calling any model. It is the
// no-credentials demo seam: a fixed illustrative record after a realistic
// delay. It never touches the network.
type Mock struct {
	delay time.Duration
	sleep func(time.Duration)
	now   func() time.Time
}

// NewMock creates a Mock scanner with the standard demo delay
func NewMock() *Mock {
	return &Mock{
		delay: mockScanDelay,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// ScanReceipt waits the configured delay and returns the sample record
func (m *Mock) ScanReceipt(imageData []byte, contentType string) (*ReceiptFields, error) {
	m.sleep(m.delay)
	return &ReceiptFields{
		Merchant: "OfficeMate Online",
		Date:     m.now().Format("2006-01-02"),
		Amount:   1250.00,
		Category: "Office Supplies",
		TaxID:    "0107542000011",
		Address:  "24 Silom Road, Bang Rak, Bangkok",
		Note:     "A4 paper and printer ink for the office",
	}, nil
}

// Close is a no-op for the mock scanner
func (m *Mock) Close() error {
	return nil
}
