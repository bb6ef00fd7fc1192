package expense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sourceTag identifies this application in rows appended to the spreadsheet.
const sourceTag = "BillScannerApp"

// SyncState describes what happened to the spreadsheet copy of a transaction.
type SyncState string

const (
	// SyncDelivered means the webhook accepted the row
	SyncDelivered SyncState = "delivered"
	// SyncFailed means the webhook call failed; the local copy was still kept
	SyncFailed SyncState = "failed"
	// SyncSkipped means no webhook URL is configured (local-only mode)
	SyncSkipped SyncState = "skipped"
)

// SyncResult reports the outcome of the sheet-sync attempt for one confirm.
// A failed sync never blocks the local save; the failure travels in this
// value instead of as an error.
type SyncResult struct {
	State  SyncState `json:"state"`
	Reason string    `json:"reason,omitempty"`
}

// SheetClient delivers a confirmed transaction to a spreadsheet webhook.
type SheetClient interface {
	// Append posts one transaction to the webhook URL
	Append(url string, tx *Transaction) error
}

// HTTPSheetClient implements SheetClient against a Google Apps Script style
// web app endpoint.
type HTTPSheetClient struct {
	client *http.Client
}

// NewSheetClient creates an HTTPSheetClient with a sane timeout.
func NewSheetClient() *HTTPSheetClient {
	return &HTTPSheetClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sheetRow is the wire shape the webhook receives: every transaction field
// plus a fixed source tag.
type sheetRow struct {
	*Transaction
	Source string `json:"source"`
}

// Append posts one transaction to the webhook. The body is JSON but the
// content type is deliberately text/plain so browsers and Apps Script web
// apps accept it without a CORS preflight round trip. Exactly one attempt is
// made; any non-2xx status is a failure.
func (c *HTTPSheetClient) Append(url string, tx *Transaction) error {
	body, err := json.Marshal(sheetRow{Transaction: tx, Source: sourceTag})
	if err != nil {
		return fmt.Errorf("marshaling transaction: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
