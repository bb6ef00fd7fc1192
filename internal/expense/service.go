package expense

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanadet/bill-scanner/internal/scanning"
)

// SaveStatus is the confirm flow state: idle -> saving -> success -> idle.
// There is no error state; a failed sheet sync still reaches success.
type SaveStatus string

const (
	StatusIdle    SaveStatus = "idle"
	StatusSaving  SaveStatus = "saving"
	StatusSuccess SaveStatus = "success"
)

const (
	// localSaveDelay keeps perceived latency consistent when no webhook is
	// configured and the save is purely local
	localSaveDelay = 1 * time.Second
	// successResetDelay is how long the success state is shown before the
	// tracker returns to idle
	successResetDelay = 1500 * time.Millisecond
)

const (
	fallbackMerchant = "Unknown Merchant"
	errorMerchant    = "Error Reading Slip"
	errorNote        = "Could not analyze image"
)

var (
	// ErrInvalidForm is returned when the confirm gate rejects the form
	ErrInvalidForm = errors.New("merchant and a positive amount are required")
	// ErrSaveInProgress is returned when confirm is re-entered before the
	// previous save finished
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// IDGenerator generates unique IDs for transactions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Sleeper waits for a duration
type Sleeper interface {
	Sleep(d time.Duration)
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// defaultSleeper sleeps for real
type defaultSleeper struct{}

func (s *defaultSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Tracker owns all application state: the session transaction list, the save
// status, and access to the configured webhook URL. Every mutation goes
// through a named action so the whole flow is testable without a browser.
type Tracker struct {
	mu           sync.Mutex
	transactions []*Transaction
	status       SaveStatus

	scanner scanning.Scanner
	sheets  SheetClient
	config  ConfigStore

	idGenerator IDGenerator
	timeSource  TimeSource
	sleeper     Sleeper
}

// NewTracker creates a Tracker with default ID generator, time source and sleeper
func NewTracker(scanner scanning.Scanner, sheets SheetClient, config ConfigStore) *Tracker {
	return NewTrackerWithDeps(scanner, sheets, config, &defaultIDGenerator{}, &defaultTimeSource{}, &defaultSleeper{})
}

// NewTrackerWithDeps creates a Tracker with custom dependencies for testing
func NewTrackerWithDeps(scanner scanning.Scanner, sheets SheetClient, config ConfigStore, idGen IDGenerator, timeSrc TimeSource, sleeper Sleeper) *Tracker {
	return &Tracker{
		status:       StatusIdle,
		transactions: make([]*Transaction, 0),
		scanner:      scanner,
		sheets:       sheets,
		config:       config,
		idGenerator:  idGen,
		timeSource:   timeSrc,
		sleeper:      sleeper,
	}
}

// Scan runs the analyzer over a receipt image and always returns a usable
// record. Provider failures are contained here: the caller gets a degraded
// result flagging the error, never an error value.
func (t *Tracker) Scan(data []byte, contentType string) ScanResult {
	today := t.timeSource.Now().Format("2006-01-02")

	fields, err := t.scanner.ScanReceipt(data, contentType)
	if err != nil || fields == nil {
		slog.Error("Failed to analyze receipt",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return ScanResult{
			Date:     today,
			Merchant: errorMerchant,
			Amount:   0,
			Category: CategoryOther,
			Note:     errorNote,
		}
	}

	merchant := strings.TrimSpace(fields.Merchant)
	if merchant == "" {
		merchant = fallbackMerchant
	}
	date := strings.TrimSpace(fields.Date)
	if date == "" {
		date = today
	}
	amount := fields.Amount
	if amount < 0 {
		amount = 0
	}

	return ScanResult{
		Date:     date,
		Merchant: merchant,
		Amount:   Amount(amount),
		Category: NormalizeCategory(fields.Category),
		TaxID:    strings.TrimSpace(fields.TaxID),
		Address:  strings.TrimSpace(fields.Address),
		Note:     strings.TrimSpace(fields.Note),
	}
}

// Confirm finalizes the review form into a Transaction. The form must carry a
// merchant and a positive amount; otherwise nothing changes. When a webhook
// URL is configured exactly one delivery attempt is made, and whatever its
// outcome the transaction is appended to the session list. Re-entry while a
// save is in flight (or the success state is still showing) is rejected.
func (t *Tracker) Confirm(form ScanResult) (*Transaction, SyncResult, error) {
	if strings.TrimSpace(form.Merchant) == "" || form.Amount <= 0 {
		return nil, SyncResult{}, ErrInvalidForm
	}

	t.mu.Lock()
	if t.status != StatusIdle {
		t.mu.Unlock()
		return nil, SyncResult{}, ErrSaveInProgress
	}
	t.status = StatusSaving
	t.mu.Unlock()

	url, err := t.config.Load()
	if err != nil {
		slog.Warn("Failed to load webhook URL, saving locally only", "error", err)
		url = ""
	}

	now := t.timeSource.Now()
	date := strings.TrimSpace(form.Date)
	if date == "" {
		date = now.Format("2006-01-02")
	}

	tx := &Transaction{
		ID:        t.idGenerator.Generate(),
		Date:      date,
		Merchant:  form.Merchant,
		Amount:    float64(form.Amount),
		Category:  NormalizeCategory(string(form.Category)),
		Timestamp: now.UnixMilli(),
		TaxID:     form.TaxID,
		Address:   form.Address,
		Note:      form.Note,
	}

	var delivery SyncResult
	if url != "" {
		if err := t.sheets.Append(url, tx); err != nil {
			slog.Warn("Sheet sync failed, transaction kept locally", "merchant", tx.Merchant, "error", err)
			delivery = SyncResult{State: SyncFailed, Reason: err.Error()}
		} else {
			delivery = SyncResult{State: SyncDelivered}
		}
	} else {
		// Local-only mode: keep perceived latency consistent with the
		// webhook path
		t.sleeper.Sleep(localSaveDelay)
		delivery = SyncResult{State: SyncSkipped}
	}

	t.mu.Lock()
	t.transactions = append([]*Transaction{tx}, t.transactions...)
	t.status = StatusSuccess
	t.mu.Unlock()

	go func() {
		t.sleeper.Sleep(successResetDelay)
		t.mu.Lock()
		if t.status == StatusSuccess {
			t.status = StatusIdle
		}
		t.mu.Unlock()
	}()

	return tx, delivery, nil
}

// Transactions returns the session list, newest first.
func (t *Tracker) Transactions() []*Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Transaction, len(t.transactions))
	copy(out, t.transactions)
	return out
}

// Status returns the current save status.
func (t *Tracker) Status() SaveStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SheetURL returns the configured webhook URL, or "" when none is set.
func (t *Tracker) SheetURL() (string, error) {
	return t.config.Load()
}

// SetSheetURL overwrites the configured webhook URL.
func (t *Tracker) SetSheetURL(url string) error {
	return t.config.Save(strings.TrimSpace(url))
}
