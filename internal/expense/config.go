package expense

import (
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const (
	configBucketName = "config"
	sheetURLKey      = "sheet_url"
)

// ConfigStore persists the spreadsheet webhook URL between sessions.
type ConfigStore interface {
	// Load returns the saved webhook URL, or an empty string if none is set
	Load() (string, error)

	// Save overwrites the webhook URL
	Save(url string) error

	// Close closes the store
	Close() error
}

// BoltConfig implements ConfigStore using BoltDB.
type BoltConfig struct {
	db *bbolt.DB
}

// NewBoltConfig opens (creating if needed) a BoltDB-backed config store.
func NewBoltConfig(path string) (*BoltConfig, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(configBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating config bucket: %w", err)
	}

	return &BoltConfig{db: db}, nil
}

// Load returns the saved webhook URL, or "" when no value has been saved yet.
func (b *BoltConfig) Load() (string, error) {
	var url string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configBucketName))
		if data := bucket.Get([]byte(sheetURLKey)); data != nil {
			url = string(data)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return url, nil
}

// Save overwrites the webhook URL.
func (b *BoltConfig) Save(url string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configBucketName))
		return bucket.Put([]byte(sheetURLKey), []byte(url))
	})
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (b *BoltConfig) Close() error {
	return b.db.Close()
}

// MemoryConfig implements ConfigStore in memory. Nothing survives a restart;
// it backs tests and the local-only mode when no database path is usable.
type MemoryConfig struct {
	mu  sync.Mutex
	url string
}

// NewMemoryConfig creates an empty in-memory config store.
func NewMemoryConfig() *MemoryConfig {
	return &MemoryConfig{}
}

// Load returns the saved webhook URL.
func (m *MemoryConfig) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url, nil
}

// Save overwrites the webhook URL.
func (m *MemoryConfig) Save(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = url
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryConfig) Close() error {
	return nil
}
