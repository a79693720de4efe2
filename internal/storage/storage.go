package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/ledchess/internal/link"
)

// Storage keys
const keyPreferences = "preferences"

// DevicePreferences stores how the daemon talks to its hardware. Board
// positions are never stored; the board is repopulated from the next line
// the controller sends.
type DevicePreferences struct {
	SerialDevice string    `json:"serial_device"`
	BaudRate     int       `json:"baud_rate"`
	SPIDevice    string    `json:"spi_device"`
	Brightness   uint8     `json:"brightness"`
	PalettePath  string    `json:"palette_path"`
	LastUsed     time.Time `json:"last_used"`
}

// DefaultPreferences returns the out-of-the-box device setup: first serial
// port a controller usually shows up on, first SPI port, LEDs dimmed enough
// for a desk.
func DefaultPreferences() *DevicePreferences {
	return &DevicePreferences{
		SerialDevice: "/dev/ttyACM0",
		BaudRate:     link.DefaultBaudRate,
		SPIDevice:    "",
		Brightness:   48,
		PalettePath:  "",
		LastUsed:     time.Now(),
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the preference database in the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves device preferences
func (s *Storage) SavePreferences(prefs *DevicePreferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads device preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*DevicePreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}
