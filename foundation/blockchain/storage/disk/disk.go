// Package disk implements the ability to read and write receipts to disk
// with each receipt stored in its own file.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and storing
// receipts in their own separate files on disk. This implements the
// database.Serializer interface.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new receipt and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified receipt and stores it on disk in a file labeled
// with the receipt number.
func (d *Disk) Write(receipt database.Receipt) error {

	// Marshal the receipt for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this receipt, a receipt number is never reused.
	f, err := os.OpenFile(d.getPath(receipt.Number), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// GetReceipt reads the contents of the specified receipt by number.
func (d *Disk) GetReceipt(num uint64) (database.Receipt, error) {
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Receipt{}, fmt.Errorf("receipt %d: %w", num, database.ErrEndOfChain)
		}
		return database.Receipt{}, err
	}
	defer f.Close()

	var receipt database.Receipt
	if err := json.NewDecoder(f).Decode(&receipt); err != nil {
		return database.Receipt{}, fmt.Errorf("decoding receipt %d: %w", num, err)
	}

	return receipt, nil
}

// ForEach returns an iterator to walk through all the receipts
// starting with receipt number 1.
func (d *Disk) ForEach() database.Iterator {
	return &diskIterator{disk: d}
}

// Reset will clear out the receipts on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the specified receipt.
func (d *Disk) getPath(num uint64) string {
	name := strconv.FormatUint(num, 10)
	return filepath.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// diskIterator represents the iteration implementation for walking
// through and reading receipts on disk. This implements the database
// Iterator interface.
type diskIterator struct {
	disk    *Disk  // Access to the storage API.
	current uint64 // Current receipt number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next receipt from disk.
func (di *diskIterator) Next() (database.Receipt, error) {
	if di.eoc {
		return database.Receipt{}, database.ErrEndOfChain
	}

	di.current++
	receipt, err := di.disk.GetReceipt(di.current)
	if errors.Is(err, database.ErrEndOfChain) {
		di.eoc = true
	}

	return receipt, err
}

// Done returns the end of chain value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
