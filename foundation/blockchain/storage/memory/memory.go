// Package memory implements the ability to read and write receipts to memory
// using a slice.
package memory

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/fundme/foundation/blockchain/database"
)

// Memory represents the serialization implementation for reading and storing
// receipts in memory using a slice. This implements the database.Serializer
// interface.
type Memory struct {
	mu       sync.RWMutex
	receipts []database.Receipt
}

// New constructs an Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified receipt and stores it in memory.
func (m *Memory) Write(receipt database.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := len(m.receipts)
	if uint64(l+1) != receipt.Number {
		return fmt.Errorf("receipt %d is out of order, expected %d", receipt.Number, l+1)
	}

	m.receipts = append(m.receipts, receipt)

	return nil
}

// GetReceipt searches the log to locate and return the contents of
// the specified receipt by number.
func (m *Memory) GetReceipt(num uint64) (database.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num == 0 || num > uint64(len(m.receipts)) {
		return database.Receipt{}, fmt.Errorf("receipt %d: %w", num, database.ErrEndOfChain)
	}

	return m.receipts[num-1], nil
}

// ForEach returns an iterator to walk through all the receipts
// starting with receipt number 1.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the receipts in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.receipts = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through and reading receipts in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current receipt number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next receipt from memory.
func (mi *memoryIterator) Next() (database.Receipt, error) {
	if mi.eoc {
		return database.Receipt{}, database.ErrEndOfChain
	}

	mi.current++
	receipt, err := mi.storage.GetReceipt(mi.current)
	if err != nil {
		mi.eoc = true
	}

	return receipt, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
